package main

import (
	bookingevents "korskola/internal/bookings/events"
	bookinghandler "korskola/internal/bookings/handler"
	bookingrepository "korskola/internal/bookings/repository"
	bookingservice "korskola/internal/bookings/service"
	bookingvalidator "korskola/internal/bookings/validator"
	cataloghandler "korskola/internal/catalog/handler"
	catalogrepository "korskola/internal/catalog/repository"
	catalogservice "korskola/internal/catalog/service"
	catalogvalidator "korskola/internal/catalog/validator"
	studenthandler "korskola/internal/students/handler"
	studentrepository "korskola/internal/students/repository"
	studentservice "korskola/internal/students/service"
	studentvalidator "korskola/internal/students/validator"
	"korskola/internal/wizard/eligibility"
	wizardhandler "korskola/internal/wizard/handler"
	"korskola/internal/wizard/session"
	wizardservice "korskola/internal/wizard/service"
	"korskola/pkg/app"
	"korskola/pkg/auth"
	"korskola/pkg/config"
	"korskola/pkg/kafka"
	kafka_config "korskola/pkg/kafka/config"
	kafka_middleware "korskola/pkg/kafka/middleware"
	"korskola/pkg/sealer"
)

const (
	ServiceName   = "wizard"
	SessionPrefix = "wizard:session:"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	if cfg.DraftStore == config.DraftStoreRedis {
		cfg.SetRedis()
	}

	serverApp := app.NewApplication(cfg)

	catalogService := catalogservice.NewCatalogService(
		catalogrepository.NewMongoCatalogRepository(cfg),
		catalogvalidator.NewCatalogValidator(cfg.Log),
		cfg,
	)
	studentService := studentservice.NewStudentService(
		studentrepository.NewMongoStudentRepository(cfg),
		studentvalidator.NewStudentValidator(cfg.Log),
		cfg,
	)

	var publisher kafka.Publisher
	var kafkaCfg *kafka_config.Config
	if cfg.KafkaEnabled {
		var err error
		kafkaCfg, err = kafka_config.Load()
		if err != nil {
			cfg.Log.Fatal("Invalid kafka configuration", "error", err)
		}
		kafkaCfg.LogConfiguration(cfg.Log)
		producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQ, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create kafka producer", "error", err)
		}
		if kafkaCfg.EnableMiddleware {
			producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		}
		publisher = producer
		serverApp.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close kafka producer", "error", err)
			}
		})
	}

	bookingService := bookingservice.NewBookingService(
		bookingrepository.NewMongoBookingRepository(cfg),
		bookingrepository.NewBookingLockRepository(cfg),
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	serverApp.AddWorker(bookingservice.NewPaymentExpiryWorker(bookingService, cfg.PaymentExpiryInterval, cfg.Log))

	if cfg.KafkaEnabled {
		consumer, err := kafka.NewConsumer(
			kafkaCfg,
			cfg.PaymentStatusTopic,
			cfg.PaymentStatusGroupID,
			cfg.PaymentStatusDLQ,
			bookingevents.PaymentStatusHandler(bookingService),
			cfg.Log,
		)
		if err != nil {
			cfg.Log.Fatal("Failed to create kafka consumer", "error", err)
		}
		if kafkaCfg.EnableMiddleware {
			consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		}
		serverApp.AddWorker(consumer)
	}

	var store session.Store
	switch cfg.DraftStore {
	case config.DraftStoreRedis:
		store = session.NewRedisStore(cfg.Client.Redis, SessionPrefix, cfg.DraftTTL)
	default:
		store = session.NewMemoryStore(cfg.DraftTTL)
	}
	serverApp.OnShutdown(store.Stop)

	checker, err := eligibility.NewChecker(eligibility.Config{
		SupervisorPersonalNumberRequired: cfg.SupervisorPersonalNumberRequired,
		Location:                         cfg.Location,
	})
	if err != nil {
		cfg.Log.Fatal("Failed to create eligibility checker", "error", err)
	}

	tokenSealer, err := sealer.New(cfg.PaymentTokenKey)
	if err != nil {
		cfg.Log.Fatal("Invalid payment token key", "error", err)
	}

	wizardService, err := wizardservice.NewWizardService(
		store,
		catalogService,
		studentService,
		bookingService,
		checker,
		tokenSealer,
		cfg,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create wizard service", "error", err)
	}

	serverApp.SetApp(
		auth.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer),
		wizardhandler.NewWizardHandler(wizardService, cfg.Log),
		cataloghandler.NewCatalogHandler(catalogService, cfg.Log),
		studenthandler.NewStudentHandler(studentService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.PaymentWebhookSecret, cfg.Log),
	)
	serverApp.Run()
}
