package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "korskola/internal/bookings/errors"
	catalogrepository "korskola/internal/catalog/repository"
	"korskola/pkg/config"
	mongotx "korskola/pkg/db/mongo"
	"korskola/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	sessions   *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindBySubmissionKey(ctx context.Context, key string) (*model.Booking, error)
	// FindStalePending lists bookings still awaiting payment that were created
	// before the cutoff, oldest first.
	FindStalePending(ctx context.Context, before time.Time, limit int) ([]*model.Booking, error)
	// ReserveSeats adds seats to a session's participant count only while the
	// result stays within max_participants.
	ReserveSeats(ctx context.Context, sessionID string, seats int) error
	// ReleaseSeats gives back seats taken by ReserveSeats. The count never
	// drops below zero.
	ReleaseSeats(ctx context.Context, sessionID string, seats int) error
	// SettlePayment moves a pending payment to update.Status. A failed
	// payment cancels the booking.
	SettlePayment(ctx context.Context, update model.PaymentUpdate) (*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		sessions:   db.Collection(catalogrepository.TeoriSessionsCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindBySubmissionKey(ctx context.Context, key string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"submission_key": key}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by submission key: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindStalePending(ctx context.Context, before time.Time, limit int) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"payment_status": model.PaymentStatusPending,
		"created_at":     bson.M{"$lt": before},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find stale bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode stale bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) ReserveSeats(ctx context.Context, sessionID string, seats int) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrSessionNotFound, sessionID)
	}

	filter := bson.M{
		"_id":    objectID,
		"active": true,
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$add": bson.A{"$current_participants", seats}},
			"$max_participants",
		}},
	}
	update := bson.M{"$inc": bson.M{"current_participants": seats}}

	result, err := r.sessions.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: tell a full session apart from a missing one.
	count, err := r.sessions.CountDocuments(ctx, bson.M{"_id": objectID, "active": true})
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if count == 0 {
		return bookingserrors.ErrSessionNotFound
	}
	return bookingserrors.ErrCapacityExceeded
}

func (r *mongoBookingRepository) ReleaseSeats(ctx context.Context, sessionID string, seats int) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrSessionNotFound, sessionID)
	}

	filter := bson.M{"_id": objectID, "current_participants": bson.M{"$gte": seats}}
	update := bson.M{"$inc": bson.M{"current_participants": -seats}}

	result, err := r.sessions.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrSessionNotFound
	}
	return nil
}

func (r *mongoBookingRepository) SettlePayment(ctx context.Context, update model.PaymentUpdate) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(update.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, update.BookingID)
	}

	status := model.BookingStatusPending
	switch update.Status {
	case model.PaymentStatusPaid:
		status = model.BookingStatusConfirmed
	case model.PaymentStatusFailed:
		status = model.BookingStatusCancelled
	}

	filter := bson.M{"_id": objectID, "payment_status": model.PaymentStatusPending}
	set := bson.M{"$set": bson.M{
		"payment_status":    update.Status,
		"payment_method":    update.Method,
		"payment_reference": update.Reference,
		"status":            status,
		"updated_at":        time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, set)
	if err != nil {
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}

	booking, err := r.FindByID(ctx, update.BookingID)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return booking, bookingserrors.ErrPaymentAlreadySettled
	}
	return booking, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
