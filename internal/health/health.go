package health

import (
	"context"
	"net/http"
	"time"

	httputil "korskola/pkg/http"
	"korskola/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
)

const checkTimeout = 2 * time.Second

type Response struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Drafts   string `json:"drafts,omitempty"`
}

// Pinger is one dependency checked by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

type mongoPinger struct{ client *mongo.Client }

func (p mongoPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx, nil) }

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

type Handler struct {
	database Pinger
	drafts   Pinger
	log      *logger.Logger
}

// NewHandler checks Mongo and, when drafts are kept in Redis, Redis too.
func NewHandler(mongoClient *mongo.Client, redisClient *redis.Client, log *logger.Logger) *Handler {
	h := &Handler{log: log}
	if mongoClient != nil {
		h.database = mongoPinger{client: mongoClient}
	}
	if redisClient != nil {
		h.drafts = redisPinger{client: redisClient}
	}
	return h
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, Response{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	resp := Response{Status: "ready"}
	status := http.StatusOK

	if h.database != nil {
		resp.Database = "ok"
		if err := h.database.Ping(ctx); err != nil {
			h.log.Error("Database health check failed", "error", err, "path", r.URL.Path)
			resp.Database = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.drafts != nil {
		resp.Drafts = "ok"
		if err := h.drafts.Ping(ctx); err != nil {
			h.log.Error("Draft store health check failed", "error", err, "path", r.URL.Path)
			resp.Drafts = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
