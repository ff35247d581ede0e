package service

import (
	"context"
	"sync"
	"time"

	"korskola/pkg/logger"
)

type PaymentExpirer interface {
	ExpireStalePayments(ctx context.Context) (int, error)
}

// PaymentExpiryWorker periodically fails bookings whose payment was abandoned
// so their teori seats return to the session.
type PaymentExpiryWorker struct {
	expirer  PaymentExpirer
	interval time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewPaymentExpiryWorker(expirer PaymentExpirer, interval time.Duration, log *logger.Logger) *PaymentExpiryWorker {
	return &PaymentExpiryWorker{
		expirer:  expirer,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

func (w *PaymentExpiryWorker) Start(ctx context.Context) error {
	w.log.Info("Payment expiry worker started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.expirer.ExpireStalePayments(ctx); err != nil {
				w.log.Error("Payment expiry run failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		}
	}
}

func (w *PaymentExpiryWorker) Close() error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	return nil
}
