package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"korskola/pkg/logger"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ErrorTypeUnknown},
		{name: "transient wrapper", err: NewTransientError("db", errors.New("x")), want: ErrorTypeTransient},
		{name: "business wrapper", err: NewBusinessError("unknown booking", nil), want: ErrorTypeBusiness},
		{name: "i/o timeout text", err: errors.New("read tcp: I/O Timeout"), want: ErrorTypeTransient},
		{name: "connection refused", err: errors.New("dial: connection refused"), want: ErrorTypeTransient},
		{name: "unknown", err: errors.New("json: cannot unmarshal"), want: ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	if got := msg.GetRetryCount(); got != 12 {
		t.Errorf("GetRetryCount() = %d, want 12", got)
	}

	msg.Headers[HeaderRetryCount] = "garbage"
	if got := msg.GetRetryCount(); got != 0 {
		t.Errorf("GetRetryCount() on garbage = %d, want 0", got)
	}
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("b1").
		WithValue(map[string]string{"booking_id": "b1"}).
		WithEventType("booking.created").
		WithCorrelationID("").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if msg.GetEventID() == "" {
		t.Errorf("expected generated event id")
	}
	if _, ok := msg.Headers[HeaderCorrelationID]; ok {
		t.Errorf("empty correlation id should not be set")
	}

	var decoded map[string]string
	if err := msg.DecodeValue(&decoded); err != nil || decoded["booking_id"] != "b1" {
		t.Errorf("DecodeValue() = %v, %v", decoded, err)
	}

	if _, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build(); err == nil {
		t.Errorf("expected encode error")
	}
}

func TestConsumerProcess_Retries(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Service: "test"})

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{name: "success first try", failures: 0, wantCalls: 1},
		{name: "transient then success", failures: 2, err: NewTransientError("flaky", nil), wantCalls: 3},
		{name: "transient exhausted", failures: 10, err: NewTransientError("down", nil), wantCalls: 4, wantErr: true},
		{name: "permanent not retried", failures: 10, err: NewPermanentError("bad payload", nil), wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			c := &Consumer{
				maxRetries: 3,
				backoff:    time.Millisecond,
				log:        log,
				handler: func(ctx context.Context, msg Message) error {
					calls++
					if calls <= tt.failures {
						return tt.err
					}
					return nil
				},
			}

			err := c.process(context.Background(), Message{Headers: map[string]string{}})
			if (err != nil) != tt.wantErr {
				t.Fatalf("process() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("handler calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}
