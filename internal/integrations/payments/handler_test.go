package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_session"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/fail_payment"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/refund_session"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recorder struct {
	called string
	actor  domain.Actor
	id     int64
	reason string
	err    error
}

type confirmStub struct{ *recorder }

func (s confirmStub) Execute(_ context.Context, req *confirm_session.Request) (*confirm_session.Response, error) {
	s.called, s.actor, s.id = "confirm", req.Actor, req.SessionID
	return &confirm_session.Response{}, s.err
}

type failStub struct{ *recorder }

func (s failStub) Execute(_ context.Context, req *fail_payment.Request) (*fail_payment.Response, error) {
	s.called, s.actor, s.id, s.reason = "fail", req.Actor, req.SessionID, req.Reason
	return &fail_payment.Response{}, s.err
}

type refundStub struct{ *recorder }

func (s refundStub) Execute(_ context.Context, req *refund_session.Request) (*refund_session.Response, error) {
	s.called, s.actor, s.id, s.reason = "refund", req.Actor, req.SessionID, req.Reason
	return &refund_session.Response{}, s.err
}

func newHandler(rec *recorder) *Handler {
	return NewHandler(confirmStub{rec}, failStub{rec}, refundStub{rec}, nopLogger{})
}

func TestHandle_Routing(t *testing.T) {
	tests := []struct {
		key    string
		called string
	}{
		{RoutingCaptured, "confirm"},
		{RoutingFailed, "fail"},
		{RoutingRefunded, "refund"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			rec := &recorder{}
			ack := newHandler(rec).Handle(context.Background(), tt.key, []byte(`{"sessionId": 42, "reason": "card declined"}`))

			assert.True(t, ack)
			assert.Equal(t, tt.called, rec.called)
			assert.Equal(t, int64(42), rec.id)
			assert.Equal(t, domain.SystemActor, rec.actor)
		})
	}
}

func TestHandle_FailReasonPassedThrough(t *testing.T) {
	rec := &recorder{}
	newHandler(rec).Handle(context.Background(), RoutingFailed, []byte(`{"sessionId": 1, "reason": "card declined"}`))

	assert.Equal(t, "card declined", rec.reason)
}

func TestHandle_AckPolicy(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		ack  bool
	}{
		{"malformed body", `{"sessionId":`, nil, true},
		{"missing session", `{}`, nil, true},
		{"invalid state is final", `{"sessionId": 1}`, fmt.Errorf("%w: cancelled", domain.ErrInvalidState), true},
		{"unknown session is final", `{"sessionId": 1}`, fmt.Errorf("%w: no session", domain.ErrNotFound), true},
		{"internal error is retried", `{"sessionId": 1}`, fmt.Errorf("%w: %v", domain.ErrInternal, errors.New("db down")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{err: tt.err}
			ack := newHandler(rec).Handle(context.Background(), RoutingCaptured, []byte(tt.body))

			assert.Equal(t, tt.ack, ack)
		})
	}
}

func TestHandle_UnknownRoutingKey(t *testing.T) {
	rec := &recorder{}
	ack := newHandler(rec).Handle(context.Background(), "payment.disputed", []byte(`{"sessionId": 1}`))

	assert.True(t, ack)
	assert.Empty(t, rec.called)
}
