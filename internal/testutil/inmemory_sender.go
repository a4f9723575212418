package testutil

import (
	"context"
	"sync"

	"github.com/locatus/locatus/internal/email"
	"github.com/locatus/locatus/internal/types"
)

// InMemorySender implements email.Sender and records every send so tests can
// assert on what went out. FailAll flips it into a sender whose provider
// rejects every message, mirroring the degraded Success=false contract.
type InMemorySender struct {
	mu      sync.Mutex
	sent    []email.SendEmailRequest
	FailAll bool
}

// NewInMemorySender creates a new recording sender
func NewInMemorySender() *InMemorySender {
	return &InMemorySender{
		sent: make([]email.SendEmailRequest, 0),
	}
}

func (s *InMemorySender) Send(ctx context.Context, req email.SendEmailRequest) (*email.SendEmailResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAll {
		return &email.SendEmailResponse{
			Success: false,
			Error:   "provider rejected the message",
		}, nil
	}

	s.sent = append(s.sent, req)
	return &email.SendEmailResponse{
		MessageID: types.GenerateUUID(),
		Success:   true,
	}, nil
}

// Sent returns a copy of everything sent so far
func (s *InMemorySender) Sent() []email.SendEmailRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]email.SendEmailRequest, len(s.sent))
	copy(out, s.sent)
	return out
}

// Clear drops the recorded sends
func (s *InMemorySender) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = s.sent[:0]
	s.FailAll = false
}
