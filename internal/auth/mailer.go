package auth

import (
	"context"
	"log"
)

// Mailer delivers password-recovery links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes recovery tokens to the log. Used where no mail relay is configured.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, email, token string) error {
	log.Printf("[auth] password reset requested for %s, token: %s", email, token)
	return nil
}
