// Package mailx delivers transactional email for the account service.
//
// The only mail the service sends today is the one-time verification code,
// so the interface is deliberately narrow. Production uses SMTPMailer;
// development and tests use LogMailer or a capture fake.
package mailx

import (
	"context"
	"time"
)

// Purpose distinguishes why a code was issued, so the email copy can say
// "finish creating your workspace" vs "sign in".
type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeLogin  Purpose = "login"
)

// Mailer sends a one-time verification code to an email address.
type Mailer interface {
	SendCode(ctx context.Context, to, code string, purpose Purpose, validFor time.Duration) error
}
