package session

import (
	"context"
	"regexp"

	"github.com/logitrack/clients/pkg/authsvc"
	"github.com/logitrack/clients/pkg/models"
)

// ResetStage is the password-reset sub-state machine. It lives only
// in memory (or in the rendered form, for the web runtime) and is
// lost on reload, which matches the server treating the emailed code
// as the sole source of truth.
type ResetStage int

const (
	StageCollectingEmail ResetStage = iota
	StageCollectingCode
)

// The server emails exactly six digits; anything else is rejected
// before a request is made.
var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

const (
	msgInvalidCode      = "Code must be exactly 6 digits"
	msgPasswordMismatch = "Passwords do not match"
)

// ResetFlow drives the two-step reset: collect an email, request a
// code, then collect the code and the new password. Confirming never
// establishes a session.
type ResetFlow struct {
	svc   *authsvc.Service
	stage ResetStage
	email string
}

func NewResetFlow(svc *authsvc.Service) *ResetFlow {
	return &ResetFlow{svc: svc, stage: StageCollectingEmail}
}

func (f *ResetFlow) Stage() ResetStage { return f.stage }
func (f *ResetFlow) Email() string     { return f.email }

// SubmitEmail requests a reset code. Only a successful request moves
// the flow to the code stage.
func (f *ResetFlow) SubmitEmail(ctx context.Context, email string) models.Result[models.None] {
	if email == "" {
		return models.FailField[models.None]("Email is required", models.FieldEmail, "Email is required")
	}
	res := f.svc.RequestPasswordReset(ctx, email)
	if res.Success {
		f.email = email
		f.stage = StageCollectingCode
	}
	return res
}

// SubmitCode confirms the reset. Client-side checks cover only what
// needs no server round trip; expiry and attempt limits are enforced
// server-side and surface as field errors.
func (f *ResetFlow) SubmitCode(ctx context.Context, code, newPassword, confirmPassword string) models.Result[models.None] {
	if !codePattern.MatchString(code) {
		return models.FailField[models.None](msgInvalidCode, models.FieldCode, msgInvalidCode)
	}
	if newPassword != confirmPassword {
		return models.FailField[models.None](msgPasswordMismatch, models.FieldConfirmPassword, msgPasswordMismatch)
	}
	return f.svc.ConfirmPasswordReset(ctx, models.PasswordResetConfirm{
		Code:            code,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	})
}

// Restart throws away the collected email and returns to the first
// stage, for "use a different email" links.
func (f *ResetFlow) Restart() {
	f.email = ""
	f.stage = StageCollectingEmail
}
