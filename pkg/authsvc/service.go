// Package authsvc is the stateless session façade. Every operation
// returns the normalized Result shape; expected failures (invalid
// credentials, validation errors, network errors) never come back as
// Go errors, so callers can render without exception handling.
package authsvc

import (
	"context"
	"encoding/json"

	"github.com/logitrack/clients/pkg/apiclient"
	"github.com/logitrack/clients/pkg/logging"
	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/store"
)

const (
	pathLogin          = "/auth/login/"
	pathRegister       = "/auth/register/"
	pathLogout         = "/auth/logout/"
	pathCurrentUser    = "/auth/user/"
	pathTokenRefresh   = "/auth/token/refresh/"
	pathPasswordReset  = "/auth/password/reset/"
	pathPasswordConfirm = "/auth/password/confirm/"
)

// User-facing messages. Field errors from the server pass through
// verbatim; these cover the failures the server does not itemize.
const (
	MsgBadCredentials = "Email or password incorrect"
	MsgNetworkError   = "Connection error. Please try again."
	MsgServerError    = "Something went wrong. Please try again later."
	MsgInvalidData    = "Invalid data"
)

type Service struct {
	api   *apiclient.Client
	store store.Store
}

func New(api *apiclient.Client, st store.Store) *Service {
	return &Service{api: api, store: st}
}

// Login exchanges credentials for a token pair and persists the
// session triple. A 401 is masked as the same message on both
// credential fields so the response never reveals which one was
// wrong.
func (s *Service) Login(ctx context.Context, creds models.LoginCredentials) models.Result[models.AuthPayload] {
	env, err := s.api.Post(ctx, pathLogin, creds)
	if err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.Status == 401 {
			return models.Fail[models.AuthPayload](MsgBadCredentials, models.FieldErrors{
				models.FieldEmail:       {MsgBadCredentials},
				models.FieldPassword:    {MsgBadCredentials},
				models.FieldCredentials: {MsgBadCredentials},
			})
		}
		return failureFrom[models.AuthPayload](ctx, err)
	}
	return s.establishSession(ctx, env)
}

// Register creates the account and establishes a session exactly as
// Login does.
func (s *Service) Register(ctx context.Context, data models.RegisterData) models.Result[models.AuthPayload] {
	env, err := s.api.Post(ctx, pathRegister, data)
	if err != nil {
		return failureFrom[models.AuthPayload](ctx, err)
	}
	return s.establishSession(ctx, env)
}

func (s *Service) establishSession(ctx context.Context, env *models.Envelope) models.Result[models.AuthPayload] {
	l := logging.FromContext(ctx)

	if !env.Success || env.Data == nil {
		return models.Fail[models.AuthPayload](messageOr(env.Message, MsgServerError), env.Errors)
	}
	var payload models.AuthPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		l.Error("auth_payload_decode_failed", "error", err)
		return models.FailField[models.AuthPayload](MsgServerError, models.FieldGeneral, MsgServerError)
	}

	// A failed write leaves the store empty, so the next launch
	// behaves as logged out. The in-memory session for this run is
	// still valid: the server did accept the credentials.
	if err := s.store.Save(payload.User, payload.Tokens.Access, payload.Tokens.Refresh); err != nil {
		l.Error("session_persist_failed", "error", err)
	}
	return models.OK(env.Message, &payload)
}

// Logout notifies the server best-effort and always clears the local
// store, network outcome notwithstanding. With no stored refresh
// token there is nothing to revoke and no request is made.
func (s *Service) Logout(ctx context.Context) models.Result[models.None] {
	l := logging.FromContext(ctx)

	snap, ok, _ := s.store.Load()
	if ok && snap.Refresh != "" {
		if _, err := s.api.Post(ctx, pathLogout, map[string]string{"refresh": snap.Refresh}); err != nil {
			l.Warn("logout_notify_failed", "error", err)
		}
	}
	if err := s.store.Clear(); err != nil {
		l.Error("session_clear_failed", "error", err)
	}
	return models.OK[models.None]("", nil)
}

// CurrentUser prefers the locally cached user and only hits the API
// on a cache miss, repopulating the cache on success.
func (s *Service) CurrentUser(ctx context.Context) models.Result[models.User] {
	snap, ok, _ := s.store.Load()
	if ok && snap.User.ID != 0 {
		user := snap.User
		return models.OK("", &user)
	}

	env, err := s.api.Get(ctx, pathCurrentUser)
	if err != nil {
		return failureFrom[models.User](ctx, err)
	}
	if !env.Success || env.Data == nil {
		return models.Fail[models.User](messageOr(env.Message, MsgServerError), env.Errors)
	}
	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return models.FailField[models.User](MsgServerError, models.FieldGeneral, MsgServerError)
	}

	if ok {
		if err := s.store.Save(user, snap.Access, snap.Refresh); err != nil {
			logging.FromContext(ctx).Error("user_cache_update_failed", "error", err)
		}
	}
	return models.OK("", &user)
}

// RefreshAccessToken exchanges the refresh token for a new access
// token. Any failure, including having no refresh token at all, runs
// the full logout cleanup rather than leaving a half-valid session.
func (s *Service) RefreshAccessToken(ctx context.Context) models.Result[string] {
	snap, ok, _ := s.store.Load()
	if !ok || snap.Refresh == "" {
		s.Logout(ctx)
		return models.FailField[string](MsgServerError, models.FieldGeneral, "No refresh token")
	}

	env, err := s.api.Post(ctx, pathTokenRefresh, map[string]string{"refresh": snap.Refresh})
	if err != nil {
		s.Logout(ctx)
		return failureFrom[string](ctx, err)
	}
	var data struct {
		Access string `json:"access"`
	}
	if env.Data == nil || json.Unmarshal(env.Data, &data) != nil || data.Access == "" {
		s.Logout(ctx)
		return models.FailField[string](MsgServerError, models.FieldGeneral, MsgServerError)
	}

	if err := s.store.Save(snap.User, data.Access, snap.Refresh); err != nil {
		logging.FromContext(ctx).Error("session_persist_failed", "error", err)
	}
	return models.OK(env.Message, &data.Access)
}

// RequestPasswordReset asks the server to email a 6-digit code. No
// session state is touched.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) models.Result[models.None] {
	env, err := s.api.Post(ctx, pathPasswordReset, map[string]string{"email": email})
	if err != nil {
		return failureFrom[models.None](ctx, err)
	}
	if !env.Success {
		return models.Fail[models.None](messageOr(env.Message, MsgServerError), env.Errors)
	}
	return models.OK[models.None](env.Message, nil)
}

// ConfirmPasswordReset submits the code and new password. It never
// establishes a session; the user signs in with the new password.
func (s *Service) ConfirmPasswordReset(ctx context.Context, confirm models.PasswordResetConfirm) models.Result[models.None] {
	env, err := s.api.Post(ctx, pathPasswordConfirm, confirm)
	if err != nil {
		return failureFrom[models.None](ctx, err)
	}
	if !env.Success {
		return models.Fail[models.None](messageOr(env.Message, MsgServerError), env.Errors)
	}
	return models.OK[models.None](env.Message, nil)
}

// failureFrom maps a transport error to the normalized failure shape:
// field errors pass through on 400, anything else server-side gets
// the generic message, and no-response errors land in the network
// bucket.
func failureFrom[T any](ctx context.Context, err error) models.Result[T] {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		if apiErr.Status == 400 {
			return models.Fail[T](messageOr(apiErr.Message, MsgInvalidData), apiErr.Errors)
		}
		return models.FailField[T](messageOr(apiErr.Message, MsgServerError), models.FieldGeneral, messageOr(apiErr.Message, MsgServerError))
	}
	return networkFailure[T](ctx, err)
}

func networkFailure[T any](ctx context.Context, err error) models.Result[T] {
	if apiclient.IsTimeout(err) {
		logging.FromContext(ctx).Warn("request_timeout", "error", err)
	}
	return models.FailField[T](MsgNetworkError, models.FieldNetwork, MsgNetworkError)
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
