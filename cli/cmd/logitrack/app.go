package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/logitrack/clients/cli/internal/config"
	"github.com/logitrack/clients/cli/internal/filestore"
	"github.com/logitrack/clients/pkg/apiclient"
	"github.com/logitrack/clients/pkg/authsvc"
	"github.com/logitrack/clients/pkg/logging"
	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/otclient"
	"github.com/logitrack/clients/pkg/session"
)

var (
	errNotSignedIn     = errors.New("not signed in. Run `logitrack login` first")
	errAlreadySignedIn = errors.New("already signed in. Run `logitrack logout` first")
)

// consoleNavigator is the terminal rendition of the post-transition
// redirect: instead of switching screens it tells the user where they
// landed.
type consoleNavigator struct{}

func (consoleNavigator) ToDashboard() {
	fmt.Println("Signed in. Try `logitrack ots list`.")
}

func (consoleNavigator) ToLogin() {
	fmt.Println("Signed out. Use `logitrack login` to sign in again.")
}

type app struct {
	store *filestore.Store
	svc   *authsvc.Service
	ctrl  *session.Controller
	ots   *otclient.Client
}

func newApp() (*app, context.Context, error) {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	st, err := filestore.Open(cfg.StatePath())
	if err != nil {
		return nil, nil, err
	}

	api := apiclient.New(cfg.APIBaseURL, st)
	svc := authsvc.New(api, st)
	return &app{
		store: st,
		svc:   svc,
		ctrl:  session.NewController(svc, st, consoleNavigator{}),
		ots:   otclient.New(api),
	}, ctx, nil
}

// requireAuth is the command-level route guard: presence check only,
// the first API call decides whether the token still works.
func (a *app) requireAuth() error {
	if !a.store.HasToken() {
		return errNotSignedIn
	}
	return nil
}

func (a *app) requireAnon() error {
	if a.store.HasToken() {
		return errAlreadySignedIn
	}
	return nil
}

// resultErr folds a failed Result into a single CLI error, printing
// field-level detail first.
func resultErr(message string, errs models.FieldErrors) error {
	for field, msgs := range errs {
		for _, m := range msgs {
			if field == models.FieldGeneral || field == models.FieldNetwork || field == models.FieldCredentials {
				continue
			}
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, m)
		}
	}
	if general := errs.General(); len(general) > 0 {
		return errors.New(general[0])
	}
	if message == "" {
		message = "operation failed"
	}
	return errors.New(message)
}
