package main

import (
	"github.com/spf13/cobra"

	"github.com/logitrack/clients/pkg/models"
)

func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAnon(); err != nil {
				return err
			}
			a.ctrl.Initialize(ctx)

			if email == "" {
				if email, err = promptLine("Email"); err != nil {
					return err
				}
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}

			res := a.ctrl.Login(ctx, models.LoginCredentials{Email: email, Password: password})
			if !res.Success {
				return resultErr(res.Message, res.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (prompted when omitted)")
	return cmd
}
