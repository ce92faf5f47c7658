package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logitrack/clients/pkg/session"
)

func resetPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a forgotten password with an emailed code",
		Long: `reset-password walks through the two-step reset: the server emails a
6-digit code to the address you give, then the code plus a new password
completes the reset. It works whether or not you are signed in and
never signs you in by itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := newApp()
			if err != nil {
				return err
			}

			flow := session.NewResetFlow(a.svc)

			if email == "" {
				if email, err = promptLine("Email"); err != nil {
					return err
				}
			}
			if res := flow.SubmitEmail(ctx, email); !res.Success {
				return resultErr(res.Message, res.Errors)
			}
			fmt.Printf("A 6-digit code was sent to %s.\n", flow.Email())

			code, err := promptLine("Code")
			if err != nil {
				return err
			}
			newPassword, err := promptPassword("New password")
			if err != nil {
				return err
			}
			confirmPassword, err := promptPassword("Confirm new password")
			if err != nil {
				return err
			}

			if res := flow.SubmitCode(ctx, code, newPassword, confirmPassword); !res.Success {
				return resultErr(res.Message, res.Errors)
			}
			fmt.Println("Password changed. Use `logitrack login` to sign in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (prompted when omitted)")
	return cmd
}
