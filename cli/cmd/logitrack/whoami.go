package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logitrack/clients/pkg/session"
)

func whoamiCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}
			a.ctrl.Initialize(ctx)
			if a.ctrl.State() != session.StateAuthenticated {
				return errNotSignedIn
			}

			if refresh {
				if res := a.ctrl.RefreshUser(ctx); !res.Success {
					return resultErr(res.Message, res.Errors)
				}
			}

			u := a.ctrl.User()
			fmt.Printf("%s <%s>\n", u.FullName(), u.Email)
			fmt.Printf("role: %s\n", u.Role)
			if u.CPF != "" {
				fmt.Printf("cpf: %s\n", u.CPF)
			}
			if u.IsDriver() && u.CNHNumero != "" {
				fmt.Printf("cnh: %s (%s, valid until %s)\n", u.CNHNumero, u.CNHCategoria, u.CNHValidade)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-fetch the profile from the API")
	return cmd
}
