package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := newApp()
			if err != nil {
				return err
			}
			a.ctrl.Initialize(ctx)

			if !a.store.HasToken() {
				fmt.Println("Not signed in.")
				return nil
			}

			if !yes {
				ok, err := confirm("Sign out?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			a.ctrl.Logout(ctx)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
