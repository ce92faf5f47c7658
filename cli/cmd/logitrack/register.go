package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/logitrack/clients/pkg/models"
)

func registerCmd() *cobra.Command {
	data := models.RegisterData{Role: models.RoleDriver}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAnon(); err != nil {
				return err
			}
			a.ctrl.Initialize(ctx)

			if data.Role == models.RoleDriver && data.CNHNumero == "" {
				return errors.New("drivers must provide --cnh-numero, --cnh-categoria and --cnh-validade")
			}

			if data.Password, err = promptPassword("Password"); err != nil {
				return err
			}
			if data.PasswordConfirm, err = promptPassword("Confirm password"); err != nil {
				return err
			}
			if data.Password != data.PasswordConfirm {
				return errors.New("passwords do not match")
			}

			res := a.ctrl.Register(ctx, data)
			if !res.Success {
				return resultErr(res.Message, res.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&data.Email, "email", "", "email address")
	cmd.Flags().StringVar(&data.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&data.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&data.CPF, "cpf", "", "CPF document number")
	cmd.Flags().StringVar(&data.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&data.Role, "role", models.RoleDriver, "account role (driver or logistics)")
	cmd.Flags().StringVar(&data.CNHNumero, "cnh-numero", "", "driver license number (drivers only)")
	cmd.Flags().StringVar(&data.CNHCategoria, "cnh-categoria", "", "driver license category (drivers only)")
	cmd.Flags().StringVar(&data.CNHValidade, "cnh-validade", "", "driver license expiry, YYYY-MM-DD (drivers only)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("cpf")
	return cmd
}
