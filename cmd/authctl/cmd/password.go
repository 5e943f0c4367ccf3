package cmd

import (
	"errors"
	"fmt"

	"github.com/jrsteele09/go-auth-client/actions"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/spf13/cobra"
)

func newForgotPasswordCmd(cfg config.Config, opts *rootOptions) *cobra.Command {
	var fields actions.ForgotPasswordFields
	var endpoint string

	forgotCmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cfg, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			state := c.actions.ForgotPassword(cmd.Context(), actions.MessageState{}, fields, endpoint)
			if !state.Success {
				return errors.New(state.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), state.Message)
			return nil
		},
	}

	forgotCmd.Flags().StringVarP(&fields.Email, "email", "e", "", "Account email")
	forgotCmd.Flags().StringVar(&endpoint, "endpoint", "", "Forgot password path (default "+config.DefaultForgotPasswordPath+")")
	return forgotCmd
}

func newResetPasswordCmd(cfg config.Config, opts *rootOptions) *cobra.Command {
	var fields actions.ResetPasswordFields
	var endpoint string

	resetCmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using a reset token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cfg, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			state := c.actions.ResetPassword(cmd.Context(), actions.MessageState{}, fields, endpoint)
			if !state.Success {
				return errors.New(state.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), state.Message)
			return nil
		},
	}

	resetCmd.Flags().StringVarP(&fields.Token, "token", "t", "", "Reset token")
	resetCmd.Flags().StringVarP(&fields.Password, "password", "p", "", "New password")
	resetCmd.Flags().StringVar(&fields.ConfirmPassword, "confirm-password", "", "New password confirmation")
	resetCmd.Flags().StringVar(&endpoint, "endpoint", "", "Reset password path (default "+config.DefaultResetPasswordPath+")")
	return resetCmd
}
