package cmd

import (
	"errors"
	"fmt"

	"github.com/jrsteele09/go-auth-client/actions"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/spf13/cobra"
)

func newLoginCmd(cfg config.Config, opts *rootOptions) *cobra.Command {
	var fields actions.LoginFields
	var endpoint string

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the refresh token locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cfg, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			state := c.actions.Login(cmd.Context(), actions.LoginState{}, fields, endpoint)
			if !state.Success {
				return errors.New(state.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", state.User.Email, state.User.ID)
			return nil
		},
	}

	loginCmd.Flags().StringVarP(&fields.Email, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&fields.Password, "password", "p", "", "Account password")
	loginCmd.Flags().StringVar(&endpoint, "endpoint", "", "Login path (default "+config.DefaultLoginPath+")")
	return loginCmd
}

func newSignupCmd(cfg config.Config, opts *rootOptions) *cobra.Command {
	var fields actions.SignupFields
	var endpoint string

	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cfg, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			if fields.ConfirmPassword == "" {
				fields.ConfirmPassword = fields.Password
			}
			state := c.actions.Signup(cmd.Context(), actions.SignupState{}, fields, endpoint)
			if !state.Success {
				return errors.New(state.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s (%s)\n", state.User.Email, state.User.ID)
			return nil
		},
	}

	signupCmd.Flags().StringVarP(&fields.Email, "email", "e", "", "Account email")
	signupCmd.Flags().StringVarP(&fields.Username, "username", "u", "", "Username")
	signupCmd.Flags().StringVarP(&fields.Password, "password", "p", "", "Password")
	signupCmd.Flags().StringVar(&fields.ConfirmPassword, "confirm-password", "", "Password confirmation (defaults to --password)")
	signupCmd.Flags().StringVar(&fields.FirstName, "first-name", "", "First name")
	signupCmd.Flags().StringVar(&fields.LastName, "last-name", "", "Last name")
	signupCmd.Flags().StringVar(&endpoint, "endpoint", "", "Signup path (default "+config.DefaultSignupPath+")")
	return signupCmd
}
