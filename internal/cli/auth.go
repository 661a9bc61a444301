package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/podtracker/internal/api/request"
	"github.com/mcoot/podtracker/internal/api/response"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Session commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := loginAndSave(cmd, email, password)
			if err != nil {
				return err
			}
			output(cmd).Print(auth)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current token and forget it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), "/api/v1/auth/logout", nil, nil); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			output(cmd).PrintMessage("Logged out")
			return nil
		},
	}
}

func loginAndSave(cmd *cobra.Command, email, password string) (response.AuthResponse, error) {
	var auth response.AuthResponse
	req := request.LoginRequest{Email: email, Password: password}
	if err := client.Post(cmd.Context(), "/api/v1/auth/login", req, &auth); err != nil {
		return auth, err
	}
	if err := cfg.SaveToken(auth.Token); err != nil {
		return auth, fmt.Errorf("failed to save token: %w", err)
	}
	client.SetToken(auth.Token)
	return auth, nil
}
