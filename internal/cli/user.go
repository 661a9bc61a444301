package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/podtracker/internal/api/request"
	"github.com/mcoot/podtracker/internal/api/response"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Account commands",
	}

	cmd.AddCommand(newUserRegisterCmd())
	cmd.AddCommand(newUserMeCmd())
	cmd.AddCommand(newUserUpdateCmd())
	cmd.AddCommand(newUserDeleteCmd())

	return cmd
}

func newUserRegisterCmd() *cobra.Command {
	var email, username, password string
	var login bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.RegisterRequest{Email: email, Username: username, Password: password}
			var user response.User
			if err := client.Post(cmd.Context(), "/api/v1/users", req, &user); err != nil {
				return err
			}

			if !login {
				output(cmd).Print(user)
				return nil
			}

			auth, err := loginAndSave(cmd, email, password)
			if err != nil {
				return err
			}
			output(cmd).Print(auth)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	cmd.Flags().BoolVar(&login, "login", false, "Log in and save the token after registering")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var user response.User
			if err := client.Get(cmd.Context(), "/api/v1/users/me", &user); err != nil {
				return err
			}
			output(cmd).Print(user)
			return nil
		},
	}
}

func newUserUpdateCmd() *cobra.Command {
	var displayName, bio, avatarURL string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields (only the flags given are sent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			changedString(cmd, body, "display-name", "displayName", displayName)
			changedString(cmd, body, "bio", "bio", bio)
			changedString(cmd, body, "avatar-url", "avatarUrl", avatarURL)
			if len(body) == 0 {
				return fmt.Errorf("nothing to update: pass --display-name, --bio or --avatar-url")
			}

			var user response.User
			if err := client.Patch(cmd.Context(), "/api/v1/users/me", body, &user); err != nil {
				return err
			}
			output(cmd).Print(user)
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name")
	cmd.Flags().StringVar(&bio, "bio", "", "Short bio")
	cmd.Flags().StringVar(&avatarURL, "avatar-url", "", "Avatar image URL")

	return cmd
}

func newUserDeleteCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to delete account without --yes")
			}
			if err := client.Delete(cmd.Context(), "/api/v1/users/me"); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			output(cmd).PrintMessage("Account deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm deletion")

	return cmd
}
