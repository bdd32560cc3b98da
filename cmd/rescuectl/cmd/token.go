package cmd

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rescuelink/api/internal/config"
	"github.com/rescuelink/api/internal/repository"
	"github.com/rescuelink/api/internal/service"
	"github.com/spf13/cobra"
)

// TokenCmd issues a bearer token for an existing user, for smoke tests against a deployment.
func TokenCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a registered user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(cfg *config.Config, database *sqlx.DB) error {
				userRepository := repository.NewUserRepository(database)
				authService := service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry)

				user, err := userRepository.ByEmail(cmd.Context(), strings.ToLower(strings.TrimSpace(email)))
				if err != nil {
					return fmt.Errorf("failed to find user %q: %w", email, err)
				}

				token, err := authService.GenerateJWT(user)
				if err != nil {
					return fmt.Errorf("failed to sign token: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the user to issue a token for")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
