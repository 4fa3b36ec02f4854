package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alvinbaena/cybershield/internal/auth"
	"github.com/spf13/cobra"
)

var (
	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for a user, for development and testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := tokenCommand()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
)

func init() {
	tokenCmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional file with environment variables, used to read JWT_SECRET")
	tokenCmd.Flags().Int64Var(&userID, "user-id", 1, "The user the token is issued for")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "How long the token is valid")
	tokenCmd.Flags().StringVar(&jwtSecret, "secret", "", "Signing secret. Defaults to JWT_SECRET")

	rootCmd.AddCommand(tokenCmd)
}

func tokenCommand() (string, error) {
	if err := loadEnvFile(envFile); err != nil {
		return "", err
	}

	secret := jwtSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return "", errors.New("no signing secret, set JWT_SECRET or use --secret")
	}
	if userID <= 0 {
		return "", errors.New("user id must be positive")
	}

	return auth.NewJWT(secret, tokenClockSkew).Sign(userID, tokenTTL)
}
