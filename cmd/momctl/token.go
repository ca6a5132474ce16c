package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/mom-generator/pkg/config"
	"github.com/johnquangdev/mom-generator/pkg/jwt"
)

func tokenCmd() *cobra.Command {
	var (
		userID string
		name   string
		role   string
		expiry time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token signed with JWT_ACCESS_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if expiry <= 0 {
				expiry = cfg.JWT.AccessExpiry
			}

			token, err := jwt.NewManager(cfg.JWT.AccessSecret, expiry).GenerateAccessToken(userID, name, role)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&name, "name", "", "display name recorded in audit entries")
	cmd.Flags().StringVar(&role, "role", "member", "role (admin, member)")
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "token lifetime (defaults to JWT_ACCESS_EXPIRY)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
