package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"unithub/internal/config"
	"unithub/internal/middleware"
)

// tokenCmd 本地联调用：为指定 owner 签发 API token
func tokenCmd(configPath *string) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token [owner-id]",
		Short: "Issue a bearer token for an owner (development)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not set")
			}
			token, err := middleware.SignToken(cfg.Auth.JWTSecret, args[0], ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
