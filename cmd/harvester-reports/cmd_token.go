package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/altinukshini/harvester-reports/internal/auth"
)

var (
	tokenSubject string
	tokenEmail   string
	tokenRoles   []string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the reports service",
	Long: `Signs a token with server.jwt_secret. Downloads need the
harvester-curator role, which is the default.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := auth.NewManager(cfg.Server.JWTSecret, tokenTTL)
		if err != nil {
			return err
		}
		token, exp, err := mgr.Issue(tokenSubject, tokenEmail, tokenRoles)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "token subject, usually the user id")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email recorded in the token")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", []string{auth.CuratorRole}, "roles to grant")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
}
