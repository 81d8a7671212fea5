package main

import (
	"fmt"

	"github.com/jonathan/profile-extractor/internal/config"
	"github.com/jonathan/profile-extractor/internal/server"
	"github.com/spf13/cobra"
)

var tokenClient string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for an API client",
	Long:  "Sign a JWT for the named client with JWT_SECRET. The token expires after JWT_EXPIRATION_HOURS.",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenClient, "client", "c", "", "Client name recorded as the token subject (required)")
	_ = tokenCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(tokenClient)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
