package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"promote-social.com/promote-social/internal/extension"
)

var (
	tokenTaskID  string
	tokenUserID  string
	tokenSiteURL string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Request a completion token from a running companion",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		conn, err := extension.Dial(cmd.Context(), fmt.Sprintf("ws://%s/ws", cfg.CompanionAddr))
		if err != nil {
			return err
		}

		bridge := extension.NewBridge(conn, tokenSiteURL, logger)
		defer bridge.Close()

		version, ok := bridge.CheckInstalled(cmd.Context())
		if !ok {
			return fmt.Errorf("no extension answered at %s", cfg.CompanionAddr)
		}

		resp, err := bridge.RequestToken(cmd.Context(), tokenTaskID, tokenUserID)
		if err != nil {
			return err
		}

		out := struct {
			Version string `json:"version"`
			extension.TokenResponse
		}{version, resp}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenTaskID, "task", "", "task id")
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id")
	tokenCmd.Flags().StringVar(&tokenSiteURL, "site", "https://promote.social", "site origin sent with the request")
	_ = tokenCmd.MarkFlagRequired("task")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(tokenCmd)
}
