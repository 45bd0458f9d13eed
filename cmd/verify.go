package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "promote-social.com/promote-social/internal/configs"
	repository "promote-social.com/promote-social/internal/repositories"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <verification-id>",
	Short: "Mark a platform verification as verified",
	Long:  "Runs the platform verifier for a pending verification request, as an operator would after checking the account bio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		database, err := config.NewDatabaseClient(cfg.DatabaseDSN)
		if err != nil {
			return err
		}

		svc := newServices(repository.New(database), cfg, logger, nil)
		v, err := svc.verifications.Verify(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		logger.Info("verification complete",
			zap.String("verification_id", v.ID),
			zap.String("user_id", v.UserID),
			zap.String("platform", string(v.Platform)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
