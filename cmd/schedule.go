package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/ankicode/internal/scheduler"
)

var scheduleDryRun bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the digest every day at DIGEST_AT until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := current.digestRunner(scheduleDryRun)
		if err != nil {
			return err
		}
		s, err := scheduler.New(runner, current.cfg.Location, current.cfg.DigestAt, current.log)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := s.Start(ctx); err != nil {
			return err
		}
		defer s.Stop()

		fmt.Fprintf(cmd.OutOrStdout(), "⏳ Digest scheduled daily at %s %s, next run %s\n",
			current.cfg.DigestAt, current.cfg.Location, s.NextRun().In(current.cfg.Location).Format(dateTimeFormat))

		<-ctx.Done()
		current.log.Info("shutting down scheduler")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().BoolVar(&scheduleDryRun, "dry-run", false, "Log digests instead of sending them")
}
