package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/ankicode/internal/apperr"
)

var (
	envFile string
	userID  int64

	// current is the app opened for the running command
	current *app
)

var rootCmd = &cobra.Command{
	Use:   "ankicode",
	Short: "A spaced repetition tracker for LeetCode practice",
	Long: `AnkiCode schedules LeetCode problem reviews on a forgetting curve.

Log every practice session with how hard it felt, and ankicode tells you
what is due each day and can send a daily digest by email or Telegram.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(envFile)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file")
	rootCmd.PersistentFlags().Int64VarP(&userID, "user", "U", 0, "ID of the user to act as")
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if current != nil {
		if err != nil {
			current.log.Debug("command failed", "error", err)
		}
		current.Close()
		current = nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", errorMessage(err))
		return 1
	}
	return 0
}

// errorMessage shows classified errors by their public message and
// everything else (flag and argument errors included) as is
func errorMessage(err error) string {
	if apperr.KindOf(err) == apperr.KindInternal {
		return err.Error()
	}
	return apperr.Message(err)
}

func requireUser() (int64, error) {
	if userID <= 0 {
		return 0, apperr.Validation("--user is required")
	}
	return userID, nil
}
