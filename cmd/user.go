package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/ankicode/internal/tracker"
)

var (
	userName string

	settingsNotify       bool
	settingsSkipWeekends bool
	settingsEmail        string
	settingsTelegramChat int64
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users and their settings",
}

var userAddCmd = &cobra.Command{
	Use:   "add [email]",
	Short: "Register a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := current.svc.CreateUser(cmd.Context(), userName, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created user %d (%s)\n", u.ID, u.Email)
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the user's settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}
		u, err := current.svc.GetUser(cmd.Context(), id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User %d: %s <%s>\n", u.ID, u.Name, u.Email)
		fmt.Fprintf(out, "  Digest email:   %s\n", u.DigestEmail())
		fmt.Fprintf(out, "  Telegram chat:  %d\n", u.TelegramChatID)
		fmt.Fprintf(out, "  Notifications:  %t\n", u.NotifyOptIn)
		fmt.Fprintf(out, "  Skip weekends:  %t\n", u.SkipWeekends)
		return nil
	},
}

var userSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Change notification and scheduling preferences",
	Long: `Change notification and scheduling preferences. Only the flags given
are changed.

Examples:
  ankicode user settings -U 1 --skip-weekends
  ankicode user settings -U 1 --notify=false
  ankicode user settings -U 1 --email alerts@example.org --telegram-chat 123456`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}

		var in tracker.Settings
		flags := cmd.Flags()
		if flags.Changed("name") {
			in.Name = &userName
		}
		if flags.Changed("notify") {
			in.NotifyOptIn = &settingsNotify
		}
		if flags.Changed("skip-weekends") {
			in.SkipWeekends = &settingsSkipWeekends
		}
		if flags.Changed("email") {
			in.NotificationEmail = &settingsEmail
		}
		if flags.Changed("telegram-chat") {
			in.TelegramChatID = &settingsTelegramChat
		}

		u, err := current.svc.UpdateSettings(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🔄 Updated settings for user %d (notifications: %t, skip weekends: %t)\n",
			u.ID, u.NotifyOptIn, u.SkipWeekends)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd, userShowCmd, userSettingsCmd)

	userAddCmd.Flags().StringVarP(&userName, "name", "n", "", "Display name")

	userSettingsCmd.Flags().StringVarP(&userName, "name", "n", "", "Display name")
	userSettingsCmd.Flags().BoolVar(&settingsNotify, "notify", true, "Receive the daily digest")
	userSettingsCmd.Flags().BoolVar(&settingsSkipWeekends, "skip-weekends", false, "Move reviews off Saturday and Sunday")
	userSettingsCmd.Flags().StringVar(&settingsEmail, "email", "", "Address digests go to (empty uses the login email)")
	userSettingsCmd.Flags().Int64Var(&settingsTelegramChat, "telegram-chat", 0, "Telegram chat ID for digests (0 disables)")
}
