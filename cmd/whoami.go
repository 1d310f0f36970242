package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chukul/sagectl/internal"
	"github.com/chukul/sagectl/internal/ui"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Assume the configured role and show the resulting identity",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := setup(os.Stderr)
		if err != nil {
			exitWithError(err)
		}

		establish := func() (*internal.Session, error) { return a.provider.Session(cmd.Context()) }
		var sess *internal.Session
		if internal.IsTerminal(os.Stderr) {
			sess, err = ui.Spin("Assuming role...", establish)
		} else {
			sess, err = establish()
		}
		if err != nil {
			exitWithError(err)
		}

		label := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("%s %s\n", label("Account:     "), sess.Account)
		fmt.Printf("%s %s\n", label("Role ARN:    "), sess.RoleArn)
		fmt.Printf("%s %s\n", label("Session Name:"), sess.SessionName)
		fmt.Printf("%s %s\n", label("Region:      "), sess.Region)
		fmt.Printf("%s %s (%s)\n", label("Expires:     "), internal.FormatIn(sess.Expiration, nil), remaining(sess.Expiration, time.Now()))
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func remaining(exp, now time.Time) string {
	if exp.IsZero() {
		return "no expiry"
	}
	if !exp.After(now) {
		return "Expired"
	}
	diff := exp.Sub(now)
	h := int(diff.Hours())
	m := int(diff.Minutes()) % 60
	return fmt.Sprintf("%dh%dm left", h, m)
}
