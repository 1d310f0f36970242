package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/chukul/sagectl/internal"
)

var (
	configPath      string
	flagRegion      string
	flagRoleName    string
	flagAccessKeyID string
	flagSecretKey   string
	flagTTL         time.Duration
	logLevel        string
)

func printLogo() {
	// Gradient colors (Teal -> Blue -> Purple)
	banner := "  ▌ sagectl ▐  live SageMaker endpoints through an assumed role"

	fmt.Println()
	runes := []rune(banner)
	for i, char := range runes {
		ratio := float64(i) / float64(len(runes))

		var r, g, b int
		if ratio < 0.5 {
			subRatio := ratio * 2
			r = int(0*(1-subRatio) + 0*subRatio)
			g = int(200*(1-subRatio) + 176*subRatio)
			b = int(180*(1-subRatio) + 255*subRatio)
		} else {
			subRatio := (ratio - 0.5) * 2
			r = int(0*(1-subRatio) + 170*subRatio)
			g = int(176*(1-subRatio) + 0*subRatio)
			b = 255
		}

		fmt.Printf("\x1b[38;2;%d;%d;%dm%c\x1b[0m", r, g, b, char)
	}
	fmt.Println()
	fmt.Println()
}

var rootCmd = &cobra.Command{
	Use:   "sagectl",
	Short: "sagectl shows deployed SageMaker endpoints using an assumed IAM role",
	Long: `sagectl assumes an IAM role with your base AWS credentials, lists the SageMaker
endpoints deployed in that account and keeps the table cached for a TTL window.

Credentials come from AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_ROLE_NAME, an optional YAML config file, or the flags below.`,
}

func init() {
	// Set here rather than in the literal to keep rootCmd out of an init cycle.
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		// Interactive terminals get the live dashboard, pipes get a plain table.
		if internal.IsTerminal(os.Stdout) {
			watchCmd.Run(cmd, args)
			return
		}
		listCmd.Run(cmd, args)
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", os.Getenv(internal.EnvConfigFile), "YAML config file (or set SAGECTL_CONFIG)")
	pf.StringVar(&flagRegion, "region", "", "AWS region (overrides AWS_REGION)")
	pf.StringVar(&flagRoleName, "role-name", "", "IAM role name to assume (overrides AWS_ROLE_NAME)")
	pf.StringVar(&flagAccessKeyID, "access-key-id", "", "Base access key id (overrides AWS_ACCESS_KEY_ID)")
	pf.StringVar(&flagSecretKey, "secret-access-key", "", "Base secret access key (overrides AWS_SECRET_ACCESS_KEY)")
	pf.DurationVar(&flagTTL, "ttl", 0, "How long a fetched listing stays cached (default 1h)")
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// Execute runs the CLI
func Execute() {
	if len(os.Args) > 1 && os.Args[1] == "help" {
		printLogo()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
