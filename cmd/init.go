package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate shell integration code",
	Long:  `Generate the environment exports and aliases sagectl reads. Add the output to your shell config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		shell := detectShell(os.Getenv("SHELL"))

		fmt.Printf("# sagectl shell integration for %s\n", shell)
		fmt.Println("# Add this to your shell config file:")
		fmt.Println("# - Bash: ~/.bashrc or ~/.bash_profile")
		fmt.Println("# - Zsh: ~/.zshrc")
		fmt.Println("# - Fish: ~/.config/fish/config.fish")
		fmt.Println()

		writeIntegration(os.Stdout, shell)
	},
}

func detectShell(shell string) string {
	if shell == "" {
		if runtime.GOOS == "windows" {
			return "powershell"
		}
		return "bash"
	}
	return filepath.Base(shell)
}

func writeIntegration(w io.Writer, shell string) {
	if shell == "fish" {
		fmt.Fprintln(w, `# Base credentials and the role sagectl assumes
set -gx AWS_REGION "us-east-1"
set -gx AWS_ACCESS_KEY_ID "AKIA..."
set -gx AWS_ROLE_NAME "SageMakerReadOnly"
# Leave AWS_SECRET_ACCESS_KEY unset to read it from the Keychain (sagectl secret import)

# Aliases for common commands
alias smw='sagectl watch'
alias sml='sagectl list'
alias smd='sagectl describe'`)
		return
	}

	fmt.Fprintln(w, `# Base credentials and the role sagectl assumes
export AWS_REGION="us-east-1"
export AWS_ACCESS_KEY_ID="AKIA..."
export AWS_ROLE_NAME="SageMakerReadOnly"
# Leave AWS_SECRET_ACCESS_KEY unset to read it from the Keychain (sagectl secret import)

# Aliases for common commands
alias smw='sagectl watch'
alias sml='sagectl list'
alias smd='sagectl describe'`)
}

func init() {
	rootCmd.AddCommand(initCmd)
}
