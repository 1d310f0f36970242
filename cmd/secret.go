package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chukul/sagectl/internal"
	"github.com/chukul/sagectl/internal/ui"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the base secret access key in the macOS Keychain",
	Long: `Manage the base AWS secret access key kept in your macOS Keychain.

When neither --secret-access-key nor AWS_SECRET_ACCESS_KEY is set, sagectl
reads the key from the Keychain.`,
}

var secretShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the secret access key stored in the Keychain",
	Run: func(cmd *cobra.Command, args []string) {
		if !internal.IsMacOS() {
			fmt.Println("❌ Keychain integration is only available on macOS")
			return
		}

		// The OS prompts for authentication when the item is read.
		secret, err := internal.GetKeychainSecret()
		if err != nil {
			fmt.Println("❌ No secret found in Keychain or it couldn't be accessed.")
			return
		}

		fmt.Println("🔐 Stored AWS secret access key:")
		fmt.Println(strings.Repeat("─", 64))
		fmt.Println(secret)
		fmt.Println(strings.Repeat("─", 64))
	},
}

var secretImportCmd = &cobra.Command{
	Use:   "import [key]",
	Short: "Store a secret access key in the Keychain",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !internal.IsMacOS() {
			fmt.Println("❌ Keychain integration is only available on macOS")
			return
		}

		var key string
		if len(args) > 0 {
			key = args[0]
		} else {
			var err error
			key, err = ui.GetInput("Enter AWS Secret Access Key", "", true)
			if err != nil {
				return
			}
		}

		if key == "" {
			fmt.Println("❌ Secret key cannot be empty")
			return
		}

		if err := internal.StoreKeychainSecret(key); err != nil {
			fmt.Printf("❌ Failed to store secret: %v\n", err)
			return
		}

		fmt.Println("✅ Secret access key stored in Keychain")
	},
}

func init() {
	secretCmd.AddCommand(secretShowCmd)
	secretCmd.AddCommand(secretImportCmd)
	rootCmd.AddCommand(secretCmd)
}
