package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the contactstore application
var rootCmd = &cobra.Command{
	Use:   "contactstore",
	Short: "MCP server for managing Google Contacts through the Tool Store",
	Long: `contactstore exposes Google Contacts management as MCP (Model Context
Protocol) tools for AI assistants: searching, creating, updating and
deleting contacts, birthday lookups, and bulk CSV/vCard export and import
backed by Tool Store storage.

OAuth credentials and file storage are provided by the Tool Store host,
which injects the user session via TOOLSTORE_* environment variables.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "contactstore version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
