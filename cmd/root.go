package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the garmin-mcp application
var rootCmd = &cobra.Command{
	Use:   "garmin-mcp",
	Short: "MCP server for Garmin Connect fitness data",
	Long: `garmin-mcp exposes a Garmin Connect account's fitness data
(activities, sleep, heart rate, workouts, gear and more) as MCP
(Model Context Protocol) tools for AI assistants.

It can run as:
  - A stdio MCP server for local assistants (default)
  - A streamable HTTP MCP server fronted by a built-in OAuth 2.1
    authorization server with GitHub-delegated identity`,
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
	rootCmd.SetVersionTemplate(`{{printf "garmin-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
