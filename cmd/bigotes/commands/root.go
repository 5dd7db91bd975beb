package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bigotes",
	Short: "bigotes - scheduled pet-news content pipeline",
	Long: `bigotes discovers freshly published articles on the configured source
site, turns each into an original long-form article through a text-generation
model, publishes it to WordPress and later attaches a lead image to every
published post.

All configuration comes from the environment (or a .env file); see the
project README for the full list of variables.`,
}

// Execute runs the CLI. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
