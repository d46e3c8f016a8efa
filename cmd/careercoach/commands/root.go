// Package commands defines the careercoach CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careercoach",
	Short: "careercoach - AI career-coaching gateway",
	Long: `careercoach runs the AI gateway for the career-coaching UI: it routes
chat, resume and roadmap requests to the local RAG backend, falls back to
cloud inference when the backend is unavailable, and exposes the result
over a single HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}
