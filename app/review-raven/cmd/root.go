package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "review-raven",
	Short: "AI pull request reviewer for CI workflows",
	Long: `Review Raven reviews pull requests with a generative AI model. It collects
the PR diff, labels, check runs, and comment history from GitHub, asks the
model for a review, and prints a single JSON result object for the calling
workflow to post as a comment.`,
}

var versionInfo struct {
	version   string
	gitCommit string
	buildTime string
}

func SetVersionInfo(version, gitCommit, buildTime string) {
	versionInfo.version = version
	versionInfo.gitCommit = gitCommit
	versionInfo.buildTime = buildTime
}

func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("review-raven %s (commit %s, built %s)\n",
			versionInfo.version, versionInfo.gitCommit, versionInfo.buildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
