package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/studiowebux/restengine/internal/cli"
	"github.com/studiowebux/restengine/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "restengine [file]",
	Short: "Multi-protocol API request execution engine",
	Long: `restengine executes fully-resolved API requests over REST, GraphQL
(queries, mutations, and subscriptions via WebSocket or SSE) and generic
WebSocket, and prints a uniform response or streaming transcript.

Request files are YAML, JSON or JSONC documents holding one request or an
array of requests.

Examples:
  restengine request.yaml                 # Execute first request
  restengine run api.yaml -n get-user     # Execute request by name
  restengine run api.yaml -o json         # JSON output
  restengine run api.yaml -f 'items[?ok]' # JMESPath filter on the body`,
	Version: version.Version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runFile(cmd, args[0])
	},
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a request file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFile(cmd, args[0])
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check whether a newer release is available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		available, latest, url, err := version.CheckForUpdate()
		if err != nil {
			return err
		}
		if available {
			fmt.Printf("A newer version is available: %s (current %s)\n%s\n", latest, version.Version, url)
		} else {
			fmt.Printf("restengine %s is up to date\n", version.Version)
		}
		return nil
	},
}

func runFile(cmd *cobra.Command, filePath string) error {
	name, _ := cmd.Flags().GetString("name")
	output, _ := cmd.Flags().GetString("output")
	filterExpr, _ := cmd.Flags().GetString("filter")
	query, _ := cmd.Flags().GetString("query")
	envFile, _ := cmd.Flags().GetString("env-file")
	insecure, _ := cmd.Flags().GetBool("insecure")
	full, _ := cmd.Flags().GetBool("full")

	return cli.Run(cli.RunOptions{
		FilePath:     filePath,
		RequestName:  name,
		OutputFormat: output,
		Filter:       filterExpr,
		Query:        query,
		EnvFile:      envFile,
		Insecure:     insecure,
		ShowFull:     full,
	})
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringP("name", "n", "", "Request name to execute (default: first in file)")
		c.Flags().StringP("output", "o", "text", "Output format: text, json, yaml")
		c.Flags().StringP("filter", "f", "", "JMESPath filter applied to the response body")
		c.Flags().StringP("query", "q", "", "JMESPath query applied to the response body")
		c.Flags().String("env-file", "", "Path to a .env file with engine settings")
		c.Flags().Bool("insecure", false, "Skip TLS certificate verification")
		c.Flags().Bool("full", false, "Show request echo and response headers")
	}
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(updateCmd)
}
