// Package cli runs request files from the command line: load, dispatch,
// format. It is a thin harness over the execution engine.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/studiowebux/restengine/internal/config"
	"github.com/studiowebux/restengine/internal/executor"
	"github.com/studiowebux/restengine/internal/filter"
	"github.com/studiowebux/restengine/internal/parser"
	"github.com/studiowebux/restengine/internal/types"
	"gopkg.in/yaml.v3"
)

// RunOptions contains options for running a request file.
type RunOptions struct {
	FilePath     string
	RequestName  string // empty selects the first request
	OutputFormat string // json, yaml, text
	Filter       string // JMESPath filter expression
	Query        string // JMESPath query expression
	EnvFile      string // path to .env file
	Insecure     bool   // skip TLS verification
	ShowFull     bool   // include headers and sent-request echo in text output
}

// Run executes a request file and prints the outcome.
func Run(opts RunOptions) error {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return err
	}
	if err := config.SetupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	if opts.Insecure {
		if cfg.TLS == nil {
			cfg.TLS = &config.TLSConfig{}
		}
		cfg.TLS.InsecureSkipVerify = true
	}

	clients, err := config.BuildClients(cfg.TLS)
	if err != nil {
		return fmt.Errorf("failed to build network clients: %w", err)
	}

	requests, err := parser.Parse(opts.FilePath)
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}
	if len(requests) == 0 {
		return fmt.Errorf("no requests found in file: %s", opts.FilePath)
	}

	request, err := selectRequest(requests, opts.RequestName)
	if err != nil {
		return err
	}

	dispatcher := executor.NewDispatcher(
		executor.NewRest(clients.HTTP),
		executor.NewGraphQL(clients.HTTP),
		executor.NewGraphQLWS(clients.Dialer),
		executor.NewGraphQLSSE(clients.Stream),
		executor.NewWebSocket(clients.Dialer),
	)

	response := dispatcher.Execute(context.Background(), request)

	body := response.Body
	if !response.Streaming && (opts.Filter != "" || opts.Query != "") {
		filtered, err := filter.Apply(body, opts.Filter, opts.Query)
		if err != nil {
			return err
		}
		body = filtered
	}

	return printResponse(response, body, opts)
}

// selectRequest picks a request by name, or the first one when no name
// was given.
func selectRequest(requests []types.Request, name string) (*types.Request, error) {
	if name == "" {
		return &requests[0], nil
	}
	for i := range requests {
		if requests[i].Name == name {
			return &requests[i], nil
		}
	}
	return nil, fmt.Errorf("no request named %q in file", name)
}

// printResponse renders the response in the selected output format.
func printResponse(response *types.Response, body string, opts RunOptions) error {
	switch opts.OutputFormat {
	case "json":
		out := *response
		out.Body = body
		data, err := json.MarshalIndent(&out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		out := *response
		out.Body = body
		data, err := yaml.Marshal(&out)
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		fmt.Print(string(data))
	default:
		printText(response, body, opts.ShowFull)
	}
	return nil
}

// printText writes the human-readable form: status line, optional headers,
// then the body or transcript.
func printText(response *types.Response, body string, showFull bool) {
	fmt.Fprintf(os.Stderr, "%s (%dms, %d bytes)\n", statusLine(response), response.Duration, response.Size)

	if showFull {
		if response.Sent != nil {
			fmt.Fprintf(os.Stderr, "> %s %s\n", response.Sent.Method, response.Sent.URL)
			for key, value := range response.Sent.Headers {
				fmt.Fprintf(os.Stderr, "> %s: %s\n", key, value)
			}
		}
		for key, value := range response.Headers {
			fmt.Fprintf(os.Stderr, "< %s: %s\n", key, value)
		}
	}

	if body != "" {
		fmt.Println(body)
	}
}

func statusLine(response *types.Response) string {
	if response.Status == types.StatusTransportError {
		return fmt.Sprintf("FAILED: %s", response.StatusText)
	}
	return response.StatusText
}
