// Command legalctl signs in and lists or creates practice records, either
// directly against the database or through a running API server.
package main

import (
	"context"       // Cancellation and deadlines
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Message formatting
	"os"            // Environment and files
	"time"          // Timestamps

	"legal_practice/internal/app"     // Process wiring
	"legal_practice/internal/backend" // Direct and remote backends
	"legal_practice/internal/config"  // Settings

	"github.com/sirupsen/logrus" // Structured logging
	"github.com/spf13/cobra"     // CLI commands
)

var (
	backendFlag string
	tokenFlag   string

	client  backend.Backend
	opened  *app.App
	timeout = 30 * time.Second
)

var rootCmd = &cobra.Command{
	Use:           "legalctl",
	Short:         "Work with cases, clients, documents and tasks",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if backendFlag == "" {
			backendFlag = cfg.DataBackend
		}
		kind, err := backend.ParseKind(backendFlag)
		if err != nil {
			return err
		}
		if kind == backend.KindRemote {
			client = backend.NewRemote(cfg.APIURL, nil)
			return nil
		}

		log := app.NewLogger(cfg)
		log.SetOutput(os.Stderr) // Keep stdout for command output
		if cfg.LogLevel == "info" {
			log.SetLevel(logrus.WarnLevel)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		opened, err = app.Open(ctx, cfg, log)
		if err != nil {
			return err
		}
		repos := backend.Repositories{
			Cases:     opened.Cases,
			Clients:   opened.Clients,
			Documents: opened.Documents,
			Tasks:     opened.Tasks,
		}
		client = backend.NewDirect(opened.Auth, repos, opened.Cache, opened.Audit, log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if opened != nil {
			opened.Close(context.Background())
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "direct or remote (default from DATA_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", os.Getenv("LEGALCTL_TOKEN"), "session token (default from LEGALCTL_TOKEN)")
}

// printJSON writes v to stdout as indented JSON
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// requireToken fails commands that act on behalf of an account
func requireToken() error {
	if tokenFlag == "" {
		return fmt.Errorf("a session token is required, pass --token or set LEGALCTL_TOKEN")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
