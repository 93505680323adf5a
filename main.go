package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"legal-chat/internal/backend"
	"legal-chat/internal/chat"
	"legal-chat/internal/config"
	"legal-chat/internal/docstore"
	"legal-chat/internal/logging"
)

type options struct {
	configPath string
	baseURL    string
	logLevel   string
	docs       []string
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "legal-chat",
		Short: "Terminal chat for the Vietnamese legal QA backend",
		Long: `legal-chat asks questions about Vietnamese law against a hybrid
retrieval backend. Each question is one POST to the backend's chat endpoint;
answers are shown with the legal documents they cite.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	rootCmd.Flags().StringVar(&opts.configPath, "config", "", "path to config.yaml (default ~/.legal-chat/config.yaml)")
	rootCmd.Flags().StringVar(&opts.baseURL, "base-url", "", "backend base address, overrides backend.base_url")
	rootCmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringArrayVar(&opts.docs, "doc", nil, "register a document in the catalog (repeatable)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.baseURL != "" {
		cfg.Backend.BaseURL = opts.baseURL
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if err := logging.InitLogger(cfg.Logging.Dir, cfg.Logging.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Close()

	if err := cfg.DefaultsWriteError(); err != nil {
		logging.Error("%v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := docstore.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open document catalog: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, path := range opts.docs {
		if _, err := docstore.Register(ctx, store, path); err != nil {
			return err
		}
	}

	client := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithChatPath(cfg.Backend.ChatPath),
		backend.WithTimeout(cfg.Backend.Timeout),
	)
	logging.Info("Using backend endpoint %s", client.Endpoint())

	dispatcher := chat.NewDispatcher(client)

	p := tea.NewProgram(newApp(cfg, dispatcher, store, 80, 24), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
