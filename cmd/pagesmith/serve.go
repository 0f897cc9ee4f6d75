package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/pagesmith/internal/config"
	"github.com/jonathan/pagesmith/internal/execx"
	"github.com/jonathan/pagesmith/internal/llm"
	"github.com/jonathan/pagesmith/internal/notify"
	"github.com/jonathan/pagesmith/internal/pipeline"
	"github.com/jonathan/pagesmith/internal/publish"
	"github.com/jonathan/pagesmith/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deployment webhook server",
	Long:  `Start an HTTP server that accepts deployment briefs, generates applications, and publishes them as GitHub Pages sites.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.EnsureWorkDir(); err != nil {
		return err
	}

	client, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, llm.DefaultModel)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	p := pipeline.New(
		llm.NewGenerator(client),
		publish.NewPublisher(execx.NewOSRunner(), cfg.GitHubUsername, cfg.GitHubToken),
		notify.NewDispatcher(notify.DefaultPolicy()),
		cfg.WorkDir,
	)

	srv := server.New(server.Config{
		Port:         servePort,
		StoredSecret: cfg.StoredSecret,
	}, p)

	return srv.Start()
}
