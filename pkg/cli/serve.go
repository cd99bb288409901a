package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mockingj/mockingj/pkg/cache"
	"github.com/mockingj/mockingj/pkg/config"
	"github.com/mockingj/mockingj/pkg/generator"
	"github.com/mockingj/mockingj/pkg/logging"
	"github.com/mockingj/mockingj/pkg/parser"
	"github.com/mockingj/mockingj/pkg/server"
)

var (
	serveConfigFile string
	serveSpecFile   string
	serveHost       string
	servePort       int
	serveSeed       int64
	serveLogLevel   string
	serveLogFormat  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock server for a specification",
	Example: `  # Serve an OpenAPI document with defaults
  mockingj serve --spec api.yaml

  # Serve on a custom port with a fixed seed
  mockingj serve --spec api.yaml --port 3000 --seed 42

  # Use a configuration file
  mockingj serve --spec api.yaml --config mockingj.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveSpecFile, "spec", "s", "", "Path to the OpenAPI/Swagger document (required)")
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Path to a configuration file")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen address (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides config)")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 0, "Generation seed (overrides config)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "", "Log format: text or json")
	_ = serveCmd.MarkFlagRequired("spec")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigFile)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, cfg)

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	doc, err := parser.ParseFile(serveSpecFile)
	if err != nil {
		return fmt.Errorf("failed to parse specification: %w", err)
	}
	log.Info("specification loaded",
		"title", doc.Title,
		"version", doc.Version,
		"endpoints", len(doc.Endpoints),
		"definitions", len(doc.Definitions))

	var cm *cache.Manager
	if cfg.Mock.CacheEnabled {
		cm = cache.NewManager(cache.WithTTL(cfg.Mock.CacheTTLDuration()))
	}
	gen := generator.NewMockDataGenerator(cm,
		generator.WithSeed(cfg.Mock.Seed),
		generator.WithResolver(doc),
		generator.WithConsistentResponses(cfg.Mock.ConsistentResponses),
		generator.WithLogger(logging.Component(log, "generator")),
	)

	srv := server.New(cfg, doc, gen,
		server.WithLogger(logging.Component(log, "server")))
	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Printf("mockingj serving %d endpoints on http://%s\n", len(doc.Endpoints), srv.Addr())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

// applyServeFlags overlays explicitly set flags onto the loaded config.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("seed") {
		cfg.Mock.Seed = serveSeed
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = serveLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = serveLogFormat
	}
}
