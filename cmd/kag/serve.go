package kag

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundprediction/go-kag/pkg/server"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server exposing the processing and question answering
API: POST /process, POST /ask, POST /ask/compare, GET /stats,
DELETE /graph and GET /healthcheck.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "override server.host")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override server.port")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	system, err := buildSystem(cfg, log)
	if err != nil {
		return err
	}
	defer system.Close(context.Background())

	srv := server.New(cfg.Server, system, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
