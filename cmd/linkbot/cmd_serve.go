package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/user/linkbot/internal/binding"
	"github.com/user/linkbot/internal/command"
	"github.com/user/linkbot/internal/delivery"
	"github.com/user/linkbot/internal/line"
	"github.com/user/linkbot/internal/webhook"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if cfg.Line.ChannelSecret == "" || cfg.Line.ChannelAccessToken == "" {
		return fmt.Errorf("missing CHANNEL_SECRET or CHANNEL_ACCESS_TOKEN")
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	store := binding.NewStore(cfg.BindingsPath())
	client, err := line.NewClient(cfg.Line.ChannelAccessToken)
	if err != nil {
		return err
	}

	srv := webhook.NewServer(store, command.New(store), delivery.New(client), webhook.Config{
		ChannelSecret:  cfg.Line.ChannelSecret,
		SkipVerify:     cfg.Line.SkipVerify,
		OperatorUserID: cfg.Push.OperatorUserID,
	})

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("linkbot started",
			"port", cfg.Port,
			"data_dir", cfg.DataDir,
			"log_level", cfg.LogLevel,
			"skip_verify", cfg.Line.SkipVerify,
		)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
