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

	"github.com/todovault/todovault"
	"github.com/todovault/todovault/attachment"
	"github.com/todovault/todovault/database"
	todohttp "github.com/todovault/todovault/http"
	"github.com/todovault/todovault/trust"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the todovault HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := configFromContext(ctx)
	if err != nil {
		return err
	}

	trustedKey, err := trust.Load(cfg.Auth.Cert)
	if err != nil {
		return fmt.Errorf("load trusted certificate: %w", err)
	}

	verifier, err := todovault.NewTokenVerifier(trustedKey, time.Duration(cfg.Auth.Leeway)*time.Second)
	if err != nil {
		return fmt.Errorf("create token verifier: %w", err)
	}

	repo, closeRepo, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeRepo()
	slog.Info("connected to database", "type", cfg.Database.Type)

	presignClient, err := attachment.NewPresignClient(ctx, attachment.ClientConfig{
		Region:    cfg.Attachment.Region,
		Endpoint:  cfg.Attachment.Endpoint,
		AccessKey: cfg.Attachment.AccessKey,
		SecretKey: cfg.Attachment.SecretKey,
	})
	if err != nil {
		return fmt.Errorf("create presign client: %w", err)
	}

	links, err := attachment.NewS3LinkIssuer(presignClient, cfg.Attachment.Bucket)
	if err != nil {
		return fmt.Errorf("create link issuer: %w", err)
	}

	service, err := todovault.NewTodoService(repo, links, todovault.ServiceConfig{
		AttachmentBaseURL: cfg.Attachment.BaseURL(),
		LegacyObjectKey:   cfg.Attachment.LegacyObjectKey,
		LinkTTL:           time.Duration(cfg.Attachment.Expires) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	handlerConfig := todohttp.HandlerConfig{
		Authorizer: verifier,
		CORS:       cfg.CORS,
	}

	handler := todohttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
