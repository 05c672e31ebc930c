package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/learnmap-dev/learnmap/pkg/cli/config"
	httpctrl "github.com/learnmap-dev/learnmap/pkg/controller/http"
	"github.com/learnmap-dev/learnmap/pkg/repository/memory"
	"github.com/learnmap-dev/learnmap/pkg/service/archive"
	"github.com/learnmap-dev/learnmap/pkg/service/llm"
	"github.com/learnmap-dev/learnmap/pkg/usecase"
	"github.com/learnmap-dev/learnmap/pkg/utils/errutil"
	"github.com/learnmap-dev/learnmap/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var sentryDSN string
	var archiveBucket string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("LEARNMAP_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting",
			Sources:     cli.EnvVars("LEARNMAP_SENTRY_DSN"),
			Destination: &sentryDSN,
		},
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket for archiving raw model responses",
			Sources:     cli.EnvVars("LEARNMAP_ARCHIVE_BUCKET"),
			Destination: &archiveBucket,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			if sentryDSN != "" {
				if err := sentry.Init(sentry.ClientOptions{Dsn: sentryDSN}); err != nil {
					return goerr.Wrap(err, "failed to initialize sentry")
				}
				defer sentry.Flush(2 * time.Second)
				logging.Default().Info("Sentry error reporting enabled")
			}

			connect, err := repoCfg.Connector()
			if err != nil {
				return goerr.Wrap(err, "failed to configure repository")
			}

			ucOpts := []usecase.Option{}
			if connect != nil {
				ucOpts = append(ucOpts, usecase.WithPrimaryStore(connect))
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llmClient != nil {
				generator, err := llm.NewTextGenerator(llmClient)
				if err != nil {
					return goerr.Wrap(err, "failed to create text generator")
				}
				ucOpts = append(ucOpts, usecase.WithGenerator(generator))
				logging.Default().Info("Gemini generation enabled", "project", geminiCfg.LogAttrs())
			} else {
				logging.Default().Warn("Gemini not configured, serving fallback roadmaps and quizzes")
			}

			if archiveBucket != "" {
				archiveSvc, err := archive.New(ctx, archiveBucket)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize response archive")
				}
				defer func() {
					if err := archiveSvc.Close(); err != nil {
						logging.Default().Error("failed to close archive service", "error", err.Error())
					}
				}()
				ucOpts = append(ucOpts, usecase.WithArchive(archiveSvc))
				logging.Default().Info("Response archive enabled", "bucket", archiveBucket)
			}

			ucOpts = append(ucOpts, usecase.WithQuizDefaults(appCfg.Quiz.Difficulty, appCfg.Quiz.NumQuestions))

			uc := usecase.New(memory.New(), ucOpts...)
			defer func() {
				if err := uc.Close(); err != nil {
					_ = errutil.Handle(ctx, err, "failed to close use cases")
				}
			}()

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
