package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/campus-lab/minerva/pkg/cli/config"
	httpctrl "github.com/campus-lab/minerva/pkg/controller/http"
	"github.com/campus-lab/minerva/pkg/service/llm"
	"github.com/campus-lab/minerva/pkg/usecase"
	"github.com/campus-lab/minerva/pkg/utils/async"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var guideName string
	var placementsName string
	var datasetCfg config.Dataset
	var indexCfg config.Index
	var geminiCfg config.Gemini
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MINERVA_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "admissions-guide",
			Usage:       "Admissions guide file within the dataset root",
			Value:       "university_guide.md",
			Sources:     cli.EnvVars("MINERVA_ADMISSIONS_GUIDE"),
			Destination: &guideName,
		},
		&cli.StringFlag{
			Name:        "placements-data",
			Usage:       "Placements CSV file within the dataset root",
			Value:       "placements_data.csv",
			Sources:     cli.EnvVars("MINERVA_PLACEMENTS_DATA"),
			Destination: &placementsName,
		},
	}
	flags = append(flags, datasetCfg.Flags()...)
	flags = append(flags, indexCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sentryCloser, err := sentryCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer sentryCloser()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			svc, err := llm.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to build LLM service")
			}

			store, err := datasetCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to open dataset store")
			}

			index, err := indexCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize vector index")
			}
			defer func() {
				if err := index.Close(); err != nil {
					logging.Default().Error("failed to close index", "error", err.Error())
				}
			}()

			var ucOpts []usecase.Option
			table, err := store.LoadPlacements(ctx, placementsName)
			if err != nil {
				logging.Default().Warn("placements data not loaded, placements agent disabled",
					"file", placementsName, "error", err.Error())
			} else {
				ucOpts = append(ucOpts, usecase.WithPlacements(llmClient, table))
				logging.Default().Info("placements agent enabled", "records", table.Len())
			}

			uc := usecase.New(store, index, svc, svc, guideName, ucOpts...)

			// The admissions collection builds in the background so the
			// server accepts connections immediately; the endpoint
			// reports not-initialized until the build finishes.
			async.Dispatch(ctx, func(ctx context.Context) error {
				if err := uc.Admissions.Initialize(ctx); err != nil {
					return goerr.Wrap(err, "failed to initialize admissions knowledge base")
				}
				logging.From(ctx).Info("admissions knowledge base ready")
				return nil
			})

			httpOpts := []httpctrl.Options{
				httpctrl.WithAdmissions(uc.Admissions),
				httpctrl.WithCourse(uc.Course),
			}
			if uc.Placements != nil {
				httpOpts = append(httpOpts, httpctrl.WithPlacements(uc.Placements))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
