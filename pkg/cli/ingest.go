package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/campus-lab/minerva/pkg/cli/config"
	"github.com/campus-lab/minerva/pkg/service/llm"
	"github.com/campus-lab/minerva/pkg/usecase"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

// ingestConcurrency caps how many datasets embed at the same time.
const ingestConcurrency = 2

func cmdIngest() *cli.Command {
	var department string
	var regulation string
	var all bool
	var datasetCfg config.Dataset
	var indexCfg config.Index
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "department",
			Usage:       "Department dataset to ingest (e.g. cse)",
			Destination: &department,
		},
		&cli.StringFlag{
			Name:        "regulation",
			Usage:       "Regulation subdirectory within the department (e.g. r2021)",
			Destination: &regulation,
		},
		&cli.BoolFlag{
			Name:        "all",
			Usage:       "Ingest every dataset under the data root",
			Destination: &all,
		},
	}
	flags = append(flags, datasetCfg.Flags()...)
	flags = append(flags, indexCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "ingest",
		Aliases: []string{"i"},
		Usage:   "Embed syllabus datasets and rebuild their collections",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if !all && department == "" {
				return goerr.New("either --department or --all is required")
			}

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

			uc := usecase.NewCourseUseCase(store, index, svc, svc)

			type target struct {
				department string
				regulation string
			}
			var targets []target

			if all {
				datasets, err := store.Datasets(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to list datasets")
				}
				for dept, regulations := range datasets {
					if len(regulations) == 0 {
						targets = append(targets, target{department: dept})
						continue
					}
					for _, reg := range regulations {
						targets = append(targets, target{department: dept, regulation: reg})
					}
				}
			} else {
				targets = append(targets, target{department: department, regulation: regulation})
			}

			if len(targets) == 0 {
				return goerr.New("no datasets found", goerr.V("root", datasetCfg.Root()))
			}

			eg, egCtx := errgroup.WithContext(ctx)
			eg.SetLimit(ingestConcurrency)
			for _, tgt := range targets {
				eg.Go(func() error {
					logging.Default().Info("ingesting dataset",
						"department", tgt.department, "regulation", tgt.regulation)
					if err := uc.Warm(egCtx, tgt.department, tgt.regulation); err != nil {
						return goerr.Wrap(err, "failed to ingest dataset",
							goerr.V("department", tgt.department),
							goerr.V("regulation", tgt.regulation),
						)
					}
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			logging.Default().Info("ingestion completed", "datasets", len(targets))
			return nil
		},
	}
}
