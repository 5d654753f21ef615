package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/campus-lab/minerva/pkg/cli/config"
	"github.com/campus-lab/minerva/pkg/service/llm"
	"github.com/campus-lab/minerva/pkg/usecase"
)

func cmdAsk() *cli.Command {
	var department string
	var regulation string
	var guideName string
	var datasetCfg config.Dataset
	var indexCfg config.Index
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "department",
			Usage:       "Ask against a department syllabus instead of the admissions guide",
			Destination: &department,
		},
		&cli.StringFlag{
			Name:        "regulation",
			Usage:       "Regulation subdirectory within the department",
			Destination: &regulation,
		},
		&cli.StringFlag{
			Name:        "admissions-guide",
			Usage:       "Admissions guide file within the dataset root",
			Value:       "university_guide.md",
			Sources:     cli.EnvVars("MINERVA_ADMISSIONS_GUIDE"),
			Destination: &guideName,
		},
	}
	flags = append(flags, datasetCfg.Flags()...)
	flags = append(flags, indexCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:      "ask",
		Aliases:   []string{"a"},
		Usage:     "Ask a single question from the terminal",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question is required")
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
				_ = index.Close()
			}()

			uc := usecase.New(store, index, svc, svc, guideName)

			color.Cyan("Q: %s", question)

			if department != "" {
				answer, err := uc.Course.Chat(ctx, department, regulation, question)
				if err != nil {
					return renderFailure(err)
				}
				fmt.Println(answer.Answer)
				if len(answer.RelevantCourses) > 0 {
					color.Yellow("Relevant courses: %s", strings.Join(answer.RelevantCourses, ", "))
				}
				return nil
			}

			if err := uc.Admissions.Initialize(ctx); err != nil {
				return goerr.Wrap(err, "failed to build admissions knowledge base")
			}

			answer, questions, err := uc.Admissions.Ask(ctx, question, nil)
			if err != nil {
				return renderFailure(err)
			}

			fmt.Println(answer)
			if len(questions) > 0 {
				color.Yellow("You could also ask:")
				for _, q := range questions {
					color.Yellow("  - %s", q)
				}
			}
			return nil
		},
	}
}

// renderFailure prints the user-safe message for generation failures
// before returning the underlying error.
func renderFailure(err error) error {
	if errors.Is(err, usecase.ErrGeneration) {
		color.Red("%s", usecase.GenerationMessage(err))
	}
	return err
}
