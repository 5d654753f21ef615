package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/campus-lab/minerva/pkg/service/dataset"
)

// Dataset holds CLI flags for the dataset location
type Dataset struct {
	root string
}

// Flags returns CLI flags for dataset configuration
func (x *Dataset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "data-root",
			Usage:       "Dataset root (local directory or gs://bucket/prefix)",
			Value:       "./data",
			Sources:     cli.EnvVars("MINERVA_DATA_ROOT"),
			Destination: &x.root,
		},
	}
}

// Root returns the configured dataset root
func (x *Dataset) Root() string {
	return x.root
}

// Configure builds the dataset store from the configured root.
func (x *Dataset) Configure(ctx context.Context) (*dataset.Store, error) {
	src, err := dataset.NewSource(ctx, x.root)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open dataset root", goerr.V("root", x.root))
	}
	return dataset.New(src), nil
}
