package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/repository/firestore"
	"github.com/campus-lab/minerva/pkg/repository/memory"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

// Index holds CLI flags for the vector index backend
type Index struct {
	backend    string
	projectID  string
	databaseID string
}

// Flags returns CLI flags for index configuration
func (x *Index) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "index-backend",
			Usage:       "Vector index backend type (memory or firestore)",
			Value:       "memory",
			Sources:     cli.EnvVars("MINERVA_INDEX_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("MINERVA_FIRESTORE_PROJECT_ID"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("MINERVA_FIRESTORE_DATABASE_ID"),
			Destination: &x.databaseID,
		},
	}
}

// ProjectID returns the Firestore project ID
func (x *Index) ProjectID() string {
	return x.projectID
}

// DatabaseID returns the Firestore database ID
func (x *Index) DatabaseID() string {
	return x.databaseID
}

// Configure initializes and returns an index based on the configured
// backend. The caller is responsible for calling Close() on the result.
func (x *Index) Configure(ctx context.Context) (interfaces.Index, error) {
	switch x.backend {
	case "firestore":
		if x.projectID == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "firestore-project-id is required when using firestore backend")
		}
		var opts []firestore.Option
		if x.databaseID != "" {
			opts = append(opts, firestore.WithDatabase(x.databaseID))
		}
		idx, err := firestore.New(ctx, x.projectID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore index")
		}
		logging.Default().Info("Using Firestore vector index",
			"project_id", x.projectID,
			"database_id", x.databaseID,
		)
		return idx, nil

	case "memory":
		logging.Default().Info("Using in-memory vector index")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid index backend", goerr.V("backend", x.backend))
	}
}
