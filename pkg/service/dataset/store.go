package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

// Well-known dataset file names.
const (
	SyllabusFile     = "syllabus_data.json"
	OptimizationFile = "rag_optimization.toml"
)

// Optimization is the optional curated dataset that rides along a
// syllabus: FAQ entries and the concept expansion map.
type Optimization struct {
	FAQ      []model.FaqEntry `toml:"faq"`
	Concepts model.ConceptMap `toml:"concepts"`
}

// Store loads datasets from a Source.
type Store struct {
	src Source
}

func New(src Source) *Store {
	return &Store{src: src}
}

// Datasets scans the dataset root and returns department names mapped
// to their regulation subdirectories (empty slice when the department
// keeps its syllabus at the top level).
func (x *Store) Datasets(ctx context.Context) (map[string][]string, error) {
	rootEntries, err := x.src.List(ctx, "")
	if err != nil {
		return nil, err
	}

	departments := make(map[string][]string)
	for _, entry := range rootEntries {
		if !entry.Dir {
			continue
		}

		subEntries, err := x.src.List(ctx, entry.Name)
		if err != nil {
			if errors.Is(err, types.ErrDataNotFound) {
				continue
			}
			return nil, err
		}

		var regulations []string
		hasDirect := false
		for _, sub := range subEntries {
			if sub.Name == SyllabusFile && !sub.Dir {
				hasDirect = true
				continue
			}
			if !sub.Dir {
				continue
			}
			nested, err := x.src.List(ctx, path.Join(entry.Name, sub.Name))
			if err != nil {
				continue
			}
			for _, n := range nested {
				if n.Name == SyllabusFile && !n.Dir {
					regulations = append(regulations, sub.Name)
					break
				}
			}
		}

		if hasDirect || len(regulations) > 0 {
			sort.Strings(regulations)
			departments[entry.Name] = regulations
		}
	}

	return departments, nil
}

// LoadSyllabus reads the course records and, when present, the
// optimization dataset of one department/regulation dataset.
func (x *Store) LoadSyllabus(ctx context.Context, department, regulation string) ([]model.CourseRecord, *Optimization, error) {
	dir := department
	if regulation != "" {
		dir = path.Join(department, regulation)
	}

	data, err := x.src.ReadFile(ctx, path.Join(dir, SyllabusFile))
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load syllabus dataset",
			goerr.V("department", department),
			goerr.V("regulation", regulation),
		)
	}

	var records []model.CourseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to parse syllabus dataset",
			goerr.V("department", department),
			goerr.V("regulation", regulation),
		)
	}

	opt := &Optimization{}
	optData, err := x.src.ReadFile(ctx, path.Join(dir, OptimizationFile))
	switch {
	case errors.Is(err, types.ErrDataNotFound):
		logging.From(ctx).Warn("optimization dataset not found, continuing without it",
			"department", department,
			"regulation", regulation,
		)
	case err != nil:
		return nil, nil, err
	default:
		if err := toml.Unmarshal(optData, opt); err != nil {
			return nil, nil, goerr.Wrap(err, "failed to parse optimization dataset",
				goerr.V("department", department),
				goerr.V("regulation", regulation),
			)
		}
	}

	return records, opt, nil
}

// ReadGuide loads a free-text guide document (e.g. the admissions
// guide) by file name.
func (x *Store) ReadGuide(ctx context.Context, name string) (string, error) {
	data, err := x.src.ReadFile(ctx, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
