package usecase

import (
	"github.com/m-mizutani/gollem"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/service/dataset"
)

// UseCases bundles the three assistants behind one construction point.
// Placements stays nil unless its dataset is configured.
type UseCases struct {
	Course     *CourseUseCase
	Admissions *AdmissionsUseCase
	Placements *PlacementsUseCase
}

type Option func(*UseCases)

// WithPlacements enables the placements agent.
func WithPlacements(llmClient gollem.LLMClient, table *model.PlacementTable) Option {
	return func(uc *UseCases) {
		uc.Placements = NewPlacementsUseCase(llmClient, table)
	}
}

// New wires the shared pipeline into the assistants. guideName is the
// admissions guide file within the dataset store.
func New(store *dataset.Store, index interfaces.Index, embedder interfaces.Embedder, generator interfaces.Generator, guideName string, opts ...Option) *UseCases {
	uc := &UseCases{
		Course:     NewCourseUseCase(store, index, embedder, generator),
		Admissions: NewAdmissionsUseCase(store, index, embedder, generator, guideName),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
