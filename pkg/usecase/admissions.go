package usecase

import (
	"context"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/service/chunker"
	"github.com/campus-lab/minerva/pkg/service/dataset"
	"github.com/campus-lab/minerva/pkg/service/followup"
	"github.com/campus-lab/minerva/pkg/service/prompt"
)

// admissionsContextSize is how many guide chunks feed an answer.
const admissionsContextSize = 4

// AdmissionsUseCase answers questions over the admissions guide and
// proposes grounded follow-up questions.
type AdmissionsUseCase struct {
	store     *dataset.Store
	index     interfaces.Index
	embedder  interfaces.Embedder
	generator interfaces.Generator
	guideName string

	retriever *Retriever
	suggester *followup.Suggester
	ready     atomic.Bool
}

func NewAdmissionsUseCase(store *dataset.Store, index interfaces.Index, embedder interfaces.Embedder, generator interfaces.Generator, guideName string) *AdmissionsUseCase {
	uc := &AdmissionsUseCase{
		store:     store,
		index:     index,
		embedder:  embedder,
		generator: generator,
		guideName: guideName,
	}
	uc.retriever = NewRetriever(embedder, index, types.CollectionAdmissions)
	uc.suggester = followup.New(uc.retriever, generator)
	return uc
}

// Initialize loads the guide, chunks it and rebuilds the admissions
// collection. Until it succeeds, Ask fails with ErrNotInitialized.
func (x *AdmissionsUseCase) Initialize(ctx context.Context) error {
	text, err := x.store.ReadGuide(ctx, x.guideName)
	if err != nil {
		return goerr.Wrap(err, "failed to load admissions guide", goerr.V("guide", x.guideName))
	}

	chunks := chunker.GuideChunks(text)
	if len(chunks) == 0 {
		return goerr.New("admissions guide is empty", goerr.V("guide", x.guideName))
	}

	if err := buildCollection(ctx, x.embedder, x.index, types.CollectionAdmissions, chunks); err != nil {
		return err
	}

	x.ready.Store(true)
	return nil
}

// Ready reports whether the admissions collection has been built by
// this process.
func (x *AdmissionsUseCase) Ready() bool {
	return x.ready.Load()
}

// Ask answers one question. The returned follow-up questions are
// grounded in the context of the freshly answered conversation; the
// suggester never fails, falling back to its defaults.
func (x *AdmissionsUseCase) Ask(ctx context.Context, question string, history []model.ChatTurn) (string, []string, error) {
	if question == "" {
		return "", nil, goerr.New("question is required")
	}
	if !x.ready.Load() {
		return "", nil, goerr.Wrap(types.ErrNotInitialized, "admissions knowledge base is not ready")
	}

	docs, err := x.retriever.Retrieve(ctx, question, admissionsContextSize)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to retrieve admissions context", goerr.V("question", question))
	}

	composed, err := prompt.Compose(question, docs)
	if err != nil {
		return "", nil, err
	}

	answer, err := x.generator.Generate(ctx, composed)
	if err != nil {
		return "", nil, err
	}

	turns := append(append([]model.ChatTurn{}, history...),
		model.ChatTurn{Type: model.ChatTurnUser, Message: question},
		model.ChatTurn{Type: model.ChatTurnAI, Message: answer},
	)
	questions := x.suggester.Suggest(ctx, turns)

	return answer, questions, nil
}
