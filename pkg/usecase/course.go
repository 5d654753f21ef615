package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/service/chunker"
	"github.com/campus-lab/minerva/pkg/service/dataset"
	"github.com/campus-lab/minerva/pkg/service/enhance"
	"github.com/campus-lab/minerva/pkg/service/prompt"
)

// defaultContextSize is how many chunks feed a course answer.
const defaultContextSize = 10

// CourseUseCase answers syllabus questions per department/regulation.
// Each dataset gets its own collection and retriever, built lazily on
// first use and cached for the process lifetime.
type CourseUseCase struct {
	store     *dataset.Store
	index     interfaces.Index
	embedder  interfaces.Embedder
	generator interfaces.Generator

	contextSize int

	mu   sync.Mutex
	bots map[types.CollectionID]*courseBot
}

type courseBot struct {
	build     sync.Once
	buildErr  error
	retriever *Retriever
}

type CourseOption func(*CourseUseCase)

// WithContextSize overrides how many chunks are retrieved per query.
func WithContextSize(n int) CourseOption {
	return func(uc *CourseUseCase) {
		if n > 0 {
			uc.contextSize = n
		}
	}
}

func NewCourseUseCase(store *dataset.Store, index interfaces.Index, embedder interfaces.Embedder, generator interfaces.Generator, opts ...CourseOption) *CourseUseCase {
	uc := &CourseUseCase{
		store:       store,
		index:       index,
		embedder:    embedder,
		generator:   generator,
		contextSize: defaultContextSize,
		bots:        make(map[types.CollectionID]*courseBot),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Departments lists available datasets: department name to regulation
// subdirectories.
func (x *CourseUseCase) Departments(ctx context.Context) (map[string][]string, error) {
	return x.store.Datasets(ctx)
}

// Warm builds the dataset's collection eagerly. Used by ingest and
// startup warm-up; Chat does the same lazily.
func (x *CourseUseCase) Warm(ctx context.Context, department, regulation string) error {
	_, err := x.bot(ctx, department, regulation)
	return err
}

// Chat answers one query against the department's syllabus dataset.
func (x *CourseUseCase) Chat(ctx context.Context, department, regulation, query string) (*model.CourseAnswer, error) {
	if query == "" {
		return nil, goerr.New("query is required")
	}
	if department == "" {
		return nil, goerr.New("department is required")
	}

	bot, err := x.bot(ctx, department, regulation)
	if err != nil {
		return nil, err
	}

	docs, err := bot.retriever.Retrieve(ctx, query, x.contextSize)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to retrieve context",
			goerr.V("department", department),
			goerr.V("query", query),
		)
	}

	composed, err := prompt.Compose(query, docs)
	if err != nil {
		return nil, err
	}

	answer, err := x.generator.Generate(ctx, composed)
	if err != nil {
		return nil, err
	}

	return &model.CourseAnswer{
		Query:           query,
		Answer:          answer,
		ContextUsed:     len(docs),
		RelevantCourses: relevantCourses(docs),
	}, nil
}

// bot returns the cached pipeline for a dataset, building and ingesting
// it on first access. The usecase lock only guards the map; the build
// itself runs under the bot's own once, so ingesting one dataset does
// not block chats against already-warm datasets.
func (x *CourseUseCase) bot(ctx context.Context, department, regulation string) (*courseBot, error) {
	collection := types.NewSyllabusCollectionID(department, regulation)

	x.mu.Lock()
	bot, ok := x.bots[collection]
	if !ok {
		bot = &courseBot{}
		x.bots[collection] = bot
	}
	x.mu.Unlock()

	bot.build.Do(func() {
		bot.retriever, bot.buildErr = x.buildBot(ctx, department, regulation, collection)
	})

	if bot.buildErr != nil {
		// Evict so a later request retries the build.
		x.mu.Lock()
		if x.bots[collection] == bot {
			delete(x.bots, collection)
		}
		x.mu.Unlock()
		return nil, bot.buildErr
	}
	return bot, nil
}

func (x *CourseUseCase) buildBot(ctx context.Context, department, regulation string, collection types.CollectionID) (*Retriever, error) {
	records, opt, err := x.store.LoadSyllabus(ctx, department, regulation)
	if err != nil {
		return nil, err
	}

	chunks, semesters := chunker.Chunk(ctx, records, opt.FAQ)

	courses := make(map[string]model.CourseMetadata, len(records))
	for _, record := range records {
		if record.Metadata.CourseCode != "" {
			courses[record.Metadata.CourseCode] = record.Metadata
		}
	}

	if err := buildCollection(ctx, x.embedder, x.index, collection, chunks); err != nil {
		return nil, err
	}

	return NewRetriever(x.embedder, x.index, collection,
		WithEnhancer(enhance.New(semesters, courses, opt.Concepts)),
	), nil
}

// relevantCourses extracts the sorted, unique "CODE - NAME" labels of
// the courses the context came from.
func relevantCourses(docs []*model.ScoredChunk) []string {
	seen := make(map[string]struct{})
	courses := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil || doc.Chunk == nil {
			continue
		}
		code := doc.Chunk.Metadata["course_code"]
		name := doc.Chunk.Metadata["course_name"]
		if code == "" || name == "" {
			continue
		}
		label := code + " - " + name
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		courses = append(courses, label)
	}
	sort.Strings(courses)
	return courses
}
