package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"

	"github.com/campus-lab/minerva/pkg/domain/model"
)

//go:embed templates/*.md
var templateFS embed.FS

var answerTemplates = template.Must(template.ParseFS(templateFS, "templates/*.md"))

type templateID string

const (
	templateDefault      templateID = "answer_default.md"
	templateSyllabusOnly templateID = "answer_syllabus.md"
)

// selectionRule routes a query to a template. A rule fires when the
// query contains keyword and none of the exclude terms. Rules are
// evaluated top-down, first match wins; matching is plain substring
// lookup, so e.g. "overview" inside another word also counts.
type selectionRule struct {
	id      templateID
	keyword string
	exclude []string
}

var selectionRules = []selectionRule{
	{
		id:      templateSyllabusOnly,
		keyword: "syllabus",
		exclude: []string{"book", "overview", "credit", "outcome", "prerequisite"},
	},
}

func selectTemplate(query string) templateID {
	lower := strings.ToLower(query)

	for _, rule := range selectionRules {
		if !strings.Contains(lower, rule.keyword) {
			continue
		}
		excluded := false
		for _, term := range rule.exclude {
			if strings.Contains(lower, term) {
				excluded = true
				break
			}
		}
		if !excluded {
			return rule.id
		}
	}
	return templateDefault
}

type templateData struct {
	Context  string
	Question string
}

// Compose assembles the grounded prompt for a query: labeled context
// blocks followed by the question, using the template the query's
// wording selects.
func Compose(query string, docs []*model.ScoredChunk) (string, error) {
	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil || doc.Chunk == nil {
			continue
		}
		source := doc.Chunk.Metadata["source"]
		if source == "" {
			source = "unknown"
		}
		courseCode := doc.Chunk.Metadata["course_code"]
		if courseCode == "" {
			courseCode = "N/A"
		}
		blocks = append(blocks, fmt.Sprintf("Context Snippet (Source: %s, Course: %s):\n%s",
			source, courseCode, doc.Chunk.Content))
	}

	data := templateData{
		Context:  strings.Join(blocks, "\n---\n"),
		Question: query,
	}

	var buf bytes.Buffer
	if err := answerTemplates.ExecuteTemplate(&buf, string(selectTemplate(query)), data); err != nil {
		return "", goerr.Wrap(err, "failed to render prompt template", goerr.V("query", query))
	}
	return buf.String(), nil
}
