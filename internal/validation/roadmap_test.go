package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastellanos/roadmapr-backend/internal/apperr"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

func validDocument() *RoadmapDocument {
	doc := &RoadmapDocument{
		Title:         "Learn Distributed Systems",
		Description:   "A structured path through distributed systems fundamentals.",
		Level:         types.LevelIntermediate,
		EstimatedTime: "3 months",
	}
	for m := 1; m <= 3; m++ {
		module := types.Module{
			ID:    fmt.Sprintf("mod-%d", m),
			Title: fmt.Sprintf("Module %d", m),
		}
		for t := 1; t <= 3; t++ {
			module.Topics = append(module.Topics, types.Topic{
				ID:            fmt.Sprintf("topic-%d-%d", m, t),
				Title:         fmt.Sprintf("Topic %d.%d", m, t),
				EstimatedTime: "2 weeks",
				Subtopics: []string{
					"Understand the core idea",
					"Work through an example",
					"Apply it to a small project",
				},
				Resources: []types.Resource{
					{Name: "Reference guide", URL: "https://example.com/guide"},
				},
			})
		}
		doc.Modules = append(doc.Modules, module)
	}
	return doc
}

func issuesOf(t *testing.T, err error) []apperr.FieldIssue {
	t.Helper()
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae), "expected *apperr.Error, got %v", err)
	require.Equal(t, apperr.KindContentInvalid, ae.Kind)
	return ae.Issues
}

func hasIssue(issues []apperr.FieldIssue, fieldSubstr string) bool {
	for _, issue := range issues {
		if strings.Contains(issue.Field, fieldSubstr) {
			return true
		}
	}
	return false
}

func TestValidateDocumentAccepts(t *testing.T) {
	v := New()
	require.NoError(t, v.ValidateDocument(validDocument()))
}

func TestValidateDocumentSpanishUnits(t *testing.T) {
	v := New()
	doc := validDocument()
	doc.EstimatedTime = "3 meses"
	doc.Modules[0].Topics[0].EstimatedTime = "2 semanas"
	require.NoError(t, v.ValidateDocument(doc))
}

func TestValidateDocumentRejections(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*RoadmapDocument)
		wantField string
	}{
		{
			name:      "short_title",
			mutate:    func(d *RoadmapDocument) { d.Title = "Go" },
			wantField: "Title",
		},
		{
			name:      "bad_level",
			mutate:    func(d *RoadmapDocument) { d.Level = "expert" },
			wantField: "Level",
		},
		{
			name:      "bad_estimated_time",
			mutate:    func(d *RoadmapDocument) { d.EstimatedTime = "a while" },
			wantField: "estimatedTime",
		},
		{
			name:      "too_few_modules",
			mutate:    func(d *RoadmapDocument) { d.Modules = d.Modules[:2] },
			wantField: "modules",
		},
		{
			name:      "duplicate_topic_id",
			mutate:    func(d *RoadmapDocument) { d.Modules[1].Topics[0].ID = d.Modules[0].Topics[0].ID },
			wantField: "modules[1].topics[0].id",
		},
		{
			name:      "duplicate_module_id",
			mutate:    func(d *RoadmapDocument) { d.Modules[2].ID = d.Modules[0].ID },
			wantField: "modules[2].id",
		},
		{
			name:      "bad_module_id_pattern",
			mutate:    func(d *RoadmapDocument) { d.Modules[0].ID = "module-one" },
			wantField: "modules[0].id",
		},
		{
			name:      "too_few_subtopics",
			mutate:    func(d *RoadmapDocument) { d.Modules[0].Topics[0].Subtopics = d.Modules[0].Topics[0].Subtopics[:2] },
			wantField: "modules[0].topics[0].subtopics",
		},
		{
			name:      "http_resource_url",
			mutate:    func(d *RoadmapDocument) { d.Modules[0].Topics[0].Resources[0].URL = "http://example.com" },
			wantField: "modules[0].topics[0].resources[0].url",
		},
		{
			name:      "no_resources",
			mutate:    func(d *RoadmapDocument) { d.Modules[0].Topics[0].Resources = nil },
			wantField: "modules[0].topics[0].resources",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := New()
			doc := validDocument()
			tc.mutate(doc)
			err := v.ValidateDocument(doc)
			require.Error(t, err)
			issues := issuesOf(t, err)
			assert.True(t, hasIssue(issues, tc.wantField), "no issue mentioning %q in %v", tc.wantField, issues)
		})
	}
}

func TestValidateDocumentCollectsMultipleIssues(t *testing.T) {
	v := New()
	doc := validDocument()
	doc.Title = "Go"
	doc.EstimatedTime = "soon"
	doc.Modules[0].Topics[0].Resources[0].URL = "ftp://example.com"

	issues := issuesOf(t, v.ValidateDocument(doc))
	assert.GreaterOrEqual(t, len(issues), 3)
}
