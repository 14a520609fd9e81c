// Package validation enforces the roadmap content contract on documents
// coming from the content provider (AI generation or manual creation) before
// the core ever stores or walks them. Failures enumerate every offending
// field path so the caller can decide whether to retry generation.
package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/ncastellanos/roadmapr-backend/internal/apperr"
	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

// estimatedTimePattern accepts "3 weeks", "2 días", "1 month" and the other
// English/Spanish unit spellings, case-insensitive.
var estimatedTimePattern = regexp.MustCompile(`(?i)^\d+\s*(hours?|days?|weeks?|months?|minutes?|horas?|días?|semanas?|meses?|minutos?)$`)

var (
	moduleIDPattern = regexp.MustCompile(`^mod-\d+$`)
	topicIDPattern  = regexp.MustCompile(`^topic-\d+(-\d+)?$`)
)

// RoadmapDocument is the provider-facing shape of a roadmap, before it gains
// identity, ownership, and expiry.
type RoadmapDocument struct {
	Title         string             `json:"title" validate:"required,min=5,max=100"`
	Description   string             `json:"description" validate:"required,min=10,max=500"`
	Level         string             `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	EstimatedTime string             `json:"estimatedTime" validate:"required"`
	Modules       []types.Module     `json:"modules"`
	Connections   []types.Connection `json:"connections,omitempty"`
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateDocument checks the full content contract: scalar constraints,
// structural counts (3-10 modules, 3-8 topics, 3-8 subtopics, 1-5 resources),
// https resource URLs, time formats, and document-wide id uniqueness. All
// issues are collected rather than stopping at the first.
func (v *Validator) ValidateDocument(doc *RoadmapDocument) error {
	var issues []apperr.FieldIssue

	if err := v.validate.Struct(doc); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				issues = append(issues, apperr.FieldIssue{
					Field:  fe.Field(),
					Reason: fmt.Sprintf("failed %q constraint", fe.Tag()),
				})
			}
		} else {
			return apperr.Unavailable("content validation failed", err)
		}
	}

	if !estimatedTimePattern.MatchString(doc.EstimatedTime) {
		issues = append(issues, apperr.FieldIssue{
			Field:  "estimatedTime",
			Reason: `must match "N hours/days/weeks/months" (English or Spanish units)`,
		})
	}

	if len(doc.Modules) < 3 || len(doc.Modules) > 10 {
		issues = append(issues, apperr.FieldIssue{
			Field:  "modules",
			Reason: fmt.Sprintf("must contain between 3 and 10 modules, got %d", len(doc.Modules)),
		})
	}

	moduleIDs := make(map[string]bool)
	topicIDs := make(map[string]bool)
	for mi, module := range doc.Modules {
		prefix := fmt.Sprintf("modules[%d]", mi)
		issues = append(issues, v.validateModule(prefix, module, moduleIDs, topicIDs)...)
	}

	if len(issues) > 0 {
		return apperr.ContentInvalid("roadmap document violates the content contract", issues)
	}
	return nil
}

func (v *Validator) validateModule(prefix string, module types.Module, moduleIDs, topicIDs map[string]bool) []apperr.FieldIssue {
	var issues []apperr.FieldIssue

	if !moduleIDPattern.MatchString(module.ID) {
		issues = append(issues, apperr.FieldIssue{Field: prefix + ".id", Reason: `must match "mod-N"`})
	} else if moduleIDs[module.ID] {
		issues = append(issues, apperr.FieldIssue{Field: prefix + ".id", Reason: "duplicate module id " + module.ID})
	} else {
		moduleIDs[module.ID] = true
	}

	if err := v.validate.Var(module.Title, "required,min=3,max=50"); err != nil {
		issues = append(issues, apperr.FieldIssue{Field: prefix + ".title", Reason: "must be 3-50 characters"})
	}

	if len(module.Topics) < 3 || len(module.Topics) > 8 {
		issues = append(issues, apperr.FieldIssue{
			Field:  prefix + ".topics",
			Reason: fmt.Sprintf("must contain between 3 and 8 topics, got %d", len(module.Topics)),
		})
	}

	for ti, topic := range module.Topics {
		issues = append(issues, v.validateTopic(fmt.Sprintf("%s.topics[%d]", prefix, ti), topic, topicIDs)...)
	}
	return issues
}

func (v *Validator) validateTopic(prefix string, topic types.Topic, topicIDs map[string]bool) []apperr.FieldIssue {
	var issues []apperr.FieldIssue

	if !topicIDPattern.MatchString(topic.ID) {
		issues = append(issues, apperr.FieldIssue{Field: prefix + ".id", Reason: `must match "topic-N" or "topic-N-M"`})
	} else if topicIDs[topic.ID] {
		issues = append(issues, apperr.FieldIssue{Field: prefix + ".id", Reason: "duplicate topic id " + topic.ID})
	} else {
		topicIDs[topic.ID] = true
	}

	if err := v.validate.Var(topic.Title, "required,min=3,max=50"); err != nil {
		issues = append(issues, apperr.FieldIssue{Field: prefix + ".title", Reason: "must be 3-50 characters"})
	}

	if topic.EstimatedTime != "" && !estimatedTimePattern.MatchString(topic.EstimatedTime) {
		issues = append(issues, apperr.FieldIssue{
			Field:  prefix + ".estimatedTime",
			Reason: `must match "N hours/days/weeks/months" (English or Spanish units)`,
		})
	}

	if len(topic.Subtopics) < 3 || len(topic.Subtopics) > 8 {
		issues = append(issues, apperr.FieldIssue{
			Field:  prefix + ".subtopics",
			Reason: fmt.Sprintf("must contain between 3 and 8 subtopics, got %d", len(topic.Subtopics)),
		})
	}
	for si, subtopic := range topic.Subtopics {
		if err := v.validate.Var(subtopic, "required,min=5,max=100"); err != nil {
			issues = append(issues, apperr.FieldIssue{
				Field:  fmt.Sprintf("%s.subtopics[%d]", prefix, si),
				Reason: "must be 5-100 characters",
			})
		}
	}

	if len(topic.Resources) < 1 || len(topic.Resources) > 5 {
		issues = append(issues, apperr.FieldIssue{
			Field:  prefix + ".resources",
			Reason: fmt.Sprintf("must contain between 1 and 5 resources, got %d", len(topic.Resources)),
		})
	}
	for ri, resource := range topic.Resources {
		rPrefix := fmt.Sprintf("%s.resources[%d]", prefix, ri)
		if err := v.validate.Var(resource.Name, "required,min=3,max=50"); err != nil {
			issues = append(issues, apperr.FieldIssue{Field: rPrefix + ".name", Reason: "must be 3-50 characters"})
		}
		if err := v.validate.Var(resource.URL, "required,url,startswith=https://"); err != nil {
			issues = append(issues, apperr.FieldIssue{Field: rPrefix + ".url", Reason: "must be a valid https URL"})
		}
	}
	return issues
}
