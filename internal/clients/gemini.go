package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ncastellanos/roadmapr-backend/internal/apperr"
	"github.com/ncastellanos/roadmapr-backend/internal/logger"
	"github.com/ncastellanos/roadmapr-backend/internal/utils"
	"github.com/ncastellanos/roadmapr-backend/internal/validation"
)

// RoadmapGenerator produces a candidate roadmap document for a topic and
// level. The caller validates the result against the content contract; the
// generator only guarantees syntactically parseable JSON.
type RoadmapGenerator interface {
	GenerateRoadmap(ctx context.Context, topic, level string) (*validation.RoadmapDocument, error)
}

type geminiClient struct {
	httpClient *resty.Client
	log        *logger.Logger
	model      string
}

func NewGeminiClient(log *logger.Logger) (RoadmapGenerator, error) {
	apiKey := utils.GetEnv("GEMINI_API_KEY", "", log)
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	model := utils.GetEnv("GEMINI_MODEL", "gemini-2.0-flash", log)

	client := resty.New().
		SetBaseURL("https://generativelanguage.googleapis.com/v1beta").
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", apiKey).
		SetTimeout(90 * time.Second)

	return &geminiClient{
		httpClient: client,
		log:        log.With("client", "GeminiClient"),
		model:      model,
	}, nil
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	Temperature      float32 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *geminiClient) GenerateRoadmap(ctx context.Context, topic, level string) (*validation.RoadmapDocument, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildRoadmapPrompt(topic, level)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			Temperature:      0.4,
		},
	}

	var parsed geminiResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&parsed).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		return nil, apperr.Unavailable("roadmap generation request failed", err)
	}
	if resp.IsError() {
		return nil, apperr.Unavailable(fmt.Sprintf("roadmap generation returned status %d", resp.StatusCode()), nil)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, apperr.ContentInvalid("generation returned no candidates", nil)
	}

	raw := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	raw = stripCodeFence(raw)

	var doc validation.RoadmapDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, apperr.ContentInvalid("generated roadmap is not valid JSON", []apperr.FieldIssue{
			{Field: "root", Reason: err.Error()},
		})
	}
	return &doc, nil
}

// stripCodeFence tolerates models that wrap JSON in a markdown fence despite
// the JSON response mime type.
func stripCodeFence(raw string) string {
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

func buildRoadmapPrompt(topic, level string) string {
	var b strings.Builder
	b.WriteString("Generate a learning roadmap as a single JSON object for the topic ")
	fmt.Fprintf(&b, "%q at %q level.\n", topic, level)
	b.WriteString(`The object must have: title (5-100 chars), description (10-500 chars), ` +
		`level ("beginner"|"intermediate"|"advanced"), estimatedTime ("N months"), ` +
		`and modules: 3-10 entries with id "mod-N", title, description, and topics. ` +
		`Each module has 3-8 topics with id "topic-N" or "topic-N-M", title, summary, ` +
		`estimatedTime ("N hours/days/weeks"), 3-8 subtopics (plain strings, 5-100 chars), ` +
		`and 1-5 resources with name and an https url. ` +
		`All module and topic ids must be unique across the document. ` +
		`Return only the JSON object, no surrounding text.`)
	return b.String()
}
