package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/similvitoria/IC-IA-LLMChatbot/internal/candidate"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/extract"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/util"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const systemPrompt = "You are an assistant specialized in extracting structured information " +
	"from professional experience descriptions. Return only valid JSON, with no additional text."

const (
	defaultResponsibilities = "Information not specified"
	defaultResults          = "Results not detailed"

	defaultMaxLogLength = 200
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Extractor turns free-text experience descriptions into structured
// records via Gemini.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract implements extract.Extractor. Every error it returns carries an
// extract.Failure kind: timeout when the context expired, malformed when
// the model output is not the expected JSON, incomplete when the role is
// missing.
func (e *Extractor) Extract(ctx context.Context, text string) (candidate.Experience, error) {
	prompt := strings.ReplaceAll(promptTemplate, "{{EXPERIENCE_TEXT}}", text)

	e.logger.Debug("gemini extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		return candidate.Experience{}, extract.AsFailure(err)
	}

	e.logger.Debug("gemini extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseExperience(raw)
}

func parseExperience(raw string) (candidate.Experience, error) {
	cleaned := extractJSON(raw)

	var payload struct {
		Role             string   `json:"role"`
		Responsibilities string   `json:"responsibilities"`
		Skills           []string `json:"skills"`
		Results          string   `json:"results"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return candidate.Experience{}, &extract.Failure{Kind: extract.FailureMalformed, Err: err}
	}

	if strings.TrimSpace(payload.Role) == "" {
		return candidate.Experience{}, &extract.Failure{
			Kind: extract.FailureIncomplete,
			Err:  errors.New("no role in model output"),
		}
	}

	exp := candidate.Experience{
		Role:             strings.TrimSpace(payload.Role),
		Responsibilities: strings.TrimSpace(payload.Responsibilities),
		Skills:           payload.Skills,
		Results:          strings.TrimSpace(payload.Results),
	}
	if exp.Responsibilities == "" {
		exp.Responsibilities = defaultResponsibilities
	}
	if exp.Results == "" {
		exp.Results = defaultResults
	}
	if exp.Skills == nil {
		exp.Skills = []string{}
	}

	return exp, nil
}

// extractJSON strips markdown code fences the model sometimes wraps
// around its output.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
