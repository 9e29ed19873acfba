package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiLLMService drafts track documents with Gemini. Drafts are raw ingest
// documents; they are never trusted and always go through Ingest.
type GeminiLLMService interface {
	DraftTrack(ctx context.Context, req dto.DraftRequest) ([]byte, error)
}

type geminiLLMService struct {
	client *genai.GenerativeModel
	reg    *registry.Registry
}

// NewGeminiLLMService returns a service that reports ErrAIUnavailable when no
// API key is configured, so the rest of the server still starts.
func NewGeminiLLMService(cfg *config.Config, reg *registry.Registry) (GeminiLLMService, error) {
	if cfg.Gemini.ApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Draft generation will be unavailable.")
		return &geminiLLMService{reg: reg}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Gemini.Model)
	model.ResponseMIMEType = "application/json"
	return &geminiLLMService{client: model, reg: reg}, nil
}

func (s *geminiLLMService) DraftTrack(ctx context.Context, req dto.DraftRequest) ([]byte, error) {
	if s.client == nil {
		return nil, ErrAIUnavailable
	}
	prompt := draftPrompt(s.reg, req)
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("testType", req.TestType).Msg("Gemini API error during draft generation")
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return nil, fmt.Errorf("%w: empty response", ErrAIUnavailable)
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	raw := stripCodeFence(text.String())
	if !json.Valid(raw) {
		log.Warn().Str("testType", req.TestType).Int("length", len(raw)).Msg("Gemini draft is not valid JSON")
	}
	return raw, nil
}

// draftPrompt describes the ingest document and the kinds allowed for the
// requested paper, straight from the registry.
func draftPrompt(reg *registry.Registry, req dto.DraftRequest) string {
	var b strings.Builder
	b.WriteString("You are an experienced IELTS examiner writing practice material.\n")
	fmt.Fprintf(&b, "Write a complete IELTS %s test about %q with %d section(s).\n\n", req.TestType, req.Topic, req.Sections)
	b.WriteString("Reply with ONE JSON object and nothing else, in this shape:\n")
	b.WriteString(`{"test_type": "` + req.TestType + `", "title": string, "description": string, "duration_seconds": integer,` + "\n")
	b.WriteString(` "sections": [{"index": 1, "title": string, "instructions": string, "passage_text": string,` + "\n")
	b.WriteString(`   "questions": [{"index": 1, "type": string, ...fields of that type...}]}]}` + "\n\n")

	switch registry.Skill(req.TestType) {
	case registry.SkillWriting:
		b.WriteString("Use exactly two questions in total: one writing_task1 and one writing_task2.\n")
	case registry.SkillListening:
		b.WriteString("Use 40 questions in total, numbered 1 to 40 across the sections. Leave passage_text empty.\n")
	default:
		b.WriteString("Use 40 questions in total, numbered 1 to 40 across the sections. Put each reading passage in passage_text.\n")
	}

	b.WriteString("Allowed question types and their fields (* marks the answer key):\n")
	for _, k := range reg.Kinds() {
		spec, _ := reg.Lookup(k)
		if spec.Manual != (req.TestType == string(registry.SkillWriting)) {
			continue
		}
		names := make([]string, 0, len(spec.Fields))
		for _, f := range spec.Fields {
			name := f.Name
			if f.AnswerKey {
				name += "*"
			}
			names = append(names, name)
		}
		fmt.Fprintf(&b, "- %s: %s\n", k, strings.Join(names, ", "))
	}
	b.WriteString("\nAlternative answers in a key are separated by |, for example \"six|6\".\n")
	return b.String()
}

// stripCodeFence removes a surrounding ``` block the model sometimes adds.
func stripCodeFence(s string) []byte {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return bytes.TrimSpace([]byte(s))
}
