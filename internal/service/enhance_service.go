package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"rethinkclub/internal/config"
	"rethinkclub/internal/models"
	"rethinkclub/internal/observability"

	openai "github.com/sashabaranov/go-openai"
)

// EnhanceMode selects how the text is rewritten.
type EnhanceMode string

const (
	ModeGrammar  EnhanceMode = "grammar"
	ModeExpand   EnhanceMode = "expand"
	ModeEngaging EnhanceMode = "engaging"
	ModeClarity  EnhanceMode = "clarity"
	ModeAll      EnhanceMode = "all"
)

func (m EnhanceMode) Valid() bool {
	switch m {
	case ModeGrammar, ModeExpand, ModeEngaging, ModeClarity, ModeAll:
		return true
	}
	return false
}

// chatCompleter is the slice of the OpenAI client the service needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type EnhanceService struct {
	client chatCompleter
	model  string
}

type EnhanceResult struct {
	Enhanced     string `json:"enhanced"`
	UsedFallback bool   `json:"used_fallback"`
}

// StructuredStory is a voice transcription broken into story sections.
type StructuredStory struct {
	Title           string               `json:"title"`
	Category        models.StoryCategory `json:"category"`
	IsPositive      bool                 `json:"is_positive"`
	WhatHappened    string               `json:"what_happened"`
	WhatILearned    string               `json:"what_i_learned"`
	AdviceForOthers string               `json:"advice_for_others"`
	Tags            []string             `json:"tags"`
	UsedFallback    bool                 `json:"used_fallback"`
}

// NewEnhanceService builds the AI service from config. With no API key the
// client stays nil and every request takes the local fallback path.
func NewEnhanceService(cfg *config.Config) *EnhanceService {
	s := &EnhanceService{model: cfg.AIModel}
	if cfg.AIAPIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.AIAPIKey)
		if cfg.AIBaseURL != "" {
			clientCfg.BaseURL = cfg.AIBaseURL
		}
		s.client = openai.NewClientWithConfig(clientCfg)
	}
	return s
}

// NewEnhanceServiceWithClient is for tests.
func NewEnhanceServiceWithClient(client chatCompleter, model string) *EnhanceService {
	return &EnhanceService{client: client, model: model}
}

// Enhance rewrites text in the given mode via the chat-completion API,
// falling back to local rule-based fixes when no client is configured or the
// upstream call fails.
func (s *EnhanceService) Enhance(ctx context.Context, text string, mode EnhanceMode, field string) (*EnhanceResult, error) {
	if strings.TrimSpace(text) == "" || mode == "" {
		return nil, models.NewValidationError("Text and mode are required")
	}
	if !mode.Valid() {
		return nil, models.NewValidationError("Invalid enhancement mode")
	}

	if s.client == nil {
		observability.AIRequestsTotal.WithLabelValues(string(mode), "fallback").Inc()
		return &EnhanceResult{Enhanced: fallbackEnhance(text, mode), UsedFallback: true}, nil
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: enhancePrompt(text, mode, field)},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		observability.GlobalLogger.WarnContext(ctx, "enhancement upstream failed",
			"mode", string(mode), "error", err)
		observability.AIRequestsTotal.WithLabelValues(string(mode), "fallback").Inc()
		return &EnhanceResult{Enhanced: fallbackEnhance(text, mode), UsedFallback: true}, nil
	}

	observability.AIRequestsTotal.WithLabelValues(string(mode), "upstream").Inc()
	return &EnhanceResult{Enhanced: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

// StructureStory turns a voice transcription into the four story sections plus
// title, category and tags. The model is asked for strict JSON; when it is
// unavailable a sentence-split heuristic produces a usable draft instead.
func (s *EnhanceService) StructureStory(ctx context.Context, transcription string) (*StructuredStory, error) {
	if strings.TrimSpace(transcription) == "" {
		return nil, models.NewValidationError("No transcription provided")
	}

	if s.client == nil {
		observability.AIRequestsTotal.WithLabelValues("structure", "fallback").Inc()
		return fallbackStructure(transcription), nil
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: structurePrompt(transcription)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		observability.GlobalLogger.WarnContext(ctx, "story structuring upstream failed", "error", err)
		observability.AIRequestsTotal.WithLabelValues("structure", "fallback").Inc()
		return fallbackStructure(transcription), nil
	}

	structured, err := parseStructured(resp.Choices[0].Message.Content)
	if err != nil {
		observability.GlobalLogger.WarnContext(ctx, "story structuring returned bad JSON", "error", err)
		observability.AIRequestsTotal.WithLabelValues("structure", "fallback").Inc()
		return fallbackStructure(transcription), nil
	}

	observability.AIRequestsTotal.WithLabelValues("structure", "upstream").Inc()
	return structured, nil
}

func enhancePrompt(text string, mode EnhanceMode, field string) string {
	fieldContext := ""
	if field != "" {
		fieldContext = fmt.Sprintf("This is for the %q section of a personal experience story. ", field)
	}

	switch mode {
	case ModeGrammar:
		return fmt.Sprintf("Fix the grammar, spelling, and punctuation in the following text. Only fix errors, don't change the meaning or add new content. Return ONLY the corrected text, nothing else.\n\nText: %q", text)
	case ModeExpand:
		return fmt.Sprintf("Expand the following text to add more detail and depth while keeping the same voice and meaning. Add 1-2 more sentences that elaborate on the experience. %sReturn ONLY the expanded text, nothing else.\n\nText: %q", fieldContext, text)
	case ModeEngaging:
		return fmt.Sprintf("Make the following text more engaging and vivid by using stronger, more descriptive words. Keep the same meaning but make it more compelling to read. Don't add new content, just improve the word choices. Return ONLY the improved text, nothing else.\n\nText: %q", text)
	case ModeClarity:
		return fmt.Sprintf("Improve the clarity of the following text by removing filler words, simplifying complex sentences, and making it easier to understand. Keep the same meaning. Return ONLY the clarified text, nothing else.\n\nText: %q", text)
	default:
		return fmt.Sprintf("Improve the following text by:\n1. Fixing any grammar, spelling, or punctuation errors\n2. Making the language more engaging and vivid\n3. Removing filler words and improving clarity\n4. If the text is short (under 100 characters), add 1-2 sentences that expand on the experience\n\n%sKeep the same voice and meaning. Return ONLY the improved text, nothing else.\n\nText: %q", fieldContext, text)
	}
}

func structurePrompt(transcription string) string {
	return fmt.Sprintf(`You are an expert story editor. The user has shared their personal experience. Analyze the content and structure it into three sections:

1. "what_happened" - the actual events, situation, and context
2. "what_i_learned" - the insights or realizations (infer them when not explicitly stated)
3. "advice_for_others" - practical recommendations based on the experience

Also generate a short title (max 60 characters), the most relevant category (career, money, health, relationships, personal, or other), whether the experience was positive (is_positive), and 3-5 lowercase hyphenated tags.

Each section should be 2-4 complete sentences, written in first person, keeping the user's voice.

Here is the story:

---
%s
---

Return ONLY valid JSON with keys: title, category, is_positive, what_happened, what_i_learned, advice_for_others, tags.`, transcription)
}

func parseStructured(raw string) (*StructuredStory, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var structured StructuredStory
	if err := json.Unmarshal([]byte(cleaned), &structured); err != nil {
		return nil, err
	}
	if structured.WhatHappened == "" {
		return nil, fmt.Errorf("structured response missing what_happened")
	}
	structured.Category = normalizeCategory(structured.Category)
	return &structured, nil
}

// normalizeCategory maps loose model output onto the closed category enum.
func normalizeCategory(c models.StoryCategory) models.StoryCategory {
	switch models.StoryCategory(strings.ToLower(string(c))) {
	case "work", "job", models.CategoryCareer:
		return models.CategoryCareer
	case "finance", models.CategoryMoney:
		return models.CategoryMoney
	case models.CategoryHealth:
		return models.CategoryHealth
	case models.CategoryRelationships:
		return models.CategoryRelationships
	case "life", models.CategoryPersonal:
		return models.CategoryPersonal
	default:
		return models.CategoryOther
	}
}

var (
	loneIRe       = regexp.MustCompile(`\bi\b`)
	spacesRe      = regexp.MustCompile(`\s+`)
	sentenceRe    = regexp.MustCompile(`([.!?])\s*([a-z])`)
	contractionRe = regexp.MustCompile(`(?i)\b(dont|didnt|cant|wont)\b`)
	endsPunctRe   = regexp.MustCompile(`[.!?]$`)
)

var contractions = map[string]string{
	"dont": "don't", "didnt": "didn't", "cant": "can't", "wont": "won't",
}

// fixGrammar applies the rule-based cleanup: capitalize lone "i", collapse
// whitespace, sentence-case after terminal punctuation, fix the common
// missing-apostrophe contractions, and close with a period.
func fixGrammar(text string) string {
	fixed := loneIRe.ReplaceAllString(text, "I")
	fixed = spacesRe.ReplaceAllString(fixed, " ")
	fixed = sentenceRe.ReplaceAllStringFunc(fixed, func(m string) string {
		return m[:len(m)-1] + strings.ToUpper(m[len(m)-1:])
	})
	fixed = contractionRe.ReplaceAllStringFunc(fixed, func(m string) string {
		return contractions[strings.ToLower(m)]
	})
	fixed = strings.ReplaceAll(fixed, "alot", "a lot")
	if fixed != "" {
		first := fixed[:1]
		fixed = strings.ToUpper(first) + fixed[1:]
	}
	fixed = strings.TrimSpace(fixed)
	if fixed != "" && !endsPunctRe.MatchString(fixed) {
		fixed += "."
	}
	return fixed
}

var engagingWords = []struct{ from, to string }{
	{"good", "wonderful"},
	{"bad", "challenging"},
	{"very", "incredibly"},
	{"really", "truly"},
}

func makeEngaging(text string) string {
	out := text
	for _, w := range engagingWords {
		re := regexp.MustCompile(`(?i)\b` + w.from + `\b`)
		out = re.ReplaceAllString(out, w.to)
	}
	return out
}

func fallbackEnhance(text string, mode EnhanceMode) string {
	switch mode {
	case ModeGrammar:
		return fixGrammar(text)
	case ModeEngaging:
		return makeEngaging(fixGrammar(text))
	case ModeExpand:
		enhanced := fixGrammar(text)
		return enhanced + " This experience taught me valuable lessons that I carry with me."
	case ModeClarity:
		enhanced := fixGrammar(text)
		for _, filler := range []string{"basically", "actually"} {
			re := regexp.MustCompile(`(?i)\b` + filler + `\b`)
			enhanced = re.ReplaceAllString(enhanced, "")
		}
		return strings.TrimSpace(spacesRe.ReplaceAllString(enhanced, " "))
	default:
		enhanced := makeEngaging(fixGrammar(text))
		if len(enhanced) < 100 {
			enhanced += " Looking back, this moment was truly significant."
		}
		return enhanced
	}
}

var splitSentencesRe = regexp.MustCompile(`[^.!?]+[.!?]?`)

// fallbackStructure splits the transcription into rough thirds by sentence:
// the first part becomes the events, the middle the lessons, the rest the
// advice. Good enough to seed the form for manual editing.
func fallbackStructure(transcription string) *StructuredStory {
	cleaned := fixGrammar(transcription)
	sentences := splitSentencesRe.FindAllString(cleaned, -1)
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}

	join := func(parts []string) string { return strings.TrimSpace(strings.Join(parts, " ")) }

	structured := &StructuredStory{
		Category:     models.CategoryOther,
		UsedFallback: true,
	}

	switch {
	case len(sentences) <= 1:
		structured.WhatHappened = cleaned
	case len(sentences) == 2:
		structured.WhatHappened = sentences[0]
		structured.WhatILearned = sentences[1]
	default:
		third := len(sentences) / 3
		if third == 0 {
			third = 1
		}
		structured.WhatHappened = join(sentences[:len(sentences)-2*third])
		structured.WhatILearned = join(sentences[len(sentences)-2*third : len(sentences)-third])
		structured.AdviceForOthers = join(sentences[len(sentences)-third:])
	}

	title := structured.WhatHappened
	if len(title) > 60 {
		title = strings.TrimSpace(title[:57]) + "..."
	}
	structured.Title = title
	return structured
}
