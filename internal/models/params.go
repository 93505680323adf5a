package models

import (
	"fmt"
	"strings"
)

// Response styles understood by the backend prompt templates
const (
	StyleConcise  = "concise"
	StyleDetailed = "detailed"
	StyleFormal   = "formal"
)

var ResponseStyles = []string{StyleConcise, StyleDetailed, StyleFormal}

// GenerationParameters are the knobs the host hands to every turn.
// The turn machinery only forwards them; it never changes them.
type GenerationParameters struct {
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	UseDocs        bool    `yaml:"use_docs"`
	ResponseStyle  string  `yaml:"response_style"`
	SemanticWeight float64 `yaml:"semantic_weight"` // alpha
	SystemPrompt   string  `yaml:"system_prompt"`
	Model          string  `yaml:"model"`
	TopK           int     `yaml:"top_k"`
}

const DefaultSystemPrompt = "Bạn là trợ lý AI chuyên về pháp luật Việt Nam. " +
	"Hãy trả lời chính xác, dẫn chiếu điều khoản cụ thể và nêu rõ nguồn văn bản."

func DefaultGenerationParameters() GenerationParameters {
	return GenerationParameters{
		Temperature:    0.7,
		MaxTokens:      2048,
		UseDocs:        true,
		ResponseStyle:  StyleDetailed,
		SemanticWeight: 0.5,
		SystemPrompt:   DefaultSystemPrompt,
		Model:          "gpt-4o-mini",
		TopK:           5,
	}
}

func (p GenerationParameters) Validate() error {
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", p.Temperature)
	}
	if p.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", p.MaxTokens)
	}
	if p.TopK < 1 || p.TopK > 100 {
		return fmt.Errorf("top_k must be between 1 and 100, got %d", p.TopK)
	}
	if p.SemanticWeight < 0 || p.SemanticWeight > 1 {
		return fmt.Errorf("semantic_weight must be between 0.0 and 1.0, got %g", p.SemanticWeight)
	}
	if strings.TrimSpace(p.Model) == "" {
		return fmt.Errorf("model must not be empty")
	}
	if !IsResponseStyle(p.ResponseStyle) {
		return fmt.Errorf("response_style must be one of %s, got %q", strings.Join(ResponseStyles, ", "), p.ResponseStyle)
	}
	return nil
}

func IsResponseStyle(style string) bool {
	for _, s := range ResponseStyles {
		if s == style {
			return true
		}
	}
	return false
}

// NextResponseStyle cycles through ResponseStyles, used by the settings form
func NextResponseStyle(style string) string {
	for i, s := range ResponseStyles {
		if s == style {
			return ResponseStyles[(i+1)%len(ResponseStyles)]
		}
	}
	return ResponseStyles[0]
}
