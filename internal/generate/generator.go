// Package generate turns source items into article drafts through the Gemini
// text-generation API.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
	"github.com/dileroc6/bigotesfelinos/internal/logger"
)

// FallbackKeyword is returned when keyword derivation fails for a title.
const FallbackKeyword = "perro"

// Generator wraps a Gemini client with the fixed article prompt.
type Generator struct {
	client     *genai.Client
	model      string
	structured bool
	log        logger.Logger
}

// NewGenerator builds a Generator. structured asks the model for a strict
// {title, content} JSON record instead of a heading-embedded body.
func NewGenerator(ctx context.Context, apiKey, model string, structured bool, log logger.Logger) (*Generator, error) {
	if log == nil {
		log = logger.NopLogger{}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Generator{client: client, model: model, structured: structured, log: log}, nil
}

// Close releases the underlying client.
func (g *Generator) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

// Generate produces one article draft for the given source item. A transport
// failure or an empty completion is a domain.GenerationError; a structured
// response that fails to parse is reported as a Malformed article, not an
// error.
func (g *Generator) Generate(ctx context.Context, item domain.SourceItem) (domain.GeneratedArticle, error) {
	model := g.client.GenerativeModel(g.model)

	resp, err := model.GenerateContent(ctx, genai.Text(articlePrompt(item.URL, g.structured)))
	if err != nil {
		return domain.GeneratedArticle{}, &domain.GenerationError{SourceID: item.ID, Err: err}
	}

	raw := responseText(resp)
	if raw == "" {
		return domain.GeneratedArticle{}, &domain.GenerationError{SourceID: item.ID, Err: fmt.Errorf("empty completion")}
	}

	if !g.structured {
		return domain.GeneratedArticle{Kind: domain.HeadingEmbedded, RawText: raw}, nil
	}

	article, ok := parseStructured(raw)
	if !ok {
		g.log.WarnObj("structured completion did not parse", "generation_malformed", map[string]any{
			"source_id": item.ID,
		})
		return domain.GeneratedArticle{Kind: domain.Malformed, RawText: raw}, nil
	}
	return article, nil
}

// DeriveKeyword asks the model for one image-search term for the title. It
// never fails: any error or unusable completion yields FallbackKeyword.
func (g *Generator) DeriveKeyword(ctx context.Context, title string) string {
	model := g.client.GenerativeModel(g.model)

	prompt := fmt.Sprintf(
		"Basado en el siguiente título de una noticia sobre perros, responde con una sola palabra clave"+
			" relevante para buscar una imagen, sin puntuación ni explicaciones: %s", title)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.log.WarnObj("keyword derivation failed, using fallback", "keyword_fallback", map[string]any{
			"title": title,
			"error": err.Error(),
		})
		return FallbackKeyword
	}

	keyword := firstWord(responseText(resp))
	if keyword == "" {
		return FallbackKeyword
	}
	return keyword
}

// structuredPayload is the strict two-field record the structured strategy
// demands.
type structuredPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// parseStructured decodes a strict {title, content} JSON completion,
// tolerating a markdown code fence around the payload.
func parseStructured(raw string) (domain.GeneratedArticle, bool) {
	var payload structuredPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return domain.GeneratedArticle{}, false
	}
	if strings.TrimSpace(payload.Title) == "" || strings.TrimSpace(payload.Content) == "" {
		return domain.GeneratedArticle{}, false
	}

	return domain.GeneratedArticle{
		Kind:    domain.Structured,
		RawText: raw,
		Title:   payload.Title,
		Content: payload.Content,
	}, true
}

// stripCodeFence removes a surrounding ```json ... ``` fence if present.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}

// firstWord returns the first whitespace-delimited word, lowercased and
// stripped of surrounding punctuation.
func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	word := strings.ToLower(strings.Trim(fields[0], `.,;:"'!¡?¿()`))
	return word
}
