package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
)

func TestSentenceCaseHeadings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases shouting heading",
			in:   "<h2>RAZAS DE PERROS GRANDES</h2><p>Texto</p>",
			want: "<h2>Razas de perros grandes</h2><p>Texto</p>",
		},
		{
			name: "uppercases first letter",
			in:   "<h3>cuidados del cachorro</h3>",
			want: "<h3>Cuidados del cachorro</h3>",
		},
		{
			name: "keeps nested markup",
			in:   "<h2>PERROS <strong>GIGANTES</strong> HOY</h2>",
			want: "<h2>Perros <strong>gigantes</strong> hoy</h2>",
		},
		{
			name: "non-heading content untouched",
			in:   "<p>TODO EN MAYÚSCULAS</p>",
			want: "<p>TODO EN MAYÚSCULAS</p>",
		},
		{
			name: "h4 untouched",
			in:   "<h4>NOTA FINAL</h4>",
			want: "<h4>NOTA FINAL</h4>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SentenceCaseHeadings(tt.in))
		})
	}
}

func TestSentenceCaseHeadingsIdempotent(t *testing.T) {
	inputs := []string{
		"<h1>MI TÍTULO</h1><p>cuerpo</p>",
		"<h2>Ya Está Bien</h2><h3>otra SECCIÓN</h3>",
		"<h2>¿QUÉ COME UN GALGO?</h2>",
	}

	for _, in := range inputs {
		once := SentenceCaseHeadings(in)
		twice := SentenceCaseHeadings(once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestStripBannedHeadings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "removes exact banned label",
			in:   "<h2>Introducción</h2><p>Texto que se queda</p>",
			want: "<p>Texto que se queda</p>",
		},
		{
			name: "case insensitive",
			in:   "<h2>CONCLUSIÓN</h2><p>Cierre</p>",
			want: "<p>Cierre</p>",
		},
		{
			name: "trims surrounding whitespace",
			in:   "<h3>  introducción  </h3><p>Sigue</p>",
			want: "<p>Sigue</p>",
		},
		{
			name: "keeps other headings",
			in:   "<h2>Historia del galgo</h2><p>Texto</p>",
			want: "<h2>Historia del galgo</h2><p>Texto</p>",
		},
		{
			name: "partial match is not removed",
			in:   "<h2>Introducción al agility</h2>",
			want: "<h2>Introducción al agility</h2>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripBannedHeadings(tt.in, DefaultBannedHeadings))
		})
	}
}

func TestResolveHeadingEmbeddedRoundTrip(t *testing.T) {
	title := "Los perros de agua y sus cuidados"
	body := "<p>cuerpo del artículo</p><h2>Una sección</h2><p>más texto</p>"

	n := New(false, nil)
	article := n.Resolve(domain.GeneratedArticle{
		Kind:    domain.HeadingEmbedded,
		RawText: "<h1>" + title + "</h1>" + body,
	})

	assert.Equal(t, title, article.Title)
	assert.Equal(t, body, article.BodyHTML)
	assert.NotContains(t, article.BodyHTML, "<h1")
}

func TestResolveMixedCaseHeadingTag(t *testing.T) {
	// Tag case differences come straight from the model; the parser must
	// treat <h1>...</H1> as one element.
	n := New(false, nil)
	article := n.Resolve(domain.GeneratedArticle{
		Kind:    domain.HeadingEmbedded,
		RawText: "<h1>Mi Título</H1><h2>SECCIÓN UNO</h2><p>texto</p>",
	})

	assert.Equal(t, "Mi Título", article.Title)
	assert.NotContains(t, article.BodyHTML, "h1")
	assert.Contains(t, article.BodyHTML, "<h2>Sección uno</h2>")
}

func TestResolveTitleIsNotSentenceCased(t *testing.T) {
	n := New(false, nil)
	article := n.Resolve(domain.GeneratedArticle{
		Kind:    domain.HeadingEmbedded,
		RawText: "<h1>ADOPTAR UN GALGO</h1><p>texto</p>",
	})

	// Case rules apply to the body only, never to the extracted title.
	assert.Equal(t, "ADOPTAR UN GALGO", article.Title)
}

func TestResolveStructured(t *testing.T) {
	n := New(true, nil)
	article := n.Resolve(domain.GeneratedArticle{
		Kind:    domain.Structured,
		Title:   "  Un título  ",
		Content: "<p>contenido</p>",
	})

	assert.Equal(t, "Un título", article.Title)
	assert.Equal(t, "<p>contenido</p>", article.BodyHTML)
}

func TestResolveMalformedFallsBackToPlaceholder(t *testing.T) {
	raw := "esto no es JSON ni tiene encabezado"

	for _, structured := range []bool{true, false} {
		n := New(structured, nil)
		article := n.Resolve(domain.GeneratedArticle{Kind: domain.Malformed, RawText: raw})

		assert.Equal(t, PlaceholderTitle, article.Title)
		assert.Equal(t, raw, article.BodyHTML)
	}
}

func TestResolveHeadingMissingUsesPlaceholder(t *testing.T) {
	n := New(false, nil)
	article := n.Resolve(domain.GeneratedArticle{
		Kind:    domain.HeadingEmbedded,
		RawText: "<p>un artículo sin encabezado</p>",
	})

	assert.Equal(t, PlaceholderTitle, article.Title)
	assert.Contains(t, article.BodyHTML, "un artículo sin encabezado")
}

func TestResolveStripsBannedFromBody(t *testing.T) {
	n := New(false, nil)
	article := n.Resolve(domain.GeneratedArticle{
		Kind: domain.HeadingEmbedded,
		RawText: "<h1>Título</h1><h2>Introducción</h2><p>arranque</p>" +
			"<h2>DESARROLLO</h2><p>texto</p><h2>Conclusión</h2><p>cierre</p>",
	})

	require.Equal(t, "Título", article.Title)
	assert.NotContains(t, article.BodyHTML, "Introducción")
	assert.NotContains(t, article.BodyHTML, "Conclusión")
	// Section content survives; only the heading elements go.
	assert.Contains(t, article.BodyHTML, "<p>arranque</p>")
	assert.Contains(t, article.BodyHTML, "<p>cierre</p>")
	assert.Contains(t, article.BodyHTML, "<h2>Desarrollo</h2>")
}

func TestStripBannedHeadingsEmptyBannedList(t *testing.T) {
	in := "<h2>Introducción</h2>"
	assert.Equal(t, in, StripBannedHeadings(in, nil))
}

func TestNewDefaultsBannedList(t *testing.T) {
	n := New(false, nil)
	assert.Equal(t, DefaultBannedHeadings, n.banned)
	assert.True(t, strings.EqualFold("INTRODUCCIÓN", DefaultBannedHeadings[0]))
}
