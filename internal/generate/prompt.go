package generate

import "fmt"

// Directive sets are fixed templates parameterized only by the source URL.
// They pin the length window, the HTML markup the normalizer expects, the
// mandatory backlink and the heading prohibitions.

const headingDirectives = `Escribe un artículo original en español de entre 600 y 1500 palabras basado en la noticia publicada en %[1]s.

Requisitos obligatorios:
- Comienza con una etiqueta <h1> que contenga el título del artículo.
- Usa HTML semántico: <h2> y <h3> para las secciones, <p> para los párrafos, <ul>/<li> para las listas y <strong> para los términos clave.
- Incluye en el cuerpo un enlace a la fuente original: <a href="%[1]s">fuente</a>.
- No uses encabezados literales equivalentes a "introducción" ni "conclusión".
- No copies frases de la fuente; redacta con tus propias palabras.

Responde únicamente con el HTML del artículo, sin comentarios adicionales.`

const structuredDirectives = `Escribe un artículo original en español de entre 600 y 1500 palabras basado en la noticia publicada en %[1]s.

Requisitos obligatorios:
- Usa HTML semántico en el contenido: <h2> y <h3> para las secciones, <p> para los párrafos, <ul>/<li> para las listas y <strong> para los términos clave.
- Incluye en el contenido un enlace a la fuente original: <a href="%[1]s">fuente</a>.
- No uses encabezados literales equivalentes a "introducción" ni "conclusión".
- No copies frases de la fuente; redacta con tus propias palabras.

Responde únicamente con un objeto JSON válido con exactamente dos campos:
{"title": "el título del artículo", "content": "el HTML del artículo"}`

// articlePrompt renders the directive template for the given source URL.
func articlePrompt(sourceURL string, structured bool) string {
	if structured {
		return fmt.Sprintf(structuredDirectives, sourceURL)
	}
	return fmt.Sprintf(headingDirectives, sourceURL)
}
