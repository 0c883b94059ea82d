// Package report exports the advice history as Markdown or HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/yuin/goldmark"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "md", "markdown" and "html".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "md", "markdown", "":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

const timeLayout = "2006-01-02 15:04"

// Markdown renders messages in the given order. Prompts go into fenced
// blocks so their section markers are not read as markup.
func Markdown(title string, msgs []models.AdviceMessage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(msgs) == 0 {
		b.WriteString("_No advice yet._\n")
		return b.String()
	}

	for _, m := range msgs {
		fmt.Fprintf(&b, "## %s · %s · %s\n\n", m.CreatedAt.Format(timeLayout), m.Persona, m.Trigger)
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(m.Response, "\n", "\n> "))
		b.WriteString("**Prompt**\n\n```text\n")
		b.WriteString(m.Prompt)
		b.WriteString("\n```\n\n")
	}
	return b.String()
}

// HTML converts the Markdown rendering with goldmark.
func HTML(title string, msgs []models.AdviceMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(title, msgs)), &buf); err != nil {
		return nil, fmt.Errorf("render history html: %w", err)
	}
	return buf.Bytes(), nil
}

// Render dispatches on f.
func Render(f Format, title string, msgs []models.AdviceMessage) ([]byte, error) {
	switch f {
	case FormatHTML:
		return HTML(title, msgs)
	case FormatMarkdown:
		return []byte(Markdown(title, msgs)), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}
