// Package markdown renders blog post content as a templ component. It
// supports the subset of Markdown the editorial workflow actually uses:
// headings, paragraphs, lists, blockquotes, fenced code, and inline
// bold/italic/code/links/images.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reLink       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reImg        = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		Render(&buf, md)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Render writes the HTML representation of md to buf.
func Render(buf *bytes.Buffer, md string) {
	lines := strings.Split(md, "\n")
	inPara := false
	inList := false
	inQuote := false
	inCode := false

	closeBlocks := func() {
		if inPara {
			buf.WriteString("</p>")
			inPara = false
		}
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
		if inQuote {
			buf.WriteString("</blockquote>")
			inQuote = false
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				buf.WriteString("</code></pre>")
				inCode = false
			} else {
				closeBlocks()
				buf.WriteString("<pre><code>")
				inCode = true
			}
			continue
		}
		if inCode {
			buf.WriteString(html.EscapeString(line))
			buf.WriteString("\n")
			continue
		}

		switch {
		case trimmed == "":
			closeBlocks()
		case strings.HasPrefix(trimmed, "### "):
			closeBlocks()
			fmt.Fprintf(buf, "<h3>%s</h3>", renderInline(strings.TrimPrefix(trimmed, "### ")))
		case strings.HasPrefix(trimmed, "## "):
			closeBlocks()
			fmt.Fprintf(buf, "<h2>%s</h2>", renderInline(strings.TrimPrefix(trimmed, "## ")))
		case strings.HasPrefix(trimmed, "# "):
			closeBlocks()
			fmt.Fprintf(buf, "<h1>%s</h1>", renderInline(strings.TrimPrefix(trimmed, "# ")))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			if !inList {
				closeBlocks()
				buf.WriteString("<ul>")
				inList = true
			}
			fmt.Fprintf(buf, "<li>%s</li>", renderInline(trimmed[2:]))
		case strings.HasPrefix(trimmed, "> "):
			if !inQuote {
				closeBlocks()
				buf.WriteString("<blockquote>")
				inQuote = true
			}
			fmt.Fprintf(buf, "<p>%s</p>", renderInline(strings.TrimPrefix(trimmed, "> ")))
		default:
			if !inPara {
				closeBlocks()
				buf.WriteString("<p>")
				inPara = true
			} else {
				buf.WriteString(" ")
			}
			buf.WriteString(renderInline(trimmed))
		}
	}
	if inCode {
		buf.WriteString("</code></pre>")
	}
	closeBlocks()
}

// renderInline escapes text and applies inline markup. Images before links:
// the syntaxes overlap.
func renderInline(s string) string {
	s = html.EscapeString(s)
	s = reImg.ReplaceAllStringFunc(s, func(m string) string {
		parts := reImg.FindStringSubmatch(m)
		if !safeURL(parts[2]) {
			return parts[1]
		}
		return fmt.Sprintf(`<img src="%s" alt="%s">`, parts[2], parts[1])
	})
	s = reLink.ReplaceAllStringFunc(s, func(m string) string {
		parts := reLink.FindStringSubmatch(m)
		if !safeURL(parts[2]) {
			return parts[1]
		}
		return fmt.Sprintf(`<a href="%s">%s</a>`, parts[2], parts[1])
	})
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = reInlineCode.ReplaceAllString(s, "<code>$1</code>")
	return s
}

// safeURL rejects schemes other than http(s), relative paths included.
func safeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "" || u.Scheme == "http" || u.Scheme == "https"
}
