package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func renderString(md string) string {
	var buf bytes.Buffer
	Render(&buf, md)
	return buf.String()
}

func TestHeadings(t *testing.T) {
	got := renderString("# Title\n## Section\n### Sub")
	for _, want := range []string{"<h1>Title</h1>", "<h2>Section</h2>", "<h3>Sub</h3>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %s", want, got)
		}
	}
}

func TestParagraphJoinsLines(t *testing.T) {
	got := renderString("first line\nsecond line\n\nnew para")
	if !strings.Contains(got, "<p>first line second line</p>") {
		t.Errorf("expected joined paragraph, got %s", got)
	}
	if !strings.Contains(got, "<p>new para</p>") {
		t.Errorf("expected second paragraph, got %s", got)
	}
}

func TestList(t *testing.T) {
	got := renderString("- one\n- two")
	if !strings.Contains(got, "<ul><li>one</li><li>two</li></ul>") {
		t.Errorf("unexpected list output: %s", got)
	}
}

func TestCodeBlockEscapes(t *testing.T) {
	got := renderString("```\n<script>alert(1)</script>\n```")
	if strings.Contains(got, "<script>") {
		t.Errorf("code block not escaped: %s", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag: %s", got)
	}
}

func TestInlineMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*em*", "<em>em</em>"},
		{"`code`", "<code>code</code>"},
		{"[site](https://example.com)", `<a href="https://example.com">site</a>`},
	}
	for _, tt := range tests {
		got := renderString(tt.in)
		if !strings.Contains(got, tt.want) {
			t.Errorf("render(%q) = %s, want to contain %q", tt.in, got, tt.want)
		}
	}
}

func TestUnsafeLinkDropped(t *testing.T) {
	got := renderString("[x](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("unsafe scheme survived: %s", got)
	}
}

func TestBlockquote(t *testing.T) {
	got := renderString("> quoted")
	if !strings.Contains(got, "<blockquote><p>quoted</p></blockquote>") {
		t.Errorf("unexpected blockquote output: %s", got)
	}
}
