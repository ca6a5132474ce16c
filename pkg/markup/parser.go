// Package markup parses the restricted HTML subset used for structured
// meeting notes into styled text runs.
//
// Recognised tags: <br>, </p>, <ul>/<ol>, <li>, </li>, <b>/<strong>.
// Everything else is dropped while its inner text is kept.
package markup

import (
	"html"
	"strings"
)

// Placeholder is emitted for empty markup
const Placeholder = "—"

// Bullet prefixes list items
const Bullet = "• "

// Run is a contiguous piece of text with a single style
type Run struct {
	Text string `json:"text"`
	Bold bool   `json:"bold"`
}

// Line is one layout line made of styled runs
type Line []Run

// Text returns the visible text of the line
func (l Line) Text() string {
	var sb strings.Builder
	for _, r := range l {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

type state int

const (
	stateText state = iota
	stateInTag
)

type tokenizer struct {
	runs []Run
	buf  strings.Builder
	tag  strings.Builder
	bold bool
}

// Parse converts markup into styled runs. Adjacent runs with the same style
// are merged, so Parse(Serialize(Parse(m))) equals Parse(m).
func Parse(markup string) []Run {
	if markup == "" {
		return []Run{{Text: Placeholder}}
	}

	t := &tokenizer{}
	t.scan(markup)
	t.flush()

	if len(t.runs) == 0 {
		return []Run{{Text: Placeholder}}
	}
	return t.runs
}

func (t *tokenizer) scan(input string) {
	st := stateText
	for _, r := range input {
		switch st {
		case stateText:
			if r == '<' {
				st = stateInTag
				t.tag.Reset()
				continue
			}
			t.buf.WriteRune(r)
		case stateInTag:
			if r == '>' {
				st = stateText
				t.applyTag(t.tag.String())
				continue
			}
			t.tag.WriteRune(r)
		}
	}

	// Unterminated tag: drop the '<' and keep what followed it as text. No '>'
	// follows, so any later '<' is unterminated too.
	if st == stateInTag {
		t.buf.WriteString(strings.ReplaceAll(t.tag.String(), "<", ""))
		t.tag.Reset()
	}
}

func (t *tokenizer) applyTag(raw string) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.TrimSuffix(name, "/")
	if fields := strings.Fields(name); len(fields) > 0 {
		name = fields[0]
	}

	switch name {
	case "b", "strong":
		t.flush()
		t.bold = true
	case "/b", "/strong":
		t.flush()
		t.bold = false
	case "br":
		t.buf.WriteString("\n")
	case "/p":
		t.buf.WriteString("\n\n")
	case "li":
		t.buf.WriteString("\n" + Bullet)
	case "ul", "/ul", "ol", "/ol":
		t.buf.WriteString("\n")
	}
}

func (t *tokenizer) flush() {
	if t.buf.Len() == 0 {
		return
	}
	text := html.UnescapeString(t.buf.String())
	t.buf.Reset()

	if n := len(t.runs); n > 0 && t.runs[n-1].Bold == t.bold {
		t.runs[n-1].Text += text
		return
	}
	t.runs = append(t.runs, Run{Text: text, Bold: t.bold})
}

// Lines splits runs on embedded line breaks. Runs that share a visual line
// stay on the same Line regardless of style.
func Lines(runs []Run) []Line {
	lines := []Line{{}}
	for _, r := range runs {
		parts := strings.Split(r.Text, "\n")
		for i, p := range parts {
			if i > 0 {
				lines = append(lines, Line{})
			}
			if p == "" {
				continue
			}
			cur := &lines[len(lines)-1]
			*cur = append(*cur, Run{Text: p, Bold: r.Bold})
		}
	}
	return lines
}

// Serialize writes runs back as markup: bold runs are wrapped in <b> and
// newlines are kept literally.
func Serialize(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		if r.Bold {
			sb.WriteString("<b>")
			sb.WriteString(Escape(r.Text))
			sb.WriteString("</b>")
			continue
		}
		sb.WriteString(Escape(r.Text))
	}
	return sb.String()
}

// Escape makes free text safe to embed in markup
func Escape(s string) string {
	return html.EscapeString(s)
}

// PlainText returns the visible text of markup without styling
func PlainText(markup string) string {
	var sb strings.Builder
	for _, r := range Parse(markup) {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
