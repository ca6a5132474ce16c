package render

import (
	"strings"
	"unicode/utf8"

	"github.com/johnquangdev/mom-generator/pkg/markup"
)

type word []markup.Run

func (w word) length() int {
	n := 0
	for _, r := range w {
		n += utf8.RuneCountInString(r.Text)
	}
	return n
}

// split cuts a word after n runes
func (w word) split(n int) (head, tail word) {
	for i, r := range w {
		l := utf8.RuneCountInString(r.Text)
		if n >= l {
			head = append(head, r)
			n -= l
			continue
		}
		if n > 0 {
			runes := []rune(r.Text)
			head = append(head, markup.Run{Text: string(runes[:n]), Bold: r.Bold})
			tail = append(tail, markup.Run{Text: string(runes[n:]), Bold: r.Bold})
		} else {
			tail = append(tail, r)
		}
		tail = append(tail, w[i+1:]...)
		return head, tail
	}
	return head, nil
}

func splitWords(line markup.Line) []word {
	words := make([]word, 0)
	var cur word
	for _, r := range line {
		for i, part := range strings.Split(r.Text, " ") {
			if i > 0 && len(cur) > 0 {
				words = append(words, cur)
				cur = nil
			}
			if part != "" {
				cur = append(cur, markup.Run{Text: part, Bold: r.Bold})
			}
		}
	}
	if len(cur) > 0 {
		words = append(words, cur)
	}
	return words
}

func appendRun(l markup.Line, r markup.Run) markup.Line {
	if n := len(l); n > 0 && l[n-1].Bold == r.Bold {
		l[n-1].Text += r.Text
		return l
	}
	return append(l, r)
}

// wrapLine breaks a styled line into lines of at most width runes. Spaces
// between words collapse to one; words longer than width are hard broken.
func wrapLine(line markup.Line, width int) []markup.Line {
	if width < 1 {
		width = 1
	}

	words := splitWords(line)
	if len(words) == 0 {
		return []markup.Line{{}}
	}

	lines := make([]markup.Line, 0, 1)
	var cur markup.Line
	n := 0
	flush := func() {
		lines = append(lines, cur)
		cur = nil
		n = 0
	}

	for _, w := range words {
		for w.length() > width {
			if n > 0 {
				flush()
			}
			head, tail := w.split(width)
			for _, r := range head {
				cur = appendRun(cur, r)
			}
			flush()
			w = tail
		}
		l := w.length()
		if l == 0 {
			continue
		}
		if n > 0 && n+1+l > width {
			flush()
		}
		if n > 0 {
			cur = appendRun(cur, markup.Run{Text: " ", Bold: cur[len(cur)-1].Bold})
			n++
		}
		for _, r := range w {
			cur = appendRun(cur, r)
		}
		n += l
	}
	if len(cur) > 0 {
		flush()
	}
	return lines
}
