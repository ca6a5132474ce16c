package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/pkg/markup"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func longNotes(points int) string {
	var sb strings.Builder
	sb.WriteString("<b>Key Points:</b>")
	for i := 0; i < points; i++ {
		fmt.Fprintf(&sb, "<br/>• point number %d", i)
	}
	return sb.String()
}

func sampleInput(discussions int, pointsEach int) DocumentInput {
	in := DocumentInput{
		Identifier: "MOM_004",
		Meta: entities.MeetingMeta{
			ProjectName:   "Apollo",
			Date:          "2024-05-01",
			StartTime:     "10:00",
			EndTime:       "11:00",
			Venue:         "Room 4",
			AttendeeNames: []string{"Ann", "Bob"},
			PreparedBy:    "Carol",
		},
		ActionItems: []entities.StructuredActionItem{{Task: "Ship it", ResponsiblePerson: "Ann", Deadline: "2024-05-10"}},
		GeneratedOn: fixedNow,
	}
	for i := 0; i < discussions; i++ {
		in.Discussions = append(in.Discussions, entities.StructuredDiscussion{
			Topic:  fmt.Sprintf("Topic %d", i),
			Markup: longNotes(pointsEach),
		})
	}
	return in
}

func TestRenderFooterOnEveryPage(t *testing.T) {
	doc := RenderWithOptions(sampleInput(6, 8), Options{LinesPerPage: 20, CharsPerLine: 80})
	if len(doc.Pages) < 2 {
		t.Fatalf("expected several pages, got %d", len(doc.Pages))
	}
	for i, p := range doc.Pages {
		want := fmt.Sprintf("Page %d of %d", i+1, len(doc.Pages))
		if p.Footer.Right != want {
			t.Errorf("page %d footer = %q, want %q", i+1, p.Footer.Right, want)
		}
		if p.Footer.Left != "Generated on 2024-05-01 09:30" {
			t.Errorf("page %d footer left = %q", i+1, p.Footer.Left)
		}
		if p.Used > 20-FooterLines {
			t.Errorf("page %d overflows: used %d", i+1, p.Used)
		}
	}
}

func TestRenderRepeatsHeaderAndKeepsRowsWhole(t *testing.T) {
	in := sampleInput(6, 8)
	doc := RenderWithOptions(in, Options{LinesPerPage: 20, CharsPerLine: 80})

	seen := make(map[int]int)
	for pi, p := range doc.Pages {
		headerSeen := false
		for _, b := range p.Blocks {
			if b.Kind == BlockTableHeader && b.Table == TableDiscussions {
				headerSeen = true
			}
			if b.Kind == BlockRow && b.Row.Table == TableDiscussions {
				if !headerSeen {
					t.Fatalf("page %d has discussion rows without a header", pi+1)
				}
				if b.Row.Clipped {
					t.Fatalf("row %d should not need clipping", b.Row.Index)
				}
				seen[b.Row.Index]++
			}
		}
	}
	for i := range in.Discussions {
		if seen[i] != 1 {
			t.Errorf("discussion %d placed %d times", i, seen[i])
		}
	}
}

func TestRenderClipsRowTallerThanPage(t *testing.T) {
	in := sampleInput(2, 3)
	in.Discussions = append(in.Discussions[:1], entities.StructuredDiscussion{Topic: "Huge", Markup: longNotes(60)})
	doc := RenderWithOptions(in, Options{LinesPerPage: 20, CharsPerLine: 80})

	found := false
	for _, p := range doc.Pages {
		for i, b := range p.Blocks {
			if b.Kind != BlockRow || b.Row.Table != TableDiscussions || b.Row.Index != 1 {
				continue
			}
			found = true
			if !b.Row.Clipped {
				t.Fatalf("oversized row should be clipped")
			}
			if i != 1 || p.Blocks[0].Kind != BlockTableHeader {
				t.Fatalf("oversized row should sit alone under the header, blocks=%d", len(p.Blocks))
			}
			if p.Used != 20-FooterLines {
				t.Fatalf("clipped row should fill the page, used %d", p.Used)
			}
		}
	}
	if !found {
		t.Fatal("oversized row not placed")
	}
}

func TestRenderInfoRows(t *testing.T) {
	in := sampleInput(1, 1)
	in.Meta.Venue = ""
	text := strings.Join(Render(in).PlainText()[0], "\n")

	for _, want := range []string{Title, "MOM_004", "Project | Apollo", "Date/Time | 2024-05-01, 10:00 - 11:00", "Venue | —", "Attendees | Ann, Bob", "Prepared By | Carol"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in\n%s", want, text)
		}
	}
	if strings.Contains(text, "External") {
		t.Errorf("external row should be omitted when empty")
	}

	in.Meta.ExternalAttendees = "Dan, Eve"
	text = strings.Join(Render(in).PlainText()[0], "\n")
	if !strings.Contains(text, "External | Dan, Eve") {
		t.Errorf("external row missing in\n%s", text)
	}
}

func TestRenderCommentsSection(t *testing.T) {
	in := sampleInput(1, 1)
	text := strings.Join(Render(in).PlainText()[0], "\n")
	if strings.Contains(text, "Comments / Notes") {
		t.Fatalf("comments section should be omitted without comments")
	}

	in.Comments = []entities.Comment{{Text: "looks good"}, {Author: "Ann", Text: "ship it"}}
	text = strings.Join(Render(in).PlainText()[0], "\n")
	for _, want := range []string{"Comments / Notes", "Unknown: looks good", "Ann: ship it"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in\n%s", want, text)
		}
	}
}

func TestRenderFallsBackToRawTextWhenParsingFails(t *testing.T) {
	orig := parse
	parse = func(string) []markup.Run { panic("broken markup") }
	defer func() { parse = orig }()

	in := sampleInput(0, 0)
	in.Discussions = []entities.StructuredDiscussion{{Topic: "T", Markup: "<b>raw</b> text"}}
	doc := Render(in)

	var row *Row
	for _, b := range doc.Pages[0].Blocks {
		if b.Kind == BlockRow && b.Row.Table == TableDiscussions {
			row = b.Row
		}
	}
	if row == nil {
		t.Fatal("discussion row missing")
	}
	cell := row.Cells[1].Lines[0]
	if cell.Text() != "<b>raw</b> text" || cell[0].Bold {
		t.Fatalf("expected unstyled raw text, got %#v", cell)
	}
}

func TestEditableViewPaths(t *testing.T) {
	view := Render(sampleInput(2, 1)).EditableView()
	if view.Discussions[1].Notes.Path != "discussions[1].markup" {
		t.Errorf("unexpected path %q", view.Discussions[1].Notes.Path)
	}
	if view.ActionItems[0].Task.Path != "actionItems[0].task" {
		t.Errorf("unexpected path %q", view.ActionItems[0].Task.Path)
	}
	if view.PageCount != len(view.Pages) || view.PageCount == 0 {
		t.Errorf("page count mismatch")
	}
}

func TestWrapLine(t *testing.T) {
	line := markup.Line{{Text: "Summary:", Bold: true}, {Text: " the quick brown fox jumps over the lazy dog"}}
	lines := wrapLine(line, 12)

	var words []string
	for _, l := range lines {
		if n := len([]rune(l.Text())); n > 12 {
			t.Errorf("line %q longer than width", l.Text())
		}
		words = append(words, strings.Fields(l.Text())...)
	}
	if strings.Join(words, " ") != "Summary: the quick brown fox jumps over the lazy dog" {
		t.Fatalf("wrapping lost text: %q", words)
	}
	if !lines[0][0].Bold {
		t.Fatalf("bold style lost: %#v", lines[0])
	}
}

func TestWrapLineBreaksLongWords(t *testing.T) {
	lines := wrapLine(markup.Line{{Text: "abcdefghij"}}, 4)
	got := make([]string, 0, len(lines))
	for _, l := range lines {
		got = append(got, l.Text())
	}
	if strings.Join(got, "|") != "abcd|efgh|ij" {
		t.Fatalf("unexpected split %q", got)
	}
}
