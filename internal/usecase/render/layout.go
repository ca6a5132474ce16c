// Package render lays out a meeting record as a fixed-size paginated
// document. The same layout backs the editable view and the static exports.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/pkg/markup"
)

const (
	Title = "Minutes of Meeting"

	DefaultLinesPerPage = 50
	DefaultCharsPerLine = 96

	// Lines reserved at the bottom of every page for the footer
	FooterLines = 2
)

// Options sizes the page grid
type Options struct {
	LinesPerPage int
	CharsPerLine int
}

// DefaultOptions approximates an A4 page in 9pt text
func DefaultOptions() Options {
	return Options{LinesPerPage: DefaultLinesPerPage, CharsPerLine: DefaultCharsPerLine}
}

func (o Options) capacity() int {
	return o.LinesPerPage - FooterLines
}

// TableID names the tables of the document
type TableID string

const (
	TableInfo        TableID = "info"
	TableDiscussions TableID = "discussions"
	TableActionItems TableID = "actionItems"
)

// Column is a table column with its share of the page width
type Column struct {
	Title string  `json:"title"`
	Width float64 `json:"width"`
}

var (
	InfoColumns       = []Column{{Title: "", Width: 0.25}, {Title: "", Width: 0.75}}
	DiscussionColumns = []Column{{Title: "Topic", Width: 0.30}, {Title: "Remark/Comments/Notes", Width: 0.70}}
	ActionColumns     = []Column{{Title: "Task", Width: 0.50}, {Title: "Responsible Person", Width: 0.30}, {Title: "Deadline", Width: 0.20}}
)

// Cell holds the wrapped lines of one table cell
type Cell struct {
	Lines []markup.Line `json:"lines"`
}

// Row is a table row. Rows are never split across pages; a row taller than
// a page is cut at the page end and flagged Clipped.
type Row struct {
	Table   TableID `json:"table"`
	Index   int     `json:"index"`
	Cells   []Cell  `json:"cells"`
	Height  int     `json:"height"`
	Clipped bool    `json:"clipped,omitempty"`
}

// BlockKind is the type of a positioned block
type BlockKind string

const (
	BlockTitle       BlockKind = "title"
	BlockSection     BlockKind = "section"
	BlockTableHeader BlockKind = "table_header"
	BlockRow         BlockKind = "row"
	BlockText        BlockKind = "text"
	BlockSpacer      BlockKind = "spacer"
)

// Block is a unit of content placed on a page
type Block struct {
	Kind    BlockKind     `json:"kind"`
	Text    string        `json:"text,omitempty"`
	Table   TableID       `json:"table,omitempty"`
	Columns []Column      `json:"columns,omitempty"`
	Row     *Row          `json:"row,omitempty"`
	Lines   []markup.Line `json:"lines,omitempty"`
	Height  int           `json:"height"`
}

// Footer is printed at the bottom of every page
type Footer struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Page is one fixed-size page
type Page struct {
	Number int     `json:"number"`
	Blocks []Block `json:"blocks"`
	Used   int     `json:"used"`
	Footer Footer  `json:"footer"`
}

// DocumentInput is everything the renderer needs from a record
type DocumentInput struct {
	Identifier  string
	Meta        entities.MeetingMeta
	Discussions []entities.StructuredDiscussion
	ActionItems []entities.StructuredActionItem
	Comments    []entities.Comment
	GeneratedOn time.Time
}

// InputFromRecord builds renderer input from a meeting record
func InputFromRecord(r *entities.MeetingRecord, now time.Time) DocumentInput {
	return DocumentInput{
		Identifier:  r.IdentifierOrEmpty(),
		Meta:        r.Meta,
		Discussions: r.StructuredDiscussions,
		ActionItems: r.StructuredActionItems,
		Comments:    r.Comments,
		GeneratedOn: now,
	}
}

// Document is the laid out result of Render
type Document struct {
	Title      string  `json:"title"`
	Identifier string  `json:"identifier"`
	Options    Options `json:"-"`
	Pages      []Page  `json:"pages"`

	input DocumentInput
}

// Render lays out the input on pages of the default size
func Render(in DocumentInput) *Document {
	return RenderWithOptions(in, DefaultOptions())
}

// RenderWithOptions lays out the input on pages of the given size
func RenderWithOptions(in DocumentInput, opts Options) *Document {
	if opts.LinesPerPage <= FooterLines+2 {
		opts.LinesPerPage = DefaultLinesPerPage
	}
	if opts.CharsPerLine <= 10 {
		opts.CharsPerLine = DefaultCharsPerLine
	}
	if in.GeneratedOn.IsZero() {
		in.GeneratedOn = time.Now()
	}

	p := newPaginator(opts)
	for _, item := range buildFlow(in, opts) {
		p.place(item)
	}

	pages := p.finish()
	generated := "Generated on " + in.GeneratedOn.Format("2006-01-02 15:04")
	for i := range pages {
		pages[i].Number = i + 1
		pages[i].Footer = Footer{
			Left:  generated,
			Right: fmt.Sprintf("Page %d of %d", i+1, len(pages)),
		}
	}

	return &Document{
		Title:      Title,
		Identifier: in.Identifier,
		Options:    opts,
		Pages:      pages,
		input:      in,
	}
}

// flowItem is a block plus the pagination hints that apply to it
type flowItem struct {
	block Block
	// keepWith is the height that must fit together with this block
	keepWith int
	// startsTable sets the header repeated on following pages
	startsTable bool
	endsTable   bool
}

func buildFlow(in DocumentInput, opts Options) []flowItem {
	flow := make([]flowItem, 0, 16)

	identifier := in.Identifier
	if identifier == "" {
		identifier = "(unsaved)"
	}
	flow = append(flow, flowItem{block: Block{
		Kind:   BlockTitle,
		Text:   Title,
		Lines:  []markup.Line{{{Text: identifier}}},
		Height: 2,
	}})
	flow = append(flow, spacer())

	for i, r := range infoRows(in.Meta, opts) {
		r.Index = i
		row := r
		flow = append(flow, flowItem{block: Block{Kind: BlockRow, Table: TableInfo, Columns: InfoColumns, Row: &row, Height: row.Height}})
	}

	discussions := discussionRows(in.Discussions, opts)
	flow = append(flow, spacer())
	flow = append(flow, tableFlow("Discussion:", TableDiscussions, DiscussionColumns, discussions)...)

	actions := actionRows(in.ActionItems, opts)
	flow = append(flow, spacer())
	flow = append(flow, tableFlow("Next Action Plan:", TableActionItems, ActionColumns, actions)...)

	if len(in.Comments) > 0 {
		flow = append(flow, spacer())
		flow = append(flow, flowItem{block: Block{Kind: BlockSection, Text: "Comments / Notes", Height: 1}, keepWith: 1})
		for _, c := range in.Comments {
			author := strings.TrimSpace(c.Author)
			if author == "" {
				author = "Unknown"
			}
			parts := strings.Split(c.Text, "\n")
			lines := wrapLine(markup.Line{{Text: author + ":", Bold: true}, {Text: " " + parts[0]}}, opts.CharsPerLine)
			for _, part := range parts[1:] {
				lines = append(lines, wrapLine(markup.Line{{Text: part}}, opts.CharsPerLine)...)
			}
			flow = append(flow, flowItem{block: Block{Kind: BlockText, Lines: lines, Height: len(lines)}})
		}
	}
	return flow
}

func spacer() flowItem {
	return flowItem{block: Block{Kind: BlockSpacer, Height: 1}}
}

func tableFlow(title string, table TableID, cols []Column, rows []Row) []flowItem {
	first := 1
	if len(rows) > 0 {
		first = rows[0].Height
	}
	out := []flowItem{
		{block: Block{Kind: BlockSection, Text: title, Height: 1}, keepWith: 1 + first},
		{block: Block{Kind: BlockTableHeader, Table: table, Columns: cols, Height: 1}, startsTable: true},
	}
	for i := range rows {
		row := rows[i]
		out = append(out, flowItem{block: Block{Kind: BlockRow, Table: table, Columns: cols, Row: &row, Height: row.Height}})
	}
	out[len(out)-1].endsTable = true
	return out
}

func infoRows(m entities.MeetingMeta, opts Options) []Row {
	type field struct{ label, value string }
	fields := []field{
		{"Project", m.ProjectName},
		{"Date/Time", dateTime(m)},
		{"Venue", m.Venue},
		{"Attendees", attendees(m)},
	}
	if ext := strings.Join(m.ExternalAttendeeList(), ", "); ext != "" {
		fields = append(fields, field{"External", ext})
	}
	fields = append(fields, field{"Prepared By", m.PreparedBy})

	rows := make([]Row, 0, len(fields))
	for _, f := range fields {
		value := strings.TrimSpace(f.value)
		if value == "" {
			value = markup.Placeholder
		}
		rows = append(rows, newRow(TableInfo, InfoColumns, opts,
			markup.Line{{Text: f.label, Bold: true}},
			plainCell(value),
		))
	}
	return rows
}

func dateTime(m entities.MeetingMeta) string {
	parts := make([]string, 0, 2)
	if m.Date != "" {
		parts = append(parts, m.Date)
	}
	switch {
	case m.StartTime != "" && m.EndTime != "":
		parts = append(parts, m.StartTime+" - "+m.EndTime)
	case m.StartTime != "":
		parts = append(parts, m.StartTime)
	}
	return strings.Join(parts, ", ")
}

func attendees(m entities.MeetingMeta) string {
	if len(m.AttendeeNames) > 0 {
		return strings.Join(m.AttendeeNames, ", ")
	}
	return strings.Join(m.Attendees, ", ")
}

func discussionRows(ds []entities.StructuredDiscussion, opts Options) []Row {
	if len(ds) == 0 {
		return []Row{newRow(TableDiscussions, DiscussionColumns, opts, plainCell(markup.Placeholder), plainCell(markup.Placeholder))}
	}
	rows := make([]Row, 0, len(ds))
	for i, d := range ds {
		r := newRowLines(TableDiscussions, DiscussionColumns, opts,
			[]markup.Line{{{Text: orPlaceholder(d.Topic)}}},
			markupLines(d.Markup),
		)
		r.Index = i
		rows = append(rows, r)
	}
	return rows
}

func actionRows(items []entities.StructuredActionItem, opts Options) []Row {
	if len(items) == 0 {
		return []Row{newRow(TableActionItems, ActionColumns, opts,
			plainCell(markup.Placeholder), plainCell(markup.Placeholder), plainCell(markup.Placeholder))}
	}
	rows := make([]Row, 0, len(items))
	for i, a := range items {
		r := newRow(TableActionItems, ActionColumns, opts,
			plainCell(orPlaceholder(a.Task)),
			plainCell(orPlaceholder(a.ResponsiblePerson)),
			plainCell(orPlaceholder(a.Deadline)),
		)
		r.Index = i
		rows = append(rows, r)
	}
	return rows
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return markup.Placeholder
	}
	return s
}

func plainCell(s string) markup.Line {
	return markup.Line{{Text: s}}
}

func newRow(table TableID, cols []Column, opts Options, cells ...markup.Line) Row {
	lines := make([][]markup.Line, 0, len(cells))
	for _, c := range cells {
		split := make([]markup.Line, 0)
		for _, part := range strings.Split(c.Text(), "\n") {
			split = append(split, restyle(c, part))
		}
		lines = append(lines, split)
	}
	return newRowLines(table, cols, opts, lines...)
}

// restyle keeps the style of a single-run line for a split part
func restyle(c markup.Line, part string) markup.Line {
	bold := len(c) > 0 && c[0].Bold
	return markup.Line{{Text: part, Bold: bold}}
}

func newRowLines(table TableID, cols []Column, opts Options, cells ...[]markup.Line) Row {
	row := Row{Table: table, Cells: make([]Cell, 0, len(cells)), Height: 1}
	for i, lines := range cells {
		width := columnChars(cols[i], opts)
		wrapped := make([]markup.Line, 0, len(lines))
		for _, l := range lines {
			wrapped = append(wrapped, wrapLine(l, width)...)
		}
		wrapped = trimBlank(wrapped)
		row.Cells = append(row.Cells, Cell{Lines: wrapped})
		if len(wrapped) > row.Height {
			row.Height = len(wrapped)
		}
	}
	return row
}

func columnChars(c Column, opts Options) int {
	w := int(c.Width*float64(opts.CharsPerLine)) - 2
	if w < 4 {
		w = 4
	}
	return w
}

func trimBlank(lines []markup.Line) []markup.Line {
	for len(lines) > 0 && len(lines[0].Text()) == 0 {
		lines = lines[1:]
	}
	for len(lines) > 0 && len(lines[len(lines)-1].Text()) == 0 {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return []markup.Line{{}}
	}
	return lines
}

// parse is swapped in tests to exercise the fallback path
var parse = markup.Parse

// markupLines parses cell markup, falling back to unstyled raw text if the
// parser fails
func markupLines(m string) (lines []markup.Line) {
	defer func() {
		if r := recover(); r != nil {
			lines = make([]markup.Line, 0)
			for _, part := range strings.Split(m, "\n") {
				lines = append(lines, markup.Line{{Text: part}})
			}
		}
	}()
	return markup.Lines(parse(m))
}
