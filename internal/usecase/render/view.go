package render

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/pkg/markup"
)

// Field is an editable scalar with the path used to patch it
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Path  string `json:"path"`
}

// MarkupField is editable markup together with its parsed lines
type MarkupField struct {
	Path   string        `json:"path"`
	Markup string        `json:"markup"`
	Lines  []markup.Line `json:"lines"`
}

// DiscussionView is one editable discussion row
type DiscussionView struct {
	Index int         `json:"index"`
	Topic Field       `json:"topic"`
	Notes MarkupField `json:"notes"`
}

// ActionItemView is one editable action item row
type ActionItemView struct {
	Index             int   `json:"index"`
	Task              Field `json:"task"`
	ResponsiblePerson Field `json:"responsible_person"`
	Deadline          Field `json:"deadline"`
}

// EditableView is the interactive form of a rendered document
type EditableView struct {
	Title       string             `json:"title"`
	Identifier  string             `json:"identifier"`
	Info        []Field            `json:"info"`
	Discussions []DiscussionView   `json:"discussions"`
	ActionItems []ActionItemView   `json:"action_items"`
	Comments    []entities.Comment `json:"comments"`
	PageCount   int                `json:"page_count"`
	Pages       []Page             `json:"pages"`
}

// EditableView exposes the document content with edit paths
func (d *Document) EditableView() EditableView {
	in := d.input
	v := EditableView{
		Title:      d.Title,
		Identifier: d.Identifier,
		Info: []Field{
			{Label: "Project", Value: in.Meta.ProjectName, Path: "meta.projectId"},
			{Label: "Date", Value: in.Meta.Date, Path: "meta.date"},
			{Label: "Start Time", Value: in.Meta.StartTime, Path: "meta.startTime"},
			{Label: "End Time", Value: in.Meta.EndTime, Path: "meta.endTime"},
			{Label: "Venue", Value: in.Meta.Venue, Path: "meta.venue"},
			{Label: "Attendees", Value: attendees(in.Meta), Path: "meta.attendees"},
			{Label: "External", Value: in.Meta.ExternalAttendees, Path: "meta.externalAttendees"},
			{Label: "Prepared By", Value: in.Meta.PreparedBy, Path: "meta.preparedBy"},
		},
		Discussions: make([]DiscussionView, 0, len(in.Discussions)),
		ActionItems: make([]ActionItemView, 0, len(in.ActionItems)),
		Comments:    in.Comments,
		PageCount:   len(d.Pages),
		Pages:       d.Pages,
	}

	for i, disc := range in.Discussions {
		v.Discussions = append(v.Discussions, DiscussionView{
			Index: i,
			Topic: Field{Label: "Topic", Value: disc.Topic, Path: fmt.Sprintf("discussions[%d].topic", i)},
			Notes: MarkupField{
				Path:   fmt.Sprintf("discussions[%d].markup", i),
				Markup: disc.Markup,
				Lines:  markupLines(disc.Markup),
			},
		})
	}
	for i, a := range in.ActionItems {
		v.ActionItems = append(v.ActionItems, ActionItemView{
			Index:             i,
			Task:              Field{Label: "Task", Value: a.Task, Path: fmt.Sprintf("actionItems[%d].task", i)},
			ResponsiblePerson: Field{Label: "Responsible Person", Value: a.ResponsiblePerson, Path: fmt.Sprintf("actionItems[%d].responsiblePerson", i)},
			Deadline:          Field{Label: "Deadline", Value: a.Deadline, Path: fmt.Sprintf("actionItems[%d].deadline", i)},
		})
	}
	return v
}

// PlainText renders the paginated document as text lines, one slice per page
func (d *Document) PlainText() [][]string {
	out := make([][]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		lines := make([]string, 0, p.Used+FooterLines)
		for _, b := range p.Blocks {
			switch b.Kind {
			case BlockTitle:
				lines = append(lines, b.Text)
				for _, l := range b.Lines {
					lines = append(lines, l.Text())
				}
			case BlockSection:
				lines = append(lines, b.Text)
			case BlockSpacer:
				lines = append(lines, "")
			case BlockTableHeader:
				titles := make([]string, 0, len(b.Columns))
				for _, c := range b.Columns {
					titles = append(titles, c.Title)
				}
				lines = append(lines, joinCells(titles))
			case BlockRow:
				for i := 0; i < b.Row.Height; i++ {
					cells := make([]string, 0, len(b.Row.Cells))
					for _, c := range b.Row.Cells {
						if i < len(c.Lines) {
							cells = append(cells, c.Lines[i].Text())
						} else {
							cells = append(cells, "")
						}
					}
					lines = append(lines, joinCells(cells))
				}
			case BlockText:
				for _, l := range b.Lines {
					lines = append(lines, l.Text())
				}
			}
		}
		lines = append(lines, p.Footer.Left, p.Footer.Right)
		out = append(out, lines)
	}
	return out
}

func joinCells(cells []string) string {
	return strings.Join(cells, " | ")
}
