package revision

import (
	"sort"
	"strings"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// SnapshotOf maps a meeting record onto the generic diff view
func SnapshotOf(r *entities.MeetingRecord) Snapshot {
	m := r.Meta
	return Snapshot{
		Kind: entities.MomKind,
		Scalars: []Scalar{
			{Label: "project", Value: projectLabel(m), Kind: TitleLike},
			{Label: "date", Value: m.Date, Kind: TitleLike},
			{Label: "time", Value: timeRange(m.StartTime, m.EndTime), Kind: TitleLike},
			{Label: "venue", Value: m.Venue, Kind: TitleLike},
			{Label: "prepared by", Value: m.PreparedBy, Kind: TitleLike},
			{Label: "agenda", Value: m.Agenda, Kind: LongText},
			{Label: "attendees", Value: strings.Join(sortedCopy(m.Attendees), ","), Kind: LongText},
			{Label: "discussions", Value: joinDiscussions(r.StructuredDiscussions), Kind: LongText},
			{Label: "action items", Value: joinActionItems(r.StructuredActionItems), Kind: LongText},
			{Label: "comments", Value: joinComments(r.Comments), Kind: LongText},
		},
		Links:       m.ExternalAttendeeList(),
		Attachments: r.Attachments,
		Members: map[string][]string{
			string(entities.RoleAdmin):  r.Access.Admin,
			string(entities.RoleMember): r.Access.Member,
		},
	}
}

// projectLabel is the project name, or its id when the name is unknown
func projectLabel(m entities.MeetingMeta) string {
	if name := strings.TrimSpace(m.ProjectName); name != "" {
		return name
	}
	return m.ProjectID
}

func timeRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start
	case start == "":
		return end
	}
	return start + " - " + end
}

const sep = "\x1f"

func joinDiscussions(ds []entities.StructuredDiscussion) string {
	parts := make([]string, 0, len(ds)*2)
	for _, d := range ds {
		parts = append(parts, d.Topic, d.Markup)
	}
	return strings.Join(parts, sep)
}

func joinActionItems(items []entities.StructuredActionItem) string {
	parts := make([]string, 0, len(items)*3)
	for _, a := range items {
		parts = append(parts, a.Task, a.ResponsiblePerson, a.Deadline)
	}
	return strings.Join(parts, sep)
}

func joinComments(cs []entities.Comment) string {
	parts := make([]string, 0, len(cs)*2)
	for _, c := range cs {
		parts = append(parts, c.Author, c.Text)
	}
	return strings.Join(parts, sep)
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
