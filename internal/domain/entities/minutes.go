package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// LifecycleState represents where a meeting record is in the editing flow
type LifecycleState string

const (
	StateEditing   LifecycleState = "editing"   // Raw inputs are freely mutable
	StateGenerated LifecycleState = "generated" // Raw inputs frozen, structured output editable
	StateSaved     LifecycleState = "saved"     // Snapshot persisted, fingerprint frozen
)

// UnassignedPerson is the responsible-person placeholder for inferred tasks
const UnassignedPerson = "TBD"

// MeetingMeta holds the descriptive fields of a meeting
type MeetingMeta struct {
	ProjectID         string   `json:"project_id"`
	ProjectName       string   `json:"project_name"`
	Date              string   `json:"meeting_date"`
	StartTime         string   `json:"meeting_start_time"`
	EndTime           string   `json:"meeting_end_time"`
	Venue             string   `json:"meeting_venue"`
	Attendees         []string `json:"attendees"`      // internal user ids
	AttendeeNames     []string `json:"attendee_names"` // resolved through the directory
	ExternalAttendees string   `json:"external_attendees"`
	PreparedBy        string   `json:"mom_prepared_by"`
	Agenda            string   `json:"agenda"`
}

// ExternalAttendeeList splits the comma separated external attendee text
func (m MeetingMeta) ExternalAttendeeList() []string {
	out := make([]string, 0)
	for _, part := range strings.Split(m.ExternalAttendees, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RawDiscussion is a topic with the free-form notes typed during the meeting
type RawDiscussion struct {
	Topic string `json:"topic"`
	Notes string `json:"notes"`
}

// RawActionItem is a manually entered task
type RawActionItem struct {
	Task                string `json:"task"`
	ResponsiblePerson   string `json:"responsible_person"`
	ResponsiblePersonID string `json:"responsible_person_id,omitempty"`
	Deadline            string `json:"deadline"`
}

// StructuredDiscussion is a topic with generated markup notes
type StructuredDiscussion struct {
	Topic  string `json:"topic"`
	Markup string `json:"notes"`
}

// StructuredActionItem is a normalized task ready for rendering
type StructuredActionItem struct {
	Task                string `json:"task"`
	ResponsiblePerson   string `json:"responsible_person"`
	ResponsiblePersonID string `json:"responsible_person_id,omitempty"`
	Deadline            string `json:"deadline"`
}

// Comment is appended to a record during a session
type Comment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`
	Timestamp time.Time `json:"timestamp"`
}

// AccessList groups project members by role bucket
type AccessList struct {
	Admin  []string `json:"admin"`
	Member []string `json:"member"`
}

// Attachment is a stored file referenced by a record
type Attachment struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	StoragePath string `json:"storage_path,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Key identifies an attachment: storage path when known, URL otherwise
func (a Attachment) Key() string {
	if a.StoragePath != "" {
		return a.StoragePath
	}
	return a.URL
}

// Label is the human readable attachment name
func (a Attachment) Label() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Name
}

// MeetingRecord is the unit of work of the minutes pipeline
type MeetingRecord struct {
	Identifier            *string                `json:"mom_no,omitempty"`
	Version               int                    `json:"mom_version"`
	State                 LifecycleState         `json:"state"`
	Meta                  MeetingMeta            `json:"meta"`
	RawDiscussions        []RawDiscussion        `json:"input_discussions"`
	RawActionItems        []RawActionItem        `json:"input_action_items"`
	StructuredDiscussions []StructuredDiscussion `json:"discussions"`
	StructuredActionItems []StructuredActionItem `json:"action_items"`
	Comments              []Comment              `json:"comments"`
	Access                AccessList             `json:"access"`
	Attachments           []Attachment           `json:"attachments,omitempty"`
	StoragePath           string                 `json:"storage_path,omitempty"`
	URL                   string                 `json:"url,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

// NewMeetingRecord creates an empty record in the editing state
func NewMeetingRecord() *MeetingRecord {
	now := time.Now()
	return &MeetingRecord{
		State:                 StateEditing,
		Meta:                  MeetingMeta{Attendees: []string{}},
		RawDiscussions:        []RawDiscussion{},
		RawActionItems:        []RawActionItem{},
		StructuredDiscussions: []StructuredDiscussion{},
		StructuredActionItems: []StructuredActionItem{},
		Comments:              []Comment{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// IdentifierOrEmpty returns the assigned identifier or ""
func (r *MeetingRecord) IdentifierOrEmpty() string {
	if r.Identifier == nil {
		return ""
	}
	return *r.Identifier
}

// ValidateForGeneration checks the inputs required before generating minutes
func (r *MeetingRecord) ValidateForGeneration() error {
	verr := &ValidationError{}
	if strings.TrimSpace(r.Meta.ProjectID) == "" {
		verr.Add("project_id", "Select a project")
	}
	if strings.TrimSpace(r.Meta.Date) == "" {
		verr.Add("meeting_date", "Enter meeting date")
	}
	if len(r.Meta.Attendees) == 0 {
		verr.Add("attendees", "Select at least one attendee")
	}
	if len(r.RawDiscussions) == 0 {
		verr.Add("input_discussions", "Add at least one discussion topic")
	}
	for i, d := range r.RawDiscussions {
		if strings.TrimSpace(d.Notes) == "" {
			verr.Add(fmt.Sprintf("input_discussions[%d].notes", i), fmt.Sprintf("Notes required for: %q", d.Topic))
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

type fingerprintView struct {
	Meta                  MeetingMeta            `json:"meta"`
	RawDiscussions        []RawDiscussion        `json:"input_discussions"`
	RawActionItems        []RawActionItem        `json:"input_action_items"`
	StructuredDiscussions []StructuredDiscussion `json:"discussions"`
	StructuredActionItems []StructuredActionItem `json:"action_items"`
	Comments              []Comment              `json:"comments"`
}

// Fingerprint summarizes all raw, structured and comment content of the record.
// Whitespace around free text and attendee order do not affect the value.
func (r *MeetingRecord) Fingerprint() string {
	meta := r.Meta
	meta.Attendees = append([]string(nil), r.Meta.Attendees...)
	sort.Strings(meta.Attendees)
	meta.AttendeeNames = nil
	meta.ProjectName = ""
	meta.ExternalAttendees = strings.TrimSpace(meta.ExternalAttendees)
	meta.PreparedBy = strings.TrimSpace(meta.PreparedBy)
	meta.Agenda = strings.TrimSpace(meta.Agenda)

	view := fingerprintView{
		Meta:                  meta,
		RawDiscussions:        make([]RawDiscussion, 0, len(r.RawDiscussions)),
		RawActionItems:        make([]RawActionItem, 0, len(r.RawActionItems)),
		StructuredDiscussions: r.StructuredDiscussions,
		StructuredActionItems: r.StructuredActionItems,
		Comments:              r.Comments,
	}
	for _, d := range r.RawDiscussions {
		view.RawDiscussions = append(view.RawDiscussions, RawDiscussion{
			Topic: strings.TrimSpace(d.Topic),
			Notes: strings.TrimSpace(d.Notes),
		})
	}
	for _, a := range r.RawActionItems {
		view.RawActionItems = append(view.RawActionItems, RawActionItem{
			Task:                strings.TrimSpace(a.Task),
			ResponsiblePerson:   strings.TrimSpace(a.ResponsiblePerson),
			ResponsiblePersonID: a.ResponsiblePersonID,
			Deadline:            a.Deadline,
		})
	}

	b, err := json.Marshal(view)
	if err != nil {
		// All fields are plain strings and slices; Marshal cannot fail here.
		panic(fmt.Sprintf("fingerprint marshal: %v", err))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Clone returns a deep copy of the record
func (r *MeetingRecord) Clone() *MeetingRecord {
	c := *r
	if r.Identifier != nil {
		id := *r.Identifier
		c.Identifier = &id
	}
	c.Meta.Attendees = append([]string(nil), r.Meta.Attendees...)
	c.Meta.AttendeeNames = append([]string(nil), r.Meta.AttendeeNames...)
	c.RawDiscussions = append([]RawDiscussion(nil), r.RawDiscussions...)
	c.RawActionItems = append([]RawActionItem(nil), r.RawActionItems...)
	c.StructuredDiscussions = append([]StructuredDiscussion(nil), r.StructuredDiscussions...)
	c.StructuredActionItems = append([]StructuredActionItem(nil), r.StructuredActionItems...)
	c.Comments = append([]Comment(nil), r.Comments...)
	c.Access.Admin = append([]string(nil), r.Access.Admin...)
	c.Access.Member = append([]string(nil), r.Access.Member...)
	c.Attachments = append([]Attachment(nil), r.Attachments...)
	return &c
}

// ValidationError collects field level input problems
type ValidationError struct {
	Fields   []string
	Messages []string
}

// Add records a problem for a field
func (v *ValidationError) Add(field, message string) {
	v.Fields = append(v.Fields, field)
	v.Messages = append(v.Messages, message)
}

// Empty reports whether no problem was recorded
func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

func (v *ValidationError) Error() string {
	return strings.Join(v.Messages, "; ")
}
