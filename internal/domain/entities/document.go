package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const (
	MomFolder   = "MOMs"
	MomTag      = "MoM"
	MomSource   = "MoM"
	MomFileType = "application/pdf"
	MomKind     = "MoM"
	MomIDPrefix = "MOM"
	MomPathRoot = "documents/moms"
)

// MomDocument is the persisted form of a meeting record. The identifier is the
// primary key and (project_id, mom_version) is unique, so two concurrent first
// saves cannot both commit the same number.
type MomDocument struct {
	ID         string `json:"id" gorm:"type:varchar(64);primaryKey"`
	ProjectID  string `json:"project_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_documents_project_version"`
	MomVersion int    `json:"mom_version" gorm:"not null;uniqueIndex:idx_documents_project_version"`

	Name   string         `json:"name" gorm:"type:varchar(255);not null"`
	Folder string         `json:"folder" gorm:"type:varchar(100);not null"`
	Tags   datatypes.JSON `json:"tags" gorm:"type:jsonb;default:'[]'"`

	MeetingDate       string         `json:"meeting_date" gorm:"type:varchar(20)"`
	MeetingStartTime  string         `json:"meeting_start_time" gorm:"type:varchar(10)"`
	MeetingEndTime    string         `json:"meeting_end_time" gorm:"type:varchar(10)"`
	MeetingVenue      string         `json:"meeting_venue" gorm:"type:varchar(255)"`
	ProjectName       string         `json:"project_name" gorm:"type:varchar(255)"`
	Attendees         datatypes.JSON `json:"attendees" gorm:"type:jsonb;default:'[]'"`
	ExternalAttendees string         `json:"external_attendees" gorm:"type:text"`
	PreparedBy        string         `json:"mom_prepared_by" gorm:"type:varchar(255)"`
	Agenda            string         `json:"agenda" gorm:"type:text"`

	InputDiscussions datatypes.JSON `json:"input_discussions" gorm:"type:jsonb;default:'[]'"`
	InputActionItems datatypes.JSON `json:"input_action_items" gorm:"type:jsonb;default:'[]'"`
	Discussions      datatypes.JSON `json:"discussions" gorm:"type:jsonb;default:'[]'"`
	ActionItems      datatypes.JSON `json:"action_items" gorm:"type:jsonb;default:'[]'"`
	Comments         datatypes.JSON `json:"comments" gorm:"type:jsonb;default:'[]'"`
	Access           datatypes.JSON `json:"access" gorm:"type:jsonb;default:'{}'"`

	StoragePath string `json:"storage_path" gorm:"type:varchar(500)"`
	URL         string `json:"url" gorm:"type:varchar(1000)"`
	Filename    string `json:"filename" gorm:"type:varchar(255)"`
	FileType    string `json:"file_type" gorm:"type:varchar(100)"`
	FileSize    int64  `json:"file_size"`
	Fingerprint string `json:"fingerprint" gorm:"type:varchar(64)"`
	Shared      bool   `json:"shared" gorm:"default:false;not null"`

	CreatedByUID  string    `json:"created_by_uid" gorm:"type:varchar(64)"`
	CreatedByName string    `json:"created_by_name" gorm:"type:varchar(255)"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MomDocument) TableName() string {
	return "documents"
}

// DocumentFilter narrows document listings
type DocumentFilter struct {
	ProjectID string
	Folder    string
	Limit     int
}

// DocumentName builds the display name "<id> – <project>"
func DocumentName(identifier, projectName string) string {
	if projectName == "" {
		return identifier
	}
	return fmt.Sprintf("%s – %s", identifier, projectName)
}

// NewMomDocument flattens a record into its persisted form
func NewMomDocument(r *MeetingRecord) (*MomDocument, error) {
	doc := &MomDocument{
		ID:                r.IdentifierOrEmpty(),
		ProjectID:         r.Meta.ProjectID,
		MomVersion:        r.Version,
		Name:              DocumentName(r.IdentifierOrEmpty(), r.Meta.ProjectName),
		Folder:            MomFolder,
		MeetingDate:       r.Meta.Date,
		MeetingStartTime:  r.Meta.StartTime,
		MeetingEndTime:    r.Meta.EndTime,
		MeetingVenue:      r.Meta.Venue,
		ProjectName:       r.Meta.ProjectName,
		ExternalAttendees: r.Meta.ExternalAttendees,
		PreparedBy:        r.Meta.PreparedBy,
		Agenda:            r.Meta.Agenda,
		StoragePath:       r.StoragePath,
		URL:               r.URL,
		FileType:          MomFileType,
		Fingerprint:       r.Fingerprint(),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}

	fields := []struct {
		dst *datatypes.JSON
		src interface{}
	}{
		{&doc.Tags, []string{MomTag}},
		{&doc.Attendees, nonNil(r.Meta.Attendees)},
		{&doc.InputDiscussions, r.RawDiscussions},
		{&doc.InputActionItems, r.RawActionItems},
		{&doc.Discussions, r.StructuredDiscussions},
		{&doc.ActionItems, r.StructuredActionItems},
		{&doc.Comments, r.Comments},
		{&doc.Access, r.Access},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.src)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document field: %w", err)
		}
		*f.dst = b
	}
	return doc, nil
}

// ToRecord rebuilds a saved meeting record from its persisted form
func (d *MomDocument) ToRecord() (*MeetingRecord, error) {
	r := NewMeetingRecord()
	id := d.ID
	r.Identifier = &id
	r.Version = d.MomVersion
	r.State = StateSaved
	r.Meta = MeetingMeta{
		ProjectID:         d.ProjectID,
		ProjectName:       d.ProjectName,
		Date:              d.MeetingDate,
		StartTime:         d.MeetingStartTime,
		EndTime:           d.MeetingEndTime,
		Venue:             d.MeetingVenue,
		Attendees:         []string{},
		ExternalAttendees: d.ExternalAttendees,
		PreparedBy:        d.PreparedBy,
		Agenda:            d.Agenda,
	}
	r.StoragePath = d.StoragePath
	r.URL = d.URL
	r.CreatedAt = d.CreatedAt
	r.UpdatedAt = d.UpdatedAt
	if d.URL != "" || d.StoragePath != "" {
		r.Attachments = []Attachment{{Name: d.Filename, DisplayName: d.Name, StoragePath: d.StoragePath, URL: d.URL}}
	}

	fields := []struct {
		src datatypes.JSON
		dst interface{}
	}{
		{d.Attendees, &r.Meta.Attendees},
		{d.InputDiscussions, &r.RawDiscussions},
		{d.InputActionItems, &r.RawActionItems},
		{d.Discussions, &r.StructuredDiscussions},
		{d.ActionItems, &r.StructuredActionItems},
		{d.Comments, &r.Comments},
		{d.Access, &r.Access},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document %s: %w", d.ID, err)
		}
	}
	return r, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
