package minutes

import (
	"time"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// SessionResponse is the state of an editing session
type SessionResponse struct {
	SessionID   string                  `json:"session_id"`
	MomNo       string                  `json:"mom_no,omitempty"`
	Version     int                     `json:"mom_version"`
	State       string                  `json:"state"`
	SaveEnabled bool                    `json:"save_enabled"`
	Generation  uint64                  `json:"generation"`
	Source      string                  `json:"source,omitempty"`
	Notice      string                  `json:"notice,omitempty"`
	Converting  bool                    `json:"converting"`
	URL         string                  `json:"url,omitempty"`
	Record      *entities.MeetingRecord `json:"record"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// SaveResponse is returned after a successful save
type SaveResponse struct {
	Session SessionResponse `json:"session"`
	Created bool            `json:"created"`
	Changes []string        `json:"changes"`
}

// ShareResponse is the plain text summary of a record
type ShareResponse struct {
	Text string `json:"text"`
}

// ActivityResponse is one audit trail entry
type ActivityResponse struct {
	Action          string    `json:"action"`
	Changes         []string  `json:"changes"`
	PerformedBy     string    `json:"performed_by"`
	PerformedByName string    `json:"performed_by_name"`
	Timestamp       time.Time `json:"timestamp"`
}

// ConversionItemResponse is one action item with its task override
type ConversionItemResponse struct {
	Index        int    `json:"index"`
	Task         string `json:"task"`
	AssigneeID   string `json:"assignee_id"`
	AssigneeName string `json:"assignee_name"`
	DueDate      string `json:"due_date"`
	Priority     string `json:"priority"`
	AssignedDate string `json:"assigned_date"`
	Description  string `json:"description"`
}

// ConversionResponse is the state of an action item conversion
type ConversionResponse struct {
	Items []ConversionItemResponse `json:"items"`
}

// ConversionFailureResponse describes an item that was not converted
type ConversionFailureResponse struct {
	Index int    `json:"index"`
	Task  string `json:"task"`
	Error string `json:"error"`
}

// CommitResponse summarises a conversion commit
type CommitResponse struct {
	Created  int                         `json:"created"`
	Failed   int                         `json:"failed"`
	TaskIDs  []string                    `json:"task_ids"`
	Failures []ConversionFailureResponse `json:"failures,omitempty"`
	Session  SessionResponse             `json:"session"`
}

// TranscriptionResponse is the text of a voice note
type TranscriptionResponse struct {
	Text string `json:"text"`
}
