package minutes

// MeetingMetaRequest holds the meeting details typed by the user
type MeetingMetaRequest struct {
	ProjectID         string   `json:"project_id"`
	ProjectName       string   `json:"project_name,omitempty" validate:"omitempty,max=255"`
	Date              string   `json:"meeting_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime         string   `json:"meeting_start_time" validate:"omitempty,datetime=15:04"`
	EndTime           string   `json:"meeting_end_time" validate:"omitempty,datetime=15:04"`
	Venue             string   `json:"meeting_venue" validate:"max=255"`
	Attendees         []string `json:"attendees"`
	ExternalAttendees string   `json:"external_attendees"`
	PreparedBy        string   `json:"mom_prepared_by" validate:"max=255"`
	Agenda            string   `json:"agenda"`
}

// RawDiscussionRequest is one topic with its free-form notes
type RawDiscussionRequest struct {
	Topic string `json:"topic"`
	Notes string `json:"notes"`
}

// RawActionItemRequest is one manually entered task
type RawActionItemRequest struct {
	Task                string `json:"task"`
	ResponsiblePerson   string `json:"responsible_person"`
	ResponsiblePersonID string `json:"responsible_person_id,omitempty"`
	Deadline            string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateInputRequest replaces the meeting details and raw notes
type UpdateInputRequest struct {
	Meta        MeetingMetaRequest     `json:"meta"`
	Discussions []RawDiscussionRequest `json:"discussions" validate:"dive"`
	ActionItems []RawActionItemRequest `json:"action_items" validate:"dive"`
}

// UpdateDiscussionRequest corrects a structured discussion
type UpdateDiscussionRequest struct {
	Topic *string `json:"topic,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// UpdateActionItemRequest corrects a structured action item
type UpdateActionItemRequest struct {
	Task                *string `json:"task,omitempty"`
	ResponsiblePerson   *string `json:"responsible_person,omitempty"`
	ResponsiblePersonID *string `json:"responsible_person_id,omitempty"`
	Deadline            *string `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AddCommentRequest appends a comment
type AddCommentRequest struct {
	Text string `json:"text" validate:"notblank,max=2000"`
}

// OverrideRequest changes the task fields of one or more action items
type OverrideRequest struct {
	AssigneeID   *string `json:"assignee_id,omitempty"`
	AssigneeName *string `json:"assignee_name,omitempty"`
	DueDate      *string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority     *string `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	AssignedDate *string `json:"assigned_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description  *string `json:"description,omitempty"`
}

// BatchOverrideRequest applies one override to several items
type BatchOverrideRequest struct {
	Indices  []int           `json:"indices" validate:"required,min=1"`
	Override OverrideRequest `json:"override"`
}

// CommitConversionRequest selects the items to turn into tasks
type CommitConversionRequest struct {
	Selected []int `json:"selected"`
}
