package entities

// GenerationRequest is what a generation backend needs to structure a meeting
type GenerationRequest struct {
	ProjectName       string          `json:"project_name"`
	Date              string          `json:"meeting_date"`
	Agenda            string          `json:"agenda"`
	AttendeeNames     []string        `json:"attendee_names"`
	ExternalAttendees string          `json:"external_attendees"`
	Discussions       []RawDiscussion `json:"discussions"`
	ActionItems       []RawActionItem `json:"action_items"`
}
