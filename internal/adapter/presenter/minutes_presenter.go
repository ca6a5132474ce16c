package presenter

import (
	"github.com/johnquangdev/mom-generator/internal/adapter/dto/minutes"
	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/usecase/conversion"
	minutesUsecase "github.com/johnquangdev/mom-generator/internal/usecase/minutes"
)

// ToSessionResponse converts a session state to SessionResponse DTO
func ToSessionResponse(s minutesUsecase.State) minutes.SessionResponse {
	resp := minutes.SessionResponse{
		SessionID:   s.SessionID,
		SaveEnabled: s.SaveEnabled,
		Generation:  s.Generation,
		Source:      string(s.Source),
		Notice:      s.Notice,
		Converting:  s.Converting,
		Record:      s.Record,
	}

	if r := s.Record; r != nil {
		resp.MomNo = r.IdentifierOrEmpty()
		resp.Version = r.Version
		resp.State = string(r.State)
		resp.URL = r.URL
		resp.UpdatedAt = r.UpdatedAt
	}

	return resp
}

// ToSaveResponse converts a save result to SaveResponse DTO
func ToSaveResponse(r minutesUsecase.SaveResult) minutes.SaveResponse {
	changes := []string{}
	if r.Audit != nil {
		changes = r.Audit.Changes
	}
	return minutes.SaveResponse{
		Session: ToSessionResponse(r.State),
		Created: r.Created,
		Changes: changes,
	}
}

// ToActivityResponses converts audit entries to ActivityResponse DTOs
func ToActivityResponses(entries []*entities.AuditEntry) []minutes.ActivityResponse {
	out := make([]minutes.ActivityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, minutes.ActivityResponse{
			Action:          string(e.Action),
			Changes:         e.Changes,
			PerformedBy:     e.PerformedBy,
			PerformedByName: e.PerformedByName,
			Timestamp:       e.Timestamp,
		})
	}
	return out
}

// ToConversionResponse pairs every action item with its override
func ToConversionResponse(c minutesUsecase.ConversionState) minutes.ConversionResponse {
	items := make([]minutes.ConversionItemResponse, 0, len(c.Items))
	for i, item := range c.Items {
		resp := minutes.ConversionItemResponse{Index: i, Task: item.Task}
		if i < len(c.Overrides) {
			o := c.Overrides[i]
			resp.AssigneeID = o.AssigneeID
			resp.AssigneeName = o.AssigneeName
			resp.DueDate = o.DueDate
			resp.Priority = string(o.Priority)
			resp.AssignedDate = o.AssignedDate
			resp.Description = o.Description
		}
		items = append(items, resp)
	}
	return minutes.ConversionResponse{Items: items}
}

// ToCommitResponse converts a commit result to CommitResponse DTO
func ToCommitResponse(r conversion.CommitResult, s minutesUsecase.State) minutes.CommitResponse {
	resp := minutes.CommitResponse{
		Created: r.Created,
		Failed:  r.Failed,
		TaskIDs: make([]string, 0, len(r.Tasks)),
		Session: ToSessionResponse(s),
	}
	for _, t := range r.Tasks {
		resp.TaskIDs = append(resp.TaskIDs, t.ID.String())
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, minutes.ConversionFailureResponse{
			Index: f.Index,
			Task:  f.Task,
			Error: f.Error,
		})
	}
	return resp
}

// ToOverridePatch converts an OverrideRequest DTO to a conversion patch
func ToOverridePatch(req minutes.OverrideRequest) conversion.OverridePatch {
	patch := conversion.OverridePatch{
		AssigneeID:   req.AssigneeID,
		AssigneeName: req.AssigneeName,
		DueDate:      req.DueDate,
		AssignedDate: req.AssignedDate,
		Description:  req.Description,
	}
	if req.Priority != nil {
		p := entities.TaskPriority(*req.Priority)
		patch.Priority = &p
	}
	return patch
}

// ToInput converts an UpdateInputRequest DTO to service input
func ToInput(req minutes.UpdateInputRequest) minutesUsecase.Input {
	in := minutesUsecase.Input{
		Meta: entities.MeetingMeta{
			ProjectID:         req.Meta.ProjectID,
			ProjectName:       req.Meta.ProjectName,
			Date:              req.Meta.Date,
			StartTime:         req.Meta.StartTime,
			EndTime:           req.Meta.EndTime,
			Venue:             req.Meta.Venue,
			Attendees:         req.Meta.Attendees,
			ExternalAttendees: req.Meta.ExternalAttendees,
			PreparedBy:        req.Meta.PreparedBy,
			Agenda:            req.Meta.Agenda,
		},
		Discussions: make([]entities.RawDiscussion, 0, len(req.Discussions)),
		ActionItems: make([]entities.RawActionItem, 0, len(req.ActionItems)),
	}
	for _, d := range req.Discussions {
		in.Discussions = append(in.Discussions, entities.RawDiscussion{Topic: d.Topic, Notes: d.Notes})
	}
	for _, a := range req.ActionItems {
		in.ActionItems = append(in.ActionItems, entities.RawActionItem{
			Task:                a.Task,
			ResponsiblePerson:   a.ResponsiblePerson,
			ResponsiblePersonID: a.ResponsiblePersonID,
			Deadline:            a.Deadline,
		})
	}
	return in
}
