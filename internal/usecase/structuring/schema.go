package structuring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// OutcomeKind tags the result of validating a backend response
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeMalformed
)

func (k OutcomeKind) String() string {
	if k == OutcomeOK {
		return "ok"
	}
	return "malformed"
}

// Outcome is either OK with structured content, or Malformed with a reason
type Outcome struct {
	Kind        OutcomeKind
	Discussions []entities.StructuredDiscussion
	ActionItems []entities.StructuredActionItem
	Reason      string
}

type backendPayload struct {
	Discussions []struct {
		Topic  string `json:"topic"`
		Markup string `json:"markup"`
		// notes is accepted for replies in the older prompt shape
		Notes string `json:"notes"`
	} `json:"discussions"`
	ActionItems []struct {
		Task              string `json:"task"`
		ResponsiblePerson string `json:"responsiblePerson"`
		Deadline          string `json:"deadline"`
	} `json:"actionItems"`
}

func malformed(format string, args ...interface{}) Outcome {
	return Outcome{Kind: OutcomeMalformed, Reason: fmt.Sprintf(format, args...)}
}

// ValidateResponse checks a backend reply against the expected shape.
// Exactly wantTopics discussions with non-empty topic and markup (or notes)
// are required; every action item needs a task.
func ValidateResponse(raw string, wantTopics int) Outcome {
	content := extractJSON(raw)
	if content == "" {
		return malformed("empty response")
	}

	var payload backendPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return malformed("invalid JSON: %v", err)
	}
	if payload.Discussions == nil {
		return malformed("missing discussions")
	}
	if len(payload.Discussions) != wantTopics {
		return malformed("expected %d discussions, got %d", wantTopics, len(payload.Discussions))
	}

	out := Outcome{
		Kind:        OutcomeOK,
		Discussions: make([]entities.StructuredDiscussion, 0, len(payload.Discussions)),
		ActionItems: make([]entities.StructuredActionItem, 0, len(payload.ActionItems)),
	}
	for i, d := range payload.Discussions {
		topic := strings.TrimSpace(d.Topic)
		body := strings.TrimSpace(d.Markup)
		if body == "" {
			body = strings.TrimSpace(d.Notes)
		}
		if topic == "" || body == "" {
			return malformed("discussion %d has empty topic or markup", i)
		}
		out.Discussions = append(out.Discussions, entities.StructuredDiscussion{Topic: topic, Markup: body})
	}
	for i, a := range payload.ActionItems {
		task := PolishTask(a.Task)
		if task == "" {
			return malformed("action item %d has empty task", i)
		}
		deadline := strings.TrimSpace(a.Deadline)
		if strings.EqualFold(deadline, entities.UnassignedPerson) {
			deadline = ""
		}
		person := strings.TrimSpace(a.ResponsiblePerson)
		if person == "" {
			person = entities.UnassignedPerson
		}
		out.ActionItems = append(out.ActionItems, entities.StructuredActionItem{
			Task:              task,
			ResponsiblePerson: person,
			Deadline:          deadline,
		})
	}
	return out
}

// extractJSON strips markdown code fences around a JSON body
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
