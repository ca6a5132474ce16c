package structuring

import "testing"

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		topics int
		want   OutcomeKind
	}{
		{"valid", `{"discussions":[{"topic":"a","markup":"b"}],"actionItems":[]}`, 1, OutcomeOK},
		{"notes alias", `{"discussions":[{"topic":"a","notes":"b"}],"actionItems":[]}`, 1, OutcomeOK},
		{"blank markup falls back to notes", `{"discussions":[{"topic":"a","markup":" ","notes":"b"}]}`, 1, OutcomeOK},
		{"blank markup and notes", `{"discussions":[{"topic":"a","markup":" ","notes":""}]}`, 1, OutcomeMalformed},
		{"fenced", "```json\n{\"discussions\":[{\"topic\":\"a\",\"notes\":\"b\"}]}\n```", 1, OutcomeOK},
		{"plain fence", "```\n{\"discussions\":[{\"topic\":\"a\",\"notes\":\"b\"}]}\n```", 1, OutcomeOK},
		{"empty", "   ", 1, OutcomeMalformed},
		{"missing discussions", `{"actionItems":[]}`, 1, OutcomeMalformed},
		{"topic count mismatch", `{"discussions":[{"topic":"a","notes":"b"}]}`, 2, OutcomeMalformed},
		{"blank notes", `{"discussions":[{"topic":"a","notes":"  "}]}`, 1, OutcomeMalformed},
		{"blank task", `{"discussions":[{"topic":"a","notes":"b"}],"actionItems":[{"task":" "}]}`, 1, OutcomeMalformed},
		{"wrong types", `{"discussions":"nope"}`, 1, OutcomeMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateResponse(tt.raw, tt.topics)
			if got.Kind != tt.want {
				t.Fatalf("ValidateResponse(%q) = %s (%s), want %s", tt.raw, got.Kind, got.Reason, tt.want)
			}
		})
	}
}

func TestValidateResponseDefaultsResponsiblePerson(t *testing.T) {
	got := ValidateResponse(`{"discussions":[{"topic":"a","notes":"b"}],"actionItems":[{"task":"do it","deadline":"tbd"}]}`, 1)
	if got.Kind != OutcomeOK {
		t.Fatalf("unexpected outcome %s: %s", got.Kind, got.Reason)
	}
	item := got.ActionItems[0]
	if item.ResponsiblePerson != "TBD" || item.Deadline != "" || item.Task != "Do it" {
		t.Fatalf("unexpected item %#v", item)
	}
}

func TestValidateResponseReadsMarkup(t *testing.T) {
	got := ValidateResponse(`{"discussions":[{"topic":" API delay ","markup":"<b>Summary:</b><br/>• Vendor blocked"}]}`, 1)
	if got.Kind != OutcomeOK {
		t.Fatalf("unexpected outcome %s: %s", got.Kind, got.Reason)
	}
	d := got.Discussions[0]
	if d.Topic != "API delay" || d.Markup != "<b>Summary:</b><br/>• Vendor blocked" {
		t.Fatalf("unexpected discussion %#v", d)
	}
}
