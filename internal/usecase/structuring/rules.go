package structuring

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/pkg/markup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a keyword class detected in discussion text
type Category string

const (
	CategoryDelay   Category = "delay"
	CategoryAPI     Category = "api"
	CategoryUI      Category = "ui"
	CategoryTesting Category = "testing"
	CategoryDeploy  Category = "deploy"
	CategoryPlan    Category = "plan"
	CategoryClient  Category = "client"
	CategoryData    Category = "data"
)

// Rule maps a category to the sentences and task template it contributes.
// An empty ActionTask means the category never yields an inferred task.
type Rule struct {
	Category   Category
	Matcher    *regexp.Regexp
	Decision   string
	NextStep   string
	ActionTask string
}

// Patterns only anchor at a word start, so "build" does not count as "ui".
func keywords(words ...string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:` + strings.Join(words, "|") + `)`)
}

// Rules is evaluated in order; section sentences follow the same order.
var Rules = []Rule{
	{
		Category: CategoryDelay,
		Matcher:  keywords("delay", "blocked", "blocker", "hold", "waiting", "pending", "postpone"),
		Decision: "Blockers highlighted; owners assigned to unblock.",
		NextStep: "Owners of blocked items to report unblock status before the next meeting.",
	},
	{
		Category:   CategoryAPI,
		Matcher:    keywords("api", "endpoint", "integration", "backend", "server"),
		Decision:   "Critical API items prioritized for the next cycle.",
		NextStep:   "Backend/Integration team to finalize endpoints and share specs.",
		ActionTask: "Complete API/Integration work for %s",
	},
	{
		Category:   CategoryUI,
		Matcher:    keywords("ui", "ux", "design", "responsive", "layout", "color", "contrast"),
		Decision:   "UI refinement approved for upcoming sprint.",
		NextStep:   "Design/Frontend to implement UI fixes and validate responsiveness.",
		ActionTask: "Implement UI changes for %s",
	},
	{
		Category:   CategoryTesting,
		Matcher:    keywords("test", "qa", "verify", "bug", "issue", "defect", "regression"),
		Decision:   "Identified defects to be triaged and fixed before next build.",
		NextStep:   "QA to prepare regression suite and verify fixes.",
		ActionTask: "Complete testing and bug fixes for %s",
	},
	{
		Category:   CategoryDeploy,
		Matcher:    keywords("deploy", "release", "prod", "production", "server", "build"),
		Decision:   "Release to proceed after sanity checks.",
		NextStep:   "DevOps to prepare deployment checklist and rollback plan.",
		ActionTask: "Prepare deployment for %s",
	},
	{
		Category: CategoryPlan,
		Matcher:  keywords("plan", "roadmap", "timeline", "milestone", "phase"),
		Decision: "Timeline to be updated with new milestones.",
		NextStep: "PM to circulate updated plan with owners and dates.",
	},
	{
		Category:   CategoryClient,
		Matcher:    keywords("client", "stakeholder", "feedback", "review"),
		Decision:   "Client feedback to be incorporated as agreed.",
		NextStep:   "Schedule follow-up review with client for sign-off.",
		ActionTask: "Get review/approval for %s",
	},
	{
		Category: CategoryData,
		Matcher:  keywords("data", "db", "database", "migration", "etl", "import", "export"),
		Decision: "Data handling approach approved with minor revisions.",
		NextStep: "DB team to validate migrations and backup strategy.",
	},
}

const (
	summarySentence  = "Discussion held to review status, identify issues, and agree on actions."
	noPointsSentence = "(no points provided)"
	noDecision       = "No final decision; items carried forward for next review."
	noNextStep       = "Owners to execute agreed tasks before the next meeting."
	followUpTask     = "Follow up on %s"
)

// Classify returns the rules whose keywords occur in text, in table order
func Classify(text string) []Rule {
	folded := cases.Fold().String(text)
	matched := make([]Rule, 0, len(Rules))
	for _, r := range Rules {
		if r.Matcher.MatchString(folded) {
			matched = append(matched, r)
		}
	}
	return matched
}

// KeyPoints returns the trimmed non-empty lines of raw notes
func KeyPoints(notes string) []string {
	points := make([]string, 0)
	for _, line := range strings.Split(notes, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			points = append(points, s)
		}
	}
	return points
}

// Structure turns a topic and its raw notes into the four-section markup.
// It never fails: missing material is replaced by fallback sentences.
func Structure(topic, notes string) string {
	matched := Classify(topic + "\n" + notes)

	points := KeyPoints(notes)
	pointLines := make([]string, 0, len(points))
	for _, p := range points {
		pointLines = append(pointLines, markup.Escape(p))
	}
	if len(pointLines) == 0 {
		pointLines = append(pointLines, noPointsSentence)
	}

	decisions := make([]string, 0, len(matched))
	nextSteps := make([]string, 0, len(matched))
	for _, r := range matched {
		decisions = append(decisions, r.Decision)
		nextSteps = append(nextSteps, r.NextStep)
	}
	if len(decisions) == 0 {
		decisions = append(decisions, noDecision)
	}
	if len(nextSteps) == 0 {
		nextSteps = append(nextSteps, noNextStep)
	}

	sections := []string{
		section("Summary:", []string{summarySentence}),
		section("Key Points:", pointLines),
		section("Decisions Taken:", decisions),
		section("Next Steps:", nextSteps),
	}
	return strings.Join(sections, "<br/><br/>")
}

func section(title string, lines []string) string {
	var sb strings.Builder
	sb.WriteString("<b>")
	sb.WriteString(title)
	sb.WriteString("</b>")
	for _, l := range lines {
		sb.WriteString("<br/>")
		sb.WriteString(markup.Bullet)
		sb.WriteString(l)
	}
	return sb.String()
}

// StructureAll applies Structure to every discussion, preserving order
func StructureAll(discussions []entities.RawDiscussion) []entities.StructuredDiscussion {
	out := make([]entities.StructuredDiscussion, 0, len(discussions))
	for _, d := range discussions {
		out = append(out, entities.StructuredDiscussion{
			Topic:  strings.TrimSpace(d.Topic),
			Markup: Structure(d.Topic, d.Notes),
		})
	}
	return out
}

// InferActionItems derives tasks from discussions when none were entered.
// Each matched category with a template yields one task; a topic without any
// yields a follow-up task.
func InferActionItems(discussions []entities.RawDiscussion) []entities.StructuredActionItem {
	items := make([]entities.StructuredActionItem, 0)
	for _, d := range discussions {
		topic := strings.TrimSpace(d.Topic)
		before := len(items)
		for _, r := range Classify(d.Topic + "\n" + d.Notes) {
			if r.ActionTask == "" {
				continue
			}
			items = append(items, entities.StructuredActionItem{
				Task:              fmt.Sprintf(r.ActionTask, topic),
				ResponsiblePerson: entities.UnassignedPerson,
			})
		}
		if len(items) == before {
			items = append(items, entities.StructuredActionItem{
				Task:              fmt.Sprintf(followUpTask, topic),
				ResponsiblePerson: entities.UnassignedPerson,
			})
		}
	}
	return items
}

// PolishTask trims, capitalises the first letter and strips trailing periods
func PolishTask(task string) string {
	s := strings.TrimRightFunc(strings.TrimSpace(task), func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(string(first)) + s[size:]
}

// NormalizeActionItems polishes manual items and drops the ones without a task
func NormalizeActionItems(raw []entities.RawActionItem) []entities.StructuredActionItem {
	out := make([]entities.StructuredActionItem, 0, len(raw))
	for _, a := range raw {
		task := PolishTask(a.Task)
		if task == "" {
			continue
		}
		out = append(out, entities.StructuredActionItem{
			Task:                task,
			ResponsiblePerson:   strings.TrimSpace(a.ResponsiblePerson),
			ResponsiblePersonID: a.ResponsiblePersonID,
			Deadline:            strings.TrimSpace(a.Deadline),
		})
	}
	return out
}
