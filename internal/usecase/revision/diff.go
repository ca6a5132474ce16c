// Package revision describes what changed between two versions of a
// semi-structured record as human readable audit lines.
package revision

import (
	"fmt"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// ScalarKind decides how a changed scalar is reported
type ScalarKind int

const (
	// TitleLike values are short and quoted in full
	TitleLike ScalarKind = iota
	// LongText values are only reported as updated
	LongText
)

// Scalar is a labelled single-valued field
type Scalar struct {
	Label string
	Value string
	Kind  ScalarKind
}

// Snapshot is a generic view of a record for diffing
type Snapshot struct {
	Kind        string
	Scalars     []Scalar
	Links       []string
	Attachments []entities.Attachment
	Members     map[string][]string
}

// Diff lists the changes from prev to next, in field order. A nil prev
// produces a single "Created" line; no change produces a single "Updated"
// line, so the result is never empty.
func Diff(prev *Snapshot, next Snapshot) []string {
	if prev == nil {
		return []string{fmt.Sprintf("Created %s", next.Kind)}
	}

	changes := make([]string, 0)
	changes = append(changes, diffScalars(prev.Scalars, next.Scalars)...)

	added, removed := setDiff(prev.Links, next.Links)
	for _, l := range added {
		changes = append(changes, fmt.Sprintf("Added link: %s", l))
	}
	for _, l := range removed {
		changes = append(changes, fmt.Sprintf("Removed link: %s", l))
	}

	changes = append(changes, diffAttachments(prev.Attachments, next.Attachments)...)

	if !sameMembers(prev.Members, next.Members) {
		changes = append(changes, "Updated assignees")
	}

	if len(changes) == 0 {
		return []string{fmt.Sprintf("Updated %s", next.Kind)}
	}
	return changes
}

func diffScalars(prev, next []Scalar) []string {
	old := make(map[string]string, len(prev))
	for _, s := range prev {
		old[s.Label] = s.Value
	}

	out := make([]string, 0)
	for _, s := range next {
		if v, ok := old[s.Label]; ok && v == s.Value {
			continue
		}
		if _, ok := old[s.Label]; !ok && s.Value == "" {
			continue
		}
		if s.Kind == TitleLike {
			out = append(out, fmt.Sprintf("Changed %s to %q", s.Label, s.Value))
			continue
		}
		out = append(out, fmt.Sprintf("Updated %s", s.Label))
	}
	return out
}

// setDiff returns values only in next (next order) and only in prev (prev order)
func setDiff(prev, next []string) (added, removed []string) {
	inPrev := make(map[string]bool, len(prev))
	for _, v := range prev {
		inPrev[v] = true
	}
	inNext := make(map[string]bool, len(next))
	for _, v := range next {
		inNext[v] = true
	}

	seen := make(map[string]bool)
	for _, v := range next {
		if !inPrev[v] && !seen[v] {
			added = append(added, v)
			seen[v] = true
		}
	}
	for _, v := range prev {
		if !inNext[v] && !seen[v] {
			removed = append(removed, v)
			seen[v] = true
		}
	}
	return added, removed
}

func diffAttachments(prev, next []entities.Attachment) []string {
	label := make(map[string]string)
	keys := func(list []entities.Attachment) []string {
		out := make([]string, 0, len(list))
		for _, a := range list {
			k := a.Key()
			if k == "" {
				continue
			}
			out = append(out, k)
			if _, ok := label[k]; !ok {
				label[k] = a.Label()
			}
		}
		return out
	}

	added, removed := setDiff(keys(prev), keys(next))
	out := make([]string, 0, len(added)+len(removed))
	for _, k := range added {
		out = append(out, fmt.Sprintf("Added document: %s", label[k]))
	}
	for _, k := range removed {
		out = append(out, fmt.Sprintf("Removed document: %s", label[k]))
	}
	return out
}

func sameMembers(prev, next map[string][]string) bool {
	union := func(buckets map[string][]string) map[string]bool {
		set := make(map[string]bool)
		for _, ids := range buckets {
			for _, id := range ids {
				set[id] = true
			}
		}
		return set
	}

	a, b := union(prev), union(next)
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}
