package minutes

import (
	"sync"
	"time"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/usecase/conversion"
	"github.com/johnquangdev/mom-generator/internal/usecase/revision"
	"github.com/johnquangdev/mom-generator/internal/usecase/structuring"
)

// savedState is what the last successful save left behind
type savedState struct {
	snapshot revision.Snapshot
}

// Session is one record being edited. All operations on a session hold mu.
type Session struct {
	ID string

	mu               sync.Mutex
	record           *entities.MeetingRecord
	savedFingerprint string
	saved            *savedState
	generation       uint64
	source           structuring.Source
	notice           string
	conversion       *conversion.Session

	touchMu sync.Mutex
	touched time.Time
}

func (sess *Session) touch(t time.Time) {
	sess.touchMu.Lock()
	sess.touched = t
	sess.touchMu.Unlock()
}

func (sess *Session) lastTouched() time.Time {
	sess.touchMu.Lock()
	defer sess.touchMu.Unlock()
	return sess.touched
}

// saveEnabled is true when generated content differs from what was last saved
func (sess *Session) saveEnabled() bool {
	if sess.record.State == entities.StateEditing {
		return false
	}
	return sess.record.Fingerprint() != sess.savedFingerprint
}

// markEdited moves a saved record back to generated after a change
func (sess *Session) markEdited(now time.Time) {
	sess.record.UpdatedAt = now
	if sess.record.State == entities.StateSaved {
		sess.record.State = entities.StateGenerated
	}
}

// State is a read only view of a session
type State struct {
	SessionID     string                  `json:"session_id"`
	Record        *entities.MeetingRecord `json:"record"`
	SaveEnabled   bool                    `json:"save_enabled"`
	Fingerprint   string                  `json:"fingerprint"`
	Generation    uint64                  `json:"generation"`
	Source        structuring.Source      `json:"source,omitempty"`
	Notice        string                  `json:"notice,omitempty"`
	Converting    bool                    `json:"converting"`
	LastSavedHash string                  `json:"last_saved_fingerprint,omitempty"`
}

func (sess *Session) state() State {
	return State{
		SessionID:     sess.ID,
		Record:        sess.record.Clone(),
		SaveEnabled:   sess.saveEnabled(),
		Fingerprint:   sess.record.Fingerprint(),
		Generation:    sess.generation,
		Source:        sess.source,
		Notice:        sess.notice,
		Converting:    sess.conversion != nil,
		LastSavedHash: sess.savedFingerprint,
	}
}
