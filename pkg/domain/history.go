package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// nowFunc is the clock used by aggregates; tests may swap it.
var nowFunc = func() time.Time { return time.Now().UTC() }

func newID() string { return uuid.NewString() }

// Note is an authored, timestamped free-text entry. Notes are append-only; the
// current note of an aggregate is the last one appended.
type Note struct {
	createdByID string
	content     string
	createdAt   time.Time
}

// NewNote requires an author; content may be empty to clear a note.
func NewNote(createdByID, content string, createdAt time.Time) (Note, error) {
	createdByID = strings.TrimSpace(createdByID)
	if createdByID == "" {
		return Note{}, Errorf(ErrMissingValue, "note author")
	}
	return Note{createdByID: createdByID, content: content, createdAt: createdAt.UTC()}, nil
}

func (n Note) CreatedByID() string  { return n.createdByID }
func (n Note) Content() string      { return n.content }
func (n Note) CreatedAt() time.Time { return n.createdAt }

// LeadAssignmentEntry records one change of lead ownership.
type LeadAssignmentEntry struct {
	previousOwnerID string
	newOwnerID      string
	assignedByID    string
	assignedAt      time.Time
}

// NewLeadAssignmentEntry builds an entry; previousOwnerID is empty for the
// first assignment of a lead.
func NewLeadAssignmentEntry(previousOwnerID, newOwnerID, assignedByID string, assignedAt time.Time) (LeadAssignmentEntry, error) {
	newOwnerID, assignedByID = strings.TrimSpace(newOwnerID), strings.TrimSpace(assignedByID)
	if newOwnerID == "" {
		return LeadAssignmentEntry{}, Errorf(ErrMissingValue, "new owner")
	}
	if assignedByID == "" {
		return LeadAssignmentEntry{}, Errorf(ErrMissingValue, "assigner")
	}
	return LeadAssignmentEntry{
		previousOwnerID: strings.TrimSpace(previousOwnerID),
		newOwnerID:      newOwnerID,
		assignedByID:    assignedByID,
		assignedAt:      assignedAt.UTC(),
	}, nil
}

// PreviousOwnerID is empty when the lead had no owner before this entry.
func (e LeadAssignmentEntry) PreviousOwnerID() string { return e.previousOwnerID }
func (e LeadAssignmentEntry) NewOwnerID() string      { return e.newOwnerID }
func (e LeadAssignmentEntry) AssignedByID() string    { return e.assignedByID }
func (e LeadAssignmentEntry) AssignedAt() time.Time   { return e.assignedAt }
