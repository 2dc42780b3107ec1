package domain

import (
	"slices"
	"strings"
	"time"
)

// Lead is a sales lead for a customer. Ownership is tracked through an
// append-only assignment history and notes through an append-only note
// history; the current owner and note are the last entries.
type Lead struct {
	id          string
	customerID  string
	createdByID string
	createdAt   time.Time
	source      AcquisitionSource
	contactData ContactData
	assignments []LeadAssignmentEntry
	notes       []Note
}

// LeadState is the persisted form of a lead used to rehydrate it.
type LeadState struct {
	ID                string
	CustomerID        string
	CreatedByID       string
	CreatedAt         time.Time
	Source            AcquisitionSource
	ContactData       ContactData
	AssignmentHistory []LeadAssignmentEntry
	NoteHistory       []Note
}

// LeadUpdate overrides the non-nil fields of a lead.
type LeadUpdate struct {
	Source      *AcquisitionSource
	ContactData *ContactData
}

// MakeLead creates an unassigned lead without notes.
func MakeLead(customerID, createdByID string, source AcquisitionSource, contact ContactData) (*Lead, error) {
	customerID, createdByID = strings.TrimSpace(customerID), strings.TrimSpace(createdByID)
	switch {
	case customerID == "":
		return nil, Errorf(ErrMissingValue, "customer")
	case createdByID == "":
		return nil, Errorf(ErrMissingValue, "creator")
	case source.Name() == "":
		return nil, Errorf(ErrMissingValue, "acquisition source")
	case contact.FirstName() == "":
		return nil, Errorf(ErrMissingValue, "contact data")
	}
	return &Lead{
		id:          newID(),
		customerID:  customerID,
		createdByID: createdByID,
		createdAt:   nowFunc(),
		source:      source,
		contactData: contact,
	}, nil
}

// ReconstituteLead rehydrates a stored lead with its histories.
func ReconstituteLead(s LeadState) *Lead {
	return &Lead{
		id:          s.ID,
		customerID:  s.CustomerID,
		createdByID: s.CreatedByID,
		createdAt:   s.CreatedAt,
		source:      s.Source,
		contactData: s.ContactData,
		assignments: slices.Clone(s.AssignmentHistory),
		notes:       slices.Clone(s.NoteHistory),
	}
}

func (l *Lead) ID() string                { return l.id }
func (l *Lead) CustomerID() string        { return l.customerID }
func (l *Lead) CreatedByID() string       { return l.createdByID }
func (l *Lead) CreatedAt() time.Time      { return l.createdAt }
func (l *Lead) Source() AcquisitionSource { return l.source }
func (l *Lead) ContactData() ContactData  { return l.contactData }

// AssignmentHistory returns the ownership changes, oldest first.
func (l *Lead) AssignmentHistory() []LeadAssignmentEntry { return slices.Clone(l.assignments) }

// NoteHistory returns every note ever written, oldest first.
func (l *Lead) NoteHistory() []Note { return slices.Clone(l.notes) }

// Owner returns the current owner, if the lead was ever assigned.
func (l *Lead) Owner() (string, bool) {
	if len(l.assignments) == 0 {
		return "", false
	}
	return l.assignments[len(l.assignments)-1].NewOwnerID(), true
}

// Note returns the current note, if any.
func (l *Lead) Note() (Note, bool) {
	if len(l.notes) == 0 {
		return Note{}, false
	}
	return l.notes[len(l.notes)-1], true
}

// AssignSalesman makes newOwnerID the owner. Anyone may assign an unassigned
// lead; afterwards only the current owner may reassign it. Assigning the
// current owner again is rejected as a conflict.
func (l *Lead) AssignSalesman(newOwnerID, requestorID string) error {
	current, assigned := l.Owner()
	if assigned && requestorID != current {
		return ErrUnauthorizedOwnerChange
	}
	if assigned && strings.TrimSpace(newOwnerID) == current {
		return Errorf(ErrSalesmanAlreadyAssigned, "%q", current)
	}
	entry, err := NewLeadAssignmentEntry(current, newOwnerID, requestorID, nowFunc())
	if err != nil {
		return err
	}
	l.assignments = append(l.assignments, entry)
	return nil
}

// ChangeNote appends a note authored by the current owner.
func (l *Lead) ChangeNote(content, editorID string) error {
	if owner, ok := l.Owner(); !ok || owner != editorID {
		return ErrOnlyOwnerCanEditNotes
	}
	note, err := NewNote(editorID, content, nowFunc())
	if err != nil {
		return err
	}
	l.notes = append(l.notes, note)
	return nil
}

// Update applies the non-nil overrides in u; only the owner may do so.
func (l *Lead) Update(editorID string, u LeadUpdate) error {
	if owner, ok := l.Owner(); !ok || owner != editorID {
		return ErrOnlyOwnerCanModify
	}
	if u.Source != nil {
		if u.Source.Name() == "" {
			return Errorf(ErrMissingValue, "acquisition source")
		}
		l.source = *u.Source
	}
	if u.ContactData != nil {
		if u.ContactData.FirstName() == "" {
			return Errorf(ErrMissingValue, "contact data")
		}
		l.contactData = *u.ContactData
	}
	return nil
}
