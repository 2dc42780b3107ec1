package domain

import (
	"slices"
	"strings"
	"time"
)

// Opportunity is a sales opportunity with an offer. The owner is fixed to the
// creator and is the only actor allowed to change it.
type Opportunity struct {
	id          string
	customerID  string
	createdByID string
	ownerID     string
	createdAt   time.Time
	source      AcquisitionSource
	stage       OpportunityStage
	priority    Priority
	offer       []OfferItem
	notes       []Note
}

// OpportunityState is the persisted form of an opportunity.
type OpportunityState struct {
	ID          string
	CustomerID  string
	CreatedByID string
	OwnerID     string
	CreatedAt   time.Time
	Source      AcquisitionSource
	Stage       OpportunityStage
	Priority    Priority
	Offer       []OfferItem
	NoteHistory []Note
}

// OpportunityUpdate overrides the non-nil fields of an opportunity.
type OpportunityUpdate struct {
	Source   *AcquisitionSource
	Stage    *OpportunityStage
	Priority *Priority
}

// MakeOpportunity creates an opportunity owned by its creator.
func MakeOpportunity(customerID, createdByID string, source AcquisitionSource, stage OpportunityStage, priority Priority, offer []OfferItem) (*Opportunity, error) {
	customerID, createdByID = strings.TrimSpace(customerID), strings.TrimSpace(createdByID)
	switch {
	case customerID == "":
		return nil, Errorf(ErrMissingValue, "customer")
	case createdByID == "":
		return nil, Errorf(ErrMissingValue, "creator")
	case source.Name() == "":
		return nil, Errorf(ErrMissingValue, "acquisition source")
	case stage.Name() == "":
		return nil, Errorf(ErrMissingValue, "stage")
	case priority.Name() == "":
		return nil, Errorf(ErrMissingValue, "priority")
	}
	if err := checkOffer(offer); err != nil {
		return nil, err
	}
	return &Opportunity{
		id:          newID(),
		customerID:  customerID,
		createdByID: createdByID,
		ownerID:     createdByID,
		createdAt:   nowFunc(),
		source:      source,
		stage:       stage,
		priority:    priority,
		offer:       slices.Clone(offer),
	}, nil
}

// ReconstituteOpportunity rehydrates a stored opportunity.
func ReconstituteOpportunity(s OpportunityState) *Opportunity {
	return &Opportunity{
		id:          s.ID,
		customerID:  s.CustomerID,
		createdByID: s.CreatedByID,
		ownerID:     s.OwnerID,
		createdAt:   s.CreatedAt,
		source:      s.Source,
		stage:       s.Stage,
		priority:    s.Priority,
		offer:       slices.Clone(s.Offer),
		notes:       slices.Clone(s.NoteHistory),
	}
}

func (o *Opportunity) ID() string                { return o.id }
func (o *Opportunity) CustomerID() string        { return o.customerID }
func (o *Opportunity) CreatedByID() string       { return o.createdByID }
func (o *Opportunity) OwnerID() string           { return o.ownerID }
func (o *Opportunity) CreatedAt() time.Time      { return o.createdAt }
func (o *Opportunity) Source() AcquisitionSource { return o.source }
func (o *Opportunity) Stage() OpportunityStage   { return o.stage }
func (o *Opportunity) Priority() Priority        { return o.priority }
func (o *Opportunity) Offer() []OfferItem        { return slices.Clone(o.offer) }
func (o *Opportunity) NoteHistory() []Note       { return slices.Clone(o.notes) }

// Note returns the current note, if any.
func (o *Opportunity) Note() (Note, bool) {
	if len(o.notes) == 0 {
		return Note{}, false
	}
	return o.notes[len(o.notes)-1], true
}

// ChangeNote appends a note authored by the owner.
func (o *Opportunity) ChangeNote(content, editorID string) error {
	if editorID != o.ownerID {
		return ErrOnlyOwnerCanEditNotes
	}
	note, err := NewNote(editorID, content, nowFunc())
	if err != nil {
		return err
	}
	o.notes = append(o.notes, note)
	return nil
}

// ModifyOffer replaces the whole offer.
func (o *Opportunity) ModifyOffer(offer []OfferItem, editorID string) error {
	if editorID != o.ownerID {
		return ErrOnlyOwnerCanModifyOffer
	}
	if err := checkOffer(offer); err != nil {
		return err
	}
	o.offer = slices.Clone(offer)
	return nil
}

// Update applies the non-nil overrides in u.
func (o *Opportunity) Update(editorID string, u OpportunityUpdate) error {
	if editorID != o.ownerID {
		return ErrOnlyOwnerCanModify
	}
	next := *o
	if u.Source != nil {
		if u.Source.Name() == "" {
			return Errorf(ErrMissingValue, "acquisition source")
		}
		next.source = *u.Source
	}
	if u.Stage != nil {
		if u.Stage.Name() == "" {
			return Errorf(ErrMissingValue, "stage")
		}
		next.stage = *u.Stage
	}
	if u.Priority != nil {
		if u.Priority.Name() == "" {
			return Errorf(ErrMissingValue, "priority")
		}
		next.priority = *u.Priority
	}
	o.source, o.stage, o.priority = next.source, next.stage, next.priority
	return nil
}

func checkOffer(offer []OfferItem) error {
	for i, item := range offer {
		if item.Product().ID() == "" {
			return Errorf(ErrMissingValue, "offer item %d product", i)
		}
		if item.Value().Currency().Code() == "" {
			return Errorf(ErrMissingValue, "offer item %d value", i)
		}
	}
	return nil
}
