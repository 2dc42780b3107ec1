package domain

import "strings"

// SalesRepresentative is a salesman. Only the representative may edit their
// own record.
type SalesRepresentative struct {
	id        string
	firstName string
	lastName  string
}

// SalesRepresentativeUpdate overrides the non-nil fields.
type SalesRepresentativeUpdate struct {
	FirstName *string
	LastName  *string
}

// MakeSalesRepresentative creates a representative with a new identity.
func MakeSalesRepresentative(firstName, lastName string) (*SalesRepresentative, error) {
	s := &SalesRepresentative{id: newID(), firstName: strings.TrimSpace(firstName), lastName: strings.TrimSpace(lastName)}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ReconstituteSalesRepresentative rehydrates a stored representative.
func ReconstituteSalesRepresentative(id, firstName, lastName string) *SalesRepresentative {
	return &SalesRepresentative{id: id, firstName: firstName, lastName: lastName}
}

func (s *SalesRepresentative) ID() string        { return s.id }
func (s *SalesRepresentative) FirstName() string { return s.firstName }
func (s *SalesRepresentative) LastName() string  { return s.lastName }

// Update applies u when requested by the representative themselves.
func (s *SalesRepresentative) Update(requestorID string, u SalesRepresentativeUpdate) error {
	if requestorID != s.id {
		return ErrOnlySelfCanModify
	}
	next := *s
	if u.FirstName != nil {
		next.firstName = strings.TrimSpace(*u.FirstName)
	}
	if u.LastName != nil {
		next.lastName = strings.TrimSpace(*u.LastName)
	}
	if err := next.validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *SalesRepresentative) validate() error {
	if s.firstName == "" {
		return Errorf(ErrMissingValue, "first name")
	}
	if s.lastName == "" {
		return Errorf(ErrMissingValue, "last name")
	}
	return nil
}
