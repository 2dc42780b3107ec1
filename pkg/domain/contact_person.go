package domain

import (
	"slices"
	"strings"
)

// contactPerson is a child entity of Customer. It is never handed out
// directly; callers see ContactPersonView copies.
type contactPerson struct {
	id                string
	firstName         string
	lastName          string
	jobTitle          string
	preferredLanguage Language
	contactMethods    []ContactMethod
}

// ContactPersonView is the read-only projection of a customer's contact person.
type ContactPersonView struct {
	ID                string
	FirstName         string
	LastName          string
	JobTitle          string
	PreferredLanguage Language
	ContactMethods    []ContactMethod
}

// ContactPersonData carries the fields of a new contact person.
type ContactPersonData struct {
	FirstName         string
	LastName          string
	JobTitle          string
	PreferredLanguage Language
	ContactMethods    []ContactMethod
}

// ContactPersonUpdate overrides the non-nil fields of an existing contact
// person. A nil ContactMethods keeps the current methods.
type ContactPersonUpdate struct {
	FirstName         *string
	LastName          *string
	JobTitle          *string
	PreferredLanguage *Language
	ContactMethods    []ContactMethod
}

func newContactPerson(id string, d ContactPersonData) (contactPerson, error) {
	p := contactPerson{
		id:                id,
		firstName:         strings.TrimSpace(d.FirstName),
		lastName:          strings.TrimSpace(d.LastName),
		jobTitle:          strings.TrimSpace(d.JobTitle),
		preferredLanguage: d.PreferredLanguage,
		contactMethods:    slices.Clone(d.ContactMethods),
	}
	if err := p.validate(); err != nil {
		return contactPerson{}, err
	}
	return p, nil
}

func (p contactPerson) apply(u ContactPersonUpdate) (contactPerson, error) {
	next := p
	if u.FirstName != nil {
		next.firstName = strings.TrimSpace(*u.FirstName)
	}
	if u.LastName != nil {
		next.lastName = strings.TrimSpace(*u.LastName)
	}
	if u.JobTitle != nil {
		next.jobTitle = strings.TrimSpace(*u.JobTitle)
	}
	if u.PreferredLanguage != nil {
		next.preferredLanguage = *u.PreferredLanguage
	}
	if u.ContactMethods != nil {
		next.contactMethods = slices.Clone(u.ContactMethods)
	} else {
		next.contactMethods = slices.Clone(p.contactMethods)
	}
	if err := next.validate(); err != nil {
		return contactPerson{}, err
	}
	return next, nil
}

func (p contactPerson) validate() error {
	switch {
	case p.firstName == "":
		return Errorf(ErrMissingValue, "contact person first name")
	case p.lastName == "":
		return Errorf(ErrMissingValue, "contact person last name")
	case p.preferredLanguage.Code() == "":
		return Errorf(ErrMissingValue, "contact person preferred language")
	}
	seen := make(map[string]struct{}, len(p.contactMethods))
	preferred := 0
	for _, m := range p.contactMethods {
		key := string(m.Type()) + "\x00" + m.Value()
		if _, dup := seen[key]; dup {
			return Errorf(ErrDuplicateContactMethod, "%s %q", m.Type(), m.Value())
		}
		seen[key] = struct{}{}
		if m.IsPreferred() {
			preferred++
		}
	}
	if preferred == 0 {
		return ErrNotEnoughPreferredContactMethods
	}
	return nil
}

// identity is the key two contact persons of one customer may not share:
// full name plus the set of contact methods.
func (p contactPerson) identity() string {
	methods := make([]string, 0, len(p.contactMethods))
	for _, m := range p.contactMethods {
		methods = append(methods, string(m.Type())+":"+m.Value())
	}
	slices.Sort(methods)
	return p.firstName + "\x00" + p.lastName + "\x00" + strings.Join(methods, ",")
}

func (p contactPerson) view() ContactPersonView {
	return ContactPersonView{
		ID:                p.id,
		FirstName:         p.firstName,
		LastName:          p.lastName,
		JobTitle:          p.jobTitle,
		PreferredLanguage: p.preferredLanguage,
		ContactMethods:    slices.Clone(p.contactMethods),
	}
}

func contactPersonFromView(v ContactPersonView) contactPerson {
	return contactPerson{
		id:                v.ID,
		firstName:         v.FirstName,
		lastName:          v.LastName,
		jobTitle:          v.JobTitle,
		preferredLanguage: v.PreferredLanguage,
		contactMethods:    slices.Clone(v.ContactMethods),
	}
}
