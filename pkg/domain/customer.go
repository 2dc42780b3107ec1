package domain

import (
	"slices"
	"strings"
)

// CustomerStatus is the lifecycle state of a customer.
type CustomerStatus string

const (
	CustomerInitial   CustomerStatus = "initial"
	CustomerConverted CustomerStatus = "converted"
	CustomerArchived  CustomerStatus = "archived"
)

// ParseCustomerStatus maps a stored status name back to a CustomerStatus.
func ParseCustomerStatus(v string) (CustomerStatus, error) {
	switch s := CustomerStatus(strings.ToLower(strings.TrimSpace(v))); s {
	case CustomerInitial, CustomerConverted, CustomerArchived:
		return s, nil
	}
	return "", Errorf(ErrInvalidCustomerStatus, "%q", v)
}

// Customer is the aggregate root for a customer company and its contact
// persons. Every mutation must be requested by the relation manager.
type Customer struct {
	id                string
	relationManagerID string
	companyInfo       CompanyInfo
	status            CustomerStatus
	contactPersons    []contactPerson
}

// CustomerState is the persisted form of a customer used to rehydrate it.
type CustomerState struct {
	ID                string
	RelationManagerID string
	CompanyInfo       CompanyInfo
	Status            CustomerStatus
	ContactPersons    []ContactPersonView
}

// MakeCustomer creates a new customer in the initial status with no contact
// persons.
func MakeCustomer(relationManagerID string, info CompanyInfo) (*Customer, error) {
	relationManagerID = strings.TrimSpace(relationManagerID)
	if relationManagerID == "" {
		return nil, Errorf(ErrMissingValue, "relation manager")
	}
	if info.Name() == "" {
		return nil, Errorf(ErrMissingValue, "company info")
	}
	return &Customer{
		id:                newID(),
		relationManagerID: relationManagerID,
		companyInfo:       info,
		status:            CustomerInitial,
	}, nil
}

// ReconstituteCustomer rehydrates a stored customer without re-running
// creation checks.
func ReconstituteCustomer(s CustomerState) *Customer {
	c := &Customer{
		id:                s.ID,
		relationManagerID: s.RelationManagerID,
		companyInfo:       s.CompanyInfo,
		status:            s.Status,
		contactPersons:    make([]contactPerson, 0, len(s.ContactPersons)),
	}
	for _, v := range s.ContactPersons {
		c.contactPersons = append(c.contactPersons, contactPersonFromView(v))
	}
	return c
}

func (c *Customer) ID() string                { return c.id }
func (c *Customer) RelationManagerID() string { return c.relationManagerID }
func (c *Customer) CompanyInfo() CompanyInfo  { return c.companyInfo }
func (c *Customer) Status() CustomerStatus    { return c.status }

// ContactPersons returns copies of the contact persons in insertion order.
func (c *Customer) ContactPersons() []ContactPersonView {
	out := make([]ContactPersonView, 0, len(c.contactPersons))
	for _, p := range c.contactPersons {
		out = append(out, p.view())
	}
	return out
}

// ContactPerson looks up one contact person by id.
func (c *Customer) ContactPerson(id string) (ContactPersonView, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.contactPersons[i].view(), true
	}
	return ContactPersonView{}, false
}

// Convert moves an initial customer with at least one contact person to the
// converted status.
func (c *Customer) Convert(requestorID string) error {
	if err := c.authorize(requestorID); err != nil {
		return err
	}
	switch c.status {
	case CustomerConverted:
		return ErrAlreadyConverted
	case CustomerArchived:
		return ErrCannotConvertArchived
	}
	if len(c.contactPersons) == 0 {
		return ErrNotEnoughContactPersons
	}
	c.status = CustomerConverted
	return nil
}

// Archive moves an initial or converted customer to the archived status.
func (c *Customer) Archive(requestorID string) error {
	if err := c.authorize(requestorID); err != nil {
		return err
	}
	if c.status == CustomerArchived {
		return ErrAlreadyArchived
	}
	c.status = CustomerArchived
	return nil
}

// AddContactPerson appends a new contact person and returns its view.
func (c *Customer) AddContactPerson(requestorID string, d ContactPersonData) (ContactPersonView, error) {
	if err := c.authorize(requestorID); err != nil {
		return ContactPersonView{}, err
	}
	p, err := newContactPerson(newID(), d)
	if err != nil {
		return ContactPersonView{}, err
	}
	next := append(slices.Clone(c.contactPersons), p)
	if err := checkContactPersons(next); err != nil {
		return ContactPersonView{}, err
	}
	c.contactPersons = next
	return p.view(), nil
}

// UpdateContactPerson applies u to the contact person with the given id.
func (c *Customer) UpdateContactPerson(requestorID, personID string, u ContactPersonUpdate) (ContactPersonView, error) {
	if err := c.authorize(requestorID); err != nil {
		return ContactPersonView{}, err
	}
	i := c.indexOf(personID)
	if i < 0 {
		return ContactPersonView{}, Errorf(ErrContactPersonNotFound, "%q", personID)
	}
	p, err := c.contactPersons[i].apply(u)
	if err != nil {
		return ContactPersonView{}, err
	}
	next := slices.Clone(c.contactPersons)
	next[i] = p
	if err := checkContactPersons(next); err != nil {
		return ContactPersonView{}, err
	}
	c.contactPersons = next
	return p.view(), nil
}

// RemoveContactPerson deletes the contact person with the given id.
func (c *Customer) RemoveContactPerson(requestorID, personID string) error {
	if err := c.authorize(requestorID); err != nil {
		return err
	}
	i := c.indexOf(personID)
	if i < 0 {
		return Errorf(ErrContactPersonNotFound, "%q", personID)
	}
	next := slices.Delete(slices.Clone(c.contactPersons), i, i+1)
	if err := checkContactPersons(next); err != nil {
		return err
	}
	c.contactPersons = next
	return nil
}

// ChangeRelationManager hands the customer over to another sales representative.
func (c *Customer) ChangeRelationManager(requestorID, newManagerID string) error {
	if err := c.authorize(requestorID); err != nil {
		return err
	}
	newManagerID = strings.TrimSpace(newManagerID)
	if newManagerID == "" {
		return Errorf(ErrMissingValue, "relation manager")
	}
	if err := checkContactPersons(c.contactPersons); err != nil {
		return err
	}
	c.relationManagerID = newManagerID
	return nil
}

// UpdateCompanyInfo replaces the company info value.
func (c *Customer) UpdateCompanyInfo(requestorID string, info CompanyInfo) error {
	if err := c.authorize(requestorID); err != nil {
		return err
	}
	if info.Name() == "" {
		return Errorf(ErrMissingValue, "company info")
	}
	c.companyInfo = info
	return nil
}

func (c *Customer) authorize(requestorID string) error {
	if requestorID != c.relationManagerID {
		return ErrOnlyRelationManager
	}
	return nil
}

func (c *Customer) indexOf(personID string) int {
	return slices.IndexFunc(c.contactPersons, func(p contactPerson) bool { return p.id == personID })
}

func checkContactPersons(persons []contactPerson) error {
	seen := make(map[string]struct{}, len(persons))
	for _, p := range persons {
		if err := p.validate(); err != nil {
			return err
		}
		key := p.identity()
		if _, dup := seen[key]; dup {
			return Errorf(ErrDuplicateContactPerson, "%s %s", p.firstName, p.lastName)
		}
		seen[key] = struct{}{}
	}
	return nil
}
