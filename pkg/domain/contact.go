package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ContactMethodType is the channel a contact method reaches.
type ContactMethodType string

const (
	ContactMethodEmail ContactMethodType = "email"
	ContactMethodPhone ContactMethodType = "phone"
)

// ContactMethod is a typed, format-checked way of reaching a person.
type ContactMethod struct {
	kind      ContactMethodType
	value     string
	preferred bool
}

// NewContactMethod validates value according to kind: RFC 5322 addresses for
// email, E.164 numbers for phone (spaces and dashes are dropped first).
func NewContactMethod(kind ContactMethodType, value string, preferred bool) (ContactMethod, error) {
	var err error
	switch kind {
	case ContactMethodEmail:
		value, err = normalizeEmail(value)
	case ContactMethodPhone:
		value, err = normalizePhone(value)
	default:
		return ContactMethod{}, Errorf(ErrInvalidContactMethodType, "%q", string(kind))
	}
	if err != nil {
		return ContactMethod{}, err
	}
	return ContactMethod{kind: kind, value: value, preferred: preferred}, nil
}

func (m ContactMethod) Type() ContactMethodType { return m.kind }
func (m ContactMethod) Value() string           { return m.value }
func (m ContactMethod) IsPreferred() bool       { return m.preferred }

func normalizeEmail(v string) (string, error) {
	v = strings.TrimSpace(v)
	if validate.Var(v, "required,email") != nil {
		return "", Errorf(ErrInvalidEmail, "%q", v)
	}
	return v, nil
}

func normalizePhone(v string) (string, error) {
	v = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(v))
	if validate.Var(v, "required,e164") != nil {
		return "", Errorf(ErrInvalidPhone, "%q", v)
	}
	return v, nil
}

// ContactData is the contact information captured on a lead. At least one of
// phone or email is required.
type ContactData struct {
	firstName string
	lastName  string
	phone     string
	email     string
}

// NewContactData validates names and whichever channels are present.
func NewContactData(firstName, lastName, phone, email string) (ContactData, error) {
	d := ContactData{firstName: strings.TrimSpace(firstName), lastName: strings.TrimSpace(lastName)}
	if d.firstName == "" {
		return ContactData{}, Errorf(ErrMissingValue, "first name")
	}
	if d.lastName == "" {
		return ContactData{}, Errorf(ErrMissingValue, "last name")
	}
	if strings.TrimSpace(phone) == "" && strings.TrimSpace(email) == "" {
		return ContactData{}, Errorf(ErrMissingValue, "phone or email")
	}
	var err error
	if strings.TrimSpace(phone) != "" {
		if d.phone, err = normalizePhone(phone); err != nil {
			return ContactData{}, err
		}
	}
	if strings.TrimSpace(email) != "" {
		if d.email, err = normalizeEmail(email); err != nil {
			return ContactData{}, err
		}
	}
	return d, nil
}

func (d ContactData) FirstName() string { return d.firstName }
func (d ContactData) LastName() string  { return d.lastName }
func (d ContactData) Phone() string     { return d.phone }
func (d ContactData) Email() string     { return d.email }
