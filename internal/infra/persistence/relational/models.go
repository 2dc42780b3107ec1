package relational

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reference tables. Aggregates point at them by code or id; writes fail when
// a referenced row is missing.

type CountryRow struct {
	Code string `gorm:"primaryKey;size:2"`
	Name string `gorm:"not null"`
}

func (CountryRow) TableName() string { return "countries" }

type LanguageRow struct {
	Code string `gorm:"primaryKey;size:3"`
	Name string `gorm:"not null"`
}

func (LanguageRow) TableName() string { return "languages" }

type CurrencyRow struct {
	Code string `gorm:"primaryKey;size:3"`
	Name string `gorm:"not null"`
}

func (CurrencyRow) TableName() string { return "currencies" }

type ProductRow struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (ProductRow) TableName() string { return "products" }

// Customer aggregate.

type CustomerRow struct {
	ID                string             `gorm:"primaryKey"`
	RelationManagerID string             `gorm:"not null;index"`
	Status            string             `gorm:"not null;index"`
	CompanyInfo       CompanyInfoRow     `gorm:"foreignKey:CustomerID;references:ID"`
	ContactPersons    []ContactPersonRow `gorm:"foreignKey:CustomerID;references:ID"`
}

func (CustomerRow) TableName() string { return "customers" }

type CompanyInfoRow struct {
	CustomerID string     `gorm:"primaryKey"`
	Name       string     `gorm:"not null;index"`
	Industry   string     `gorm:"not null"`
	Segment    SegmentRow `gorm:"embedded;embeddedPrefix:segment_"`
	Address    AddressRow `gorm:"foreignKey:CompanyInfoID;references:CustomerID"`
}

func (CompanyInfoRow) TableName() string { return "company_infos" }

type SegmentRow struct {
	Size      string `gorm:"not null"`
	LegalForm string `gorm:"not null"`
}

type AddressRow struct {
	CompanyInfoID string `gorm:"primaryKey"`
	Street        string `gorm:"not null"`
	StreetNo      string
	PostalCode    string     `gorm:"not null"`
	City          string     `gorm:"not null"`
	CountryCode   string     `gorm:"not null;index"`
	Country       CountryRow `gorm:"foreignKey:CountryCode;references:Code"`
}

func (AddressRow) TableName() string { return "addresses" }

type ContactPersonRow struct {
	ID                    string `gorm:"primaryKey"`
	CustomerID            string `gorm:"not null;index"`
	Position              int    `gorm:"not null"`
	FirstName             string `gorm:"not null"`
	LastName              string `gorm:"not null"`
	JobTitle              string
	PreferredLanguageCode string             `gorm:"not null"`
	PreferredLanguage     LanguageRow        `gorm:"foreignKey:PreferredLanguageCode;references:Code"`
	ContactMethods        []ContactMethodRow `gorm:"foreignKey:ContactPersonID;references:ID"`
}

func (ContactPersonRow) TableName() string { return "contact_persons" }

type ContactMethodRow struct {
	ContactPersonID string `gorm:"primaryKey"`
	Position        int    `gorm:"primaryKey;autoIncrement:false"`
	Type            string `gorm:"not null"`
	Value           string `gorm:"not null"`
	Preferred       bool   `gorm:"not null"`
}

func (ContactMethodRow) TableName() string { return "contact_methods" }

// Lead aggregate.

type LeadRow struct {
	ID          string              `gorm:"primaryKey"`
	CustomerID  string              `gorm:"not null;index"`
	CreatedByID string              `gorm:"not null"`
	CreatedAt   time.Time           `gorm:"autoCreateTime:false"`
	Source      string              `gorm:"not null"`
	ContactData ContactDataRow      `gorm:"embedded;embeddedPrefix:contact_data_"`
	Assignments []LeadAssignmentRow `gorm:"foreignKey:LeadID;references:ID"`
	Notes       []LeadNoteRow       `gorm:"foreignKey:LeadID;references:ID"`
}

func (LeadRow) TableName() string { return "leads" }

type ContactDataRow struct {
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Phone     string
	Email     string
}

type LeadAssignmentRow struct {
	LeadID          string `gorm:"primaryKey"`
	Position        int    `gorm:"primaryKey;autoIncrement:false"`
	PreviousOwnerID string
	NewOwnerID      string    `gorm:"not null;index"`
	AssignedByID    string    `gorm:"not null"`
	AssignedAt      time.Time `gorm:"not null"`
}

func (LeadAssignmentRow) TableName() string { return "lead_assignments" }

type LeadNoteRow struct {
	LeadID      string    `gorm:"primaryKey"`
	Position    int       `gorm:"primaryKey;autoIncrement:false"`
	CreatedByID string    `gorm:"not null"`
	Content     string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
}

func (LeadNoteRow) TableName() string { return "lead_notes" }

// Opportunity aggregate.

type OpportunityRow struct {
	ID          string               `gorm:"primaryKey"`
	CustomerID  string               `gorm:"not null;index"`
	CreatedByID string               `gorm:"not null"`
	OwnerID     string               `gorm:"not null;index"`
	CreatedAt   time.Time            `gorm:"autoCreateTime:false"`
	Source      string               `gorm:"not null"`
	Stage       string               `gorm:"not null"`
	Priority    string               `gorm:"not null"`
	Offer       []OfferItemRow       `gorm:"foreignKey:OpportunityID;references:ID"`
	Notes       []OpportunityNoteRow `gorm:"foreignKey:OpportunityID;references:ID"`
}

func (OpportunityRow) TableName() string { return "opportunities" }

type OfferItemRow struct {
	OpportunityID string          `gorm:"primaryKey"`
	Position      int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID     string          `gorm:"not null"`
	Product       ProductRow      `gorm:"foreignKey:ProductID;references:ID"`
	CurrencyCode  string          `gorm:"not null"`
	Currency      CurrencyRow     `gorm:"foreignKey:CurrencyCode;references:Code"`
	Amount        decimal.Decimal `gorm:"type:text;not null"`
}

func (OfferItemRow) TableName() string { return "offer_items" }

type OpportunityNoteRow struct {
	OpportunityID string    `gorm:"primaryKey"`
	Position      int       `gorm:"primaryKey;autoIncrement:false"`
	CreatedByID   string    `gorm:"not null"`
	Content       string    `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime:false"`
}

func (OpportunityNoteRow) TableName() string { return "opportunity_notes" }

// Sales representatives.

type SalesRepresentativeRow struct {
	ID        string `gorm:"primaryKey"`
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
}

func (SalesRepresentativeRow) TableName() string { return "sales_representatives" }

// models lists every table in migration order.
func models() []any {
	return []any{
		&CountryRow{}, &LanguageRow{}, &CurrencyRow{}, &ProductRow{},
		&CustomerRow{}, &CompanyInfoRow{}, &AddressRow{}, &ContactPersonRow{}, &ContactMethodRow{},
		&LeadRow{}, &LeadAssignmentRow{}, &LeadNoteRow{},
		&OpportunityRow{}, &OfferItemRow{}, &OpportunityNoteRow{},
		&SalesRepresentativeRow{},
	}
}
