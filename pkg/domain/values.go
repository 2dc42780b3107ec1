package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Country is identified by its ISO 3166-1 alpha-2 code.
type Country struct {
	code string
	name string
}

// NewCountry canonicalizes code (alpha-2, alpha-3 or numeric) to alpha-2.
func NewCountry(code, name string) (Country, error) {
	region, err := language.ParseRegion(strings.TrimSpace(code))
	if err != nil || !region.IsCountry() {
		return Country{}, Errorf(ErrInvalidCountry, "%q is not an ISO 3166 country code", code)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Country{}, Errorf(ErrMissingValue, "country name")
	}
	return Country{code: region.String(), name: name}, nil
}

func (c Country) Code() string { return c.code }
func (c Country) Name() string { return c.name }

// Language is identified by its ISO 639 base language code.
type Language struct {
	code string
	name string
}

// NewLanguage canonicalizes code to the shortest ISO 639 form.
func NewLanguage(code, name string) (Language, error) {
	base, err := language.ParseBase(strings.TrimSpace(code))
	if err != nil || base.String() == "und" {
		return Language{}, Errorf(ErrInvalidLanguage, "%q is not an ISO 639 language code", code)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Language{}, Errorf(ErrMissingValue, "language name")
	}
	return Language{code: base.String(), name: name}, nil
}

func (l Language) Code() string { return l.code }
func (l Language) Name() string { return l.name }

// Currency is identified by its ISO 4217 code.
type Currency struct {
	code string
	name string
}

// NewCurrency validates code as an ISO 4217 currency.
func NewCurrency(code, name string) (Currency, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return Currency{}, Errorf(ErrInvalidCurrency, "%q is not an ISO 4217 currency code", code)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Currency{}, Errorf(ErrMissingValue, "currency name")
	}
	return Currency{code: unit.String(), name: name}, nil
}

func (c Currency) Code() string { return c.code }
func (c Currency) Name() string { return c.name }

// Money is a strictly positive amount in a currency.
type Money struct {
	currency Currency
	amount   decimal.Decimal
}

// NewMoney rejects amounts that are zero or negative.
func NewMoney(cur Currency, amount decimal.Decimal) (Money, error) {
	if cur.code == "" {
		return Money{}, Errorf(ErrInvalidCurrency, "currency is required")
	}
	if amount.Sign() <= 0 {
		return Money{}, Errorf(ErrAmountNotPositive, "got %s", amount.String())
	}
	return Money{currency: cur, amount: amount}, nil
}

func (m Money) Currency() Currency      { return m.currency }
func (m Money) Amount() decimal.Decimal { return m.amount }

// Equal compares currency and numeric amount; 1.0 equals 1.00.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Product is an offerable catalogue entry.
type Product struct {
	id   string
	name string
}

// NewProduct requires both an identifier and a name.
func NewProduct(id, name string) (Product, error) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id == "" {
		return Product{}, Errorf(ErrMissingValue, "product id")
	}
	if name == "" {
		return Product{}, Errorf(ErrMissingValue, "product name")
	}
	return Product{id: id, name: name}, nil
}

func (p Product) ID() string   { return p.id }
func (p Product) Name() string { return p.name }

// OfferItem prices one product within an opportunity offer.
type OfferItem struct {
	product Product
	value   Money
}

// NewOfferItem builds an offer line from already validated parts.
func NewOfferItem(product Product, value Money) (OfferItem, error) {
	if product.id == "" {
		return OfferItem{}, Errorf(ErrMissingValue, "offer item product")
	}
	if value.currency.code == "" {
		return OfferItem{}, Errorf(ErrMissingValue, "offer item value")
	}
	return OfferItem{product: product, value: value}, nil
}

func (o OfferItem) Product() Product { return o.product }
func (o OfferItem) Value() Money     { return o.value }

// Equal reports structural equality.
func (o OfferItem) Equal(other OfferItem) bool {
	return o.product == other.product && o.value.Equal(other.value)
}

// Address is a postal address.
type Address struct {
	street     string
	streetNo   string
	postalCode string
	city       string
	country    Country
}

// NewAddress requires street, postal code, city and country; the street number is optional.
func NewAddress(street, streetNo, postalCode, city string, country Country) (Address, error) {
	a := Address{
		street:     strings.TrimSpace(street),
		streetNo:   strings.TrimSpace(streetNo),
		postalCode: strings.TrimSpace(postalCode),
		city:       strings.TrimSpace(city),
		country:    country,
	}
	switch {
	case a.street == "":
		return Address{}, Errorf(ErrMissingValue, "street")
	case a.postalCode == "":
		return Address{}, Errorf(ErrMissingValue, "postal code")
	case a.city == "":
		return Address{}, Errorf(ErrMissingValue, "city")
	case country.code == "":
		return Address{}, Errorf(ErrMissingValue, "country")
	}
	return a, nil
}

func (a Address) Street() string     { return a.street }
func (a Address) StreetNo() string   { return a.streetNo }
func (a Address) PostalCode() string { return a.postalCode }
func (a Address) City() string       { return a.city }
func (a Address) Country() Country   { return a.country }

// CompanySegment groups the size and legal form of a company.
type CompanySegment struct {
	size      CompanySize
	legalForm LegalForm
}

// NewCompanySegment requires both parts to be set.
func NewCompanySegment(size CompanySize, legalForm LegalForm) (CompanySegment, error) {
	if size.name == "" {
		return CompanySegment{}, Errorf(ErrMissingValue, "company size")
	}
	if legalForm.name == "" {
		return CompanySegment{}, Errorf(ErrMissingValue, "legal form")
	}
	return CompanySegment{size: size, legalForm: legalForm}, nil
}

func (s CompanySegment) Size() CompanySize    { return s.size }
func (s CompanySegment) LegalForm() LegalForm { return s.legalForm }

// CompanyInfo describes the company behind a customer.
type CompanyInfo struct {
	name     string
	industry Industry
	segment  CompanySegment
	address  Address
}

// NewCompanyInfo requires a company name and fully built parts.
func NewCompanyInfo(name string, industry Industry, segment CompanySegment, address Address) (CompanyInfo, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return CompanyInfo{}, Errorf(ErrMissingValue, "company name")
	case industry.name == "":
		return CompanyInfo{}, Errorf(ErrMissingValue, "industry")
	case segment.size.name == "":
		return CompanyInfo{}, Errorf(ErrMissingValue, "company segment")
	case address.city == "":
		return CompanyInfo{}, Errorf(ErrMissingValue, "company address")
	}
	return CompanyInfo{name: name, industry: industry, segment: segment, address: address}, nil
}

func (c CompanyInfo) Name() string            { return c.name }
func (c CompanyInfo) Industry() Industry      { return c.industry }
func (c CompanyInfo) Segment() CompanySegment { return c.segment }
func (c CompanyInfo) Address() Address        { return c.address }
