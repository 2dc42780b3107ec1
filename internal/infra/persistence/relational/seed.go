package relational

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"crmcore/pkg/domain"
)

// ReferenceData lists lookup rows that aggregates refer to.
type ReferenceData struct {
	Countries  []domain.Country
	Languages  []domain.Language
	Currencies []domain.Currency
	Products   []domain.Product
}

// CollectReferences gathers every country, language, currency and product
// used by the given aggregates.
func CollectReferences(customers []*domain.Customer, opportunities []*domain.Opportunity) ReferenceData {
	var ref ReferenceData
	for _, c := range customers {
		ref.Countries = append(ref.Countries, c.CompanyInfo().Address().Country())
		for _, p := range c.ContactPersons() {
			ref.Languages = append(ref.Languages, p.PreferredLanguage)
		}
	}
	for _, o := range opportunities {
		for _, item := range o.Offer() {
			ref.Currencies = append(ref.Currencies, item.Value().Currency())
			ref.Products = append(ref.Products, item.Product())
		}
	}
	return ref
}

// SeedReferenceData upserts the lookup rows in one transaction. Existing
// rows get the supplied names.
func SeedReferenceData(ctx context.Context, db *gorm.DB, ref ReferenceData) error {
	countries := make([]CountryRow, 0, len(ref.Countries))
	for _, c := range uniqueBy(ref.Countries, domain.Country.Code) {
		countries = append(countries, CountryRow{Code: c.Code(), Name: c.Name()})
	}
	languages := make([]LanguageRow, 0, len(ref.Languages))
	for _, l := range uniqueBy(ref.Languages, domain.Language.Code) {
		languages = append(languages, LanguageRow{Code: l.Code(), Name: l.Name()})
	}
	currencies := make([]CurrencyRow, 0, len(ref.Currencies))
	for _, c := range uniqueBy(ref.Currencies, domain.Currency.Code) {
		currencies = append(currencies, CurrencyRow{Code: c.Code(), Name: c.Name()})
	}
	products := make([]ProductRow, 0, len(ref.Products))
	for _, p := range uniqueBy(ref.Products, domain.Product.ID) {
		products = append(products, ProductRow{ID: p.ID(), Name: p.Name()})
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, countries); err != nil {
			return fmt.Errorf("seed countries: %w", err)
		}
		if err := upsert(tx, languages); err != nil {
			return fmt.Errorf("seed languages: %w", err)
		}
		if err := upsert(tx, currencies); err != nil {
			return fmt.Errorf("seed currencies: %w", err)
		}
		if err := upsert(tx, products); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		return nil
	})
	return mapError("seed reference data", err)
}

// uniqueBy keeps the last value for each key, in first-seen key order.
func uniqueBy[T any](values []T, key func(T) string) []T {
	index := make(map[string]int, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		k := key(v)
		if i, ok := index[k]; ok {
			out[i] = v
			continue
		}
		index[k] = len(out)
		out = append(out, v)
	}
	return out
}
