package snapshot

import (
	"encoding/json"
	"fmt"
	"maps"
)

const (
	bucketCustomers            = "customers"
	bucketLeads                = "leads"
	bucketOpportunities        = "opportunities"
	bucketSalesRepresentatives = "sales_representatives"
)

var snapshotBuckets = []string{bucketCustomers, bucketLeads, bucketOpportunities, bucketSalesRepresentatives}

// arena is the keyed in-memory contents of a snapshot store: one map of
// records per aggregate type, keyed by aggregate id.
type arena struct {
	customers            map[string]customerRecord
	leads                map[string]leadRecord
	opportunities        map[string]opportunityRecord
	salesRepresentatives map[string]salesRepresentativeRecord
}

func newArena() *arena {
	return &arena{
		customers:            make(map[string]customerRecord),
		leads:                make(map[string]leadRecord),
		opportunities:        make(map[string]opportunityRecord),
		salesRepresentatives: make(map[string]salesRepresentativeRecord),
	}
}

// clone returns a deep copy; no slice is shared with a.
func (a *arena) clone() *arena {
	cloned := newArena()
	for k, v := range a.customers {
		cloned.customers[k] = cloneCustomer(v)
	}
	for k, v := range a.leads {
		cloned.leads[k] = cloneLead(v)
	}
	for k, v := range a.opportunities {
		cloned.opportunities[k] = cloneOpportunity(v)
	}
	for k, v := range a.salesRepresentatives {
		cloned.salesRepresentatives[k] = cloneSalesRepresentative(v)
	}
	return cloned
}

// replaceWith clears a in place and refills it from a deep copy of src, so
// holders of a observe the restored contents.
func (a *arena) replaceWith(src *arena) {
	fresh := src.clone()
	clear(a.customers)
	clear(a.leads)
	clear(a.opportunities)
	clear(a.salesRepresentatives)
	maps.Copy(a.customers, fresh.customers)
	maps.Copy(a.leads, fresh.leads)
	maps.Copy(a.opportunities, fresh.opportunities)
	maps.Copy(a.salesRepresentatives, fresh.salesRepresentatives)
}

func (a *arena) size() int {
	return len(a.customers) + len(a.leads) + len(a.opportunities) + len(a.salesRepresentatives)
}

// encode renders every bucket as a JSON object keyed by id.
func (a *arena) encode() (Buckets, error) {
	out := make(Buckets, len(snapshotBuckets))
	for _, bucket := range snapshotBuckets {
		var (
			data []byte
			err  error
		)
		switch bucket {
		case bucketCustomers:
			data, err = json.Marshal(a.customers)
		case bucketLeads:
			data, err = json.Marshal(a.leads)
		case bucketOpportunities:
			data, err = json.Marshal(a.opportunities)
		case bucketSalesRepresentatives:
			data, err = json.Marshal(a.salesRepresentatives)
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		out[bucket] = data
	}
	return out, nil
}

// decodeArena rebuilds an arena from stored buckets. Unknown buckets are
// ignored and missing ones stay empty.
func decodeArena(b Buckets) (*arena, error) {
	a := newArena()
	targets := map[string]any{
		bucketCustomers:            &a.customers,
		bucketLeads:                &a.leads,
		bucketOpportunities:        &a.opportunities,
		bucketSalesRepresentatives: &a.salesRepresentatives,
	}
	for bucket, payload := range b {
		target, ok := targets[bucket]
		if !ok || len(payload) == 0 {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return nil, fmt.Errorf("decode %s: %w", bucket, err)
		}
	}
	// json.Unmarshal of "null" leaves a nil map behind.
	if a.customers == nil {
		a.customers = make(map[string]customerRecord)
	}
	if a.leads == nil {
		a.leads = make(map[string]leadRecord)
	}
	if a.opportunities == nil {
		a.opportunities = make(map[string]opportunityRecord)
	}
	if a.salesRepresentatives == nil {
		a.salesRepresentatives = make(map[string]salesRepresentativeRecord)
	}
	return a, nil
}
