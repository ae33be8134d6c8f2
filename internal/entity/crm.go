package entity

import (
	"context"
	"encoding/json"
	"strings"
)

// CrmDocument is the single unit of storage: every write replaces it whole.
// Top-level keys other than crm_leads and deals are carried in Extra.
type CrmDocument struct {
	Leads []Lead `json:"crm_leads"`
	Deals []Deal `json:"deals"`

	Extra map[string]json.RawMessage `json:"-"`
}

type documentAlias CrmDocument

func (d *CrmDocument) UnmarshalJSON(data []byte) error {
	var a documentAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, "crm_leads")
	delete(raw, "deals")
	if len(raw) > 0 {
		a.Extra = raw
	}
	*d = CrmDocument(a)
	return nil
}

func (d CrmDocument) MarshalJSON() ([]byte, error) {
	a := documentAlias(d)
	if a.Leads == nil {
		a.Leads = []Lead{}
	}
	if a.Deals == nil {
		a.Deals = []Deal{}
	}
	base, err := json.Marshal(a)
	if err != nil || len(d.Extra) == 0 {
		return base, err
	}

	merged := make(map[string]json.RawMessage, len(d.Extra)+2)
	for k, v := range d.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// FindLead returns a pointer into Leads so callers can mutate in place.
func (d *CrmDocument) FindLead(recordID string) *Lead {
	for i := range d.Leads {
		if d.Leads[i].RecordID == recordID {
			return &d.Leads[i]
		}
	}
	return nil
}

func (d *CrmDocument) FindLeadByName(firstName, lastName, company string) *Lead {
	for i := range d.Leads {
		l := &d.Leads[i]
		if strings.EqualFold(l.FirstName, firstName) &&
			strings.EqualFold(l.LastName, lastName) &&
			strings.EqualFold(l.CompanyName, company) {
			return l
		}
	}
	return nil
}

// CompanyWebsite looks up the website of the first lead whose company name
// matches case-insensitively.
func (d *CrmDocument) CompanyWebsite(company string) string {
	for _, l := range d.Leads {
		if strings.EqualFold(l.CompanyName, company) {
			return l.CompanyWebsite
		}
	}
	return ""
}

// CrmDocumentRepository is implemented by the JSON file store and the
// Postgres store.
type CrmDocumentRepository interface {
	Load(ctx context.Context) (*CrmDocument, error)
	Save(ctx context.Context, doc *CrmDocument) error
	// Update runs fn between a load and a save while holding the writer
	// lock. The document is saved only when fn returns changed=true.
	Update(ctx context.Context, fn func(doc *CrmDocument) (changed bool, err error)) error
}
