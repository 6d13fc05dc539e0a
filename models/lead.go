package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// LeadStatus is the stage of an admission enquiry.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// Lead is an admission enquiry. Leads are kept only in the local persisted
// store, never in the hosted database.
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name" validate:"required,notblank,min=2,max=120"`
	Phone     string     `json:"phone" validate:"required,phone"`
	Email     string     `json:"email,omitempty" validate:"omitempty,email"`
	Course    string     `json:"course,omitempty" validate:"max=120"`
	Status    LeadStatus `json:"status" validate:"omitempty,oneof=new contacted converted lost"`
	Notes     string     `json:"notes,omitempty" validate:"max=2000"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToRecord converts the lead into its generic record form.
func (l Lead) ToRecord() (Record, error) {
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode lead: %w", err)
	}
	var rec Record
	if err = json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode lead record: %w", err)
	}
	return rec, nil
}

// LeadFromRecord converts a generic record back into a [Lead].
func LeadFromRecord(rec Record) (Lead, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return Lead{}, fmt.Errorf("encode lead record: %w", err)
	}
	var lead Lead
	if err = json.Unmarshal(raw, &lead); err != nil {
		return Lead{}, fmt.Errorf("decode lead: %w", err)
	}
	return lead, nil
}
