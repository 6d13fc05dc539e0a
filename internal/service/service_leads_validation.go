package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-institute-sync/internal/validators"
	"github.com/MKhiriev/go-institute-sync/models"
)

// LeadServiceWrapper defines middleware composition for LeadService.
// Implementations wrap an existing LeadService to add behavior such as
// validation.
type LeadServiceWrapper interface {
	Wrap(LeadService) LeadService
}

type LeadValidationService struct {
	inner     LeadService
	validator validators.Validator
}

func NewLeadValidationService(validator validators.Validator) LeadServiceWrapper {
	return &LeadValidationService{
		validator: validator,
	}
}

func (v *LeadValidationService) ListLeads(ctx context.Context) ([]models.Lead, error) {
	return v.inner.ListLeads(ctx)
}

func (v *LeadValidationService) CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	lead = normalizeLead(lead)
	if err := v.validator.Validate(ctx, lead); err != nil {
		return models.Lead{}, fmt.Errorf("error during lead validation before saving: %w", err)
	}
	return v.inner.CreateLead(ctx, lead)
}

func (v *LeadValidationService) UpdateLead(ctx context.Context, id string, lead models.Lead) (models.Lead, error) {
	if strings.TrimSpace(id) == "" {
		return models.Lead{}, fmt.Errorf("%w: empty id", ErrLeadNotFound)
	}
	lead = normalizeLead(lead)
	if err := v.validator.Validate(ctx, lead); err != nil {
		return models.Lead{}, fmt.Errorf("error during lead validation before update: %w", err)
	}
	return v.inner.UpdateLead(ctx, id, lead)
}

func (v *LeadValidationService) DeleteLead(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty id", ErrLeadNotFound)
	}
	return v.inner.DeleteLead(ctx, id)
}

func (v *LeadValidationService) Wrap(wrapped LeadService) LeadService {
	v.inner = wrapped
	return v
}

func normalizeLead(lead models.Lead) models.Lead {
	lead.Name = strings.TrimSpace(lead.Name)
	lead.Phone = validators.NormalizePhone(lead.Phone)
	lead.Email = strings.ToLower(strings.TrimSpace(lead.Email))
	lead.Course = strings.TrimSpace(lead.Course)
	lead.Status = models.LeadStatus(strings.ToLower(strings.TrimSpace(string(lead.Status))))
	return lead
}
