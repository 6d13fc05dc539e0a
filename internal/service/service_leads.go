package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-institute-sync/internal/gateway"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/store"
	"github.com/MKhiriev/go-institute-sync/models"
)

type leadService struct {
	leads store.RecordCollection

	logger *logger.Logger
}

func NewLeadService(leads store.RecordCollection, logger *logger.Logger) LeadService {
	return &leadService{
		leads:  leads,
		logger: logger,
	}
}

// ListLeads returns every lead, newest first.
func (s *leadService) ListLeads(ctx context.Context) ([]models.Lead, error) {
	if _, err := authorize(ctx, models.CollectionLeads); err != nil {
		return nil, err
	}

	rows, err := s.leads.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	gateway.SortSnapshot(rows, collectionSettings[models.CollectionLeads].ordering)

	leads := make([]models.Lead, 0, len(rows))
	for _, row := range rows {
		lead, err := models.LeadFromRecord(row)
		if err != nil {
			s.logger.Warn().Err(err).Str("func", "leadService.ListLeads").Str("id", row.Key(models.DefaultPrimaryKey)).Msg("skipping unreadable lead")
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func (s *leadService) CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	session, err := authorize(ctx, models.CollectionLeads)
	if err != nil {
		return models.Lead{}, err
	}

	if lead.Status == "" {
		lead.Status = models.LeadNew
	}
	rec, err := s.leads.Add(ctx, leadFields(lead))
	if err != nil {
		return models.Lead{}, fmt.Errorf("create lead: %w", err)
	}

	created, err := models.LeadFromRecord(rec)
	if err != nil {
		return models.Lead{}, fmt.Errorf("%w: %w", ErrInvalidLeadPayload, err)
	}
	s.logger.Info().Str("func", "leadService.CreateLead").Str("id", created.ID).Str("user_id", session.UserID).Msg("lead created")
	return created, nil
}

func (s *leadService) UpdateLead(ctx context.Context, id string, lead models.Lead) (models.Lead, error) {
	if _, err := authorize(ctx, models.CollectionLeads); err != nil {
		return models.Lead{}, err
	}

	if lead.Status == "" {
		lead.Status = models.LeadNew
	}
	rec, err := s.leads.Update(ctx, id, leadFields(lead))
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.Lead{}, fmt.Errorf("%w: %s", ErrLeadNotFound, id)
	}
	if err != nil {
		return models.Lead{}, fmt.Errorf("update lead: %w", err)
	}

	updated, err := models.LeadFromRecord(rec)
	if err != nil {
		return models.Lead{}, fmt.Errorf("%w: %w", ErrInvalidLeadPayload, err)
	}
	return updated, nil
}

func (s *leadService) DeleteLead(ctx context.Context, id string) error {
	session, err := authorize(ctx, models.CollectionLeads)
	if err != nil {
		return err
	}

	err = s.leads.Delete(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrLeadNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	s.logger.Info().Str("func", "leadService.DeleteLead").Str("id", id).Str("user_id", session.UserID).Msg("lead deleted")
	return nil
}

// leadFields returns the editable fields of lead. Empty optional fields are
// kept so that an update can clear them.
func leadFields(lead models.Lead) models.Record {
	return models.Record{
		"name":   lead.Name,
		"phone":  lead.Phone,
		"email":  lead.Email,
		"course": lead.Course,
		"status": string(lead.Status),
		"notes":  lead.Notes,
	}
}
