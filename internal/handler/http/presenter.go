package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-institute-sync/internal/utils"
	"github.com/MKhiriev/go-institute-sync/models"
)

// Record fields rewritten for display.
const (
	fieldAadhaar    = "aadhaar"
	fieldPhone      = "phone"
	fieldPresent    = "present"
	fieldTotal      = "total"
	fieldPercentage = "percentage"
	fieldColor      = "color"

	displaySuffix = "_display"
)

// phoneCollections carry contact numbers that only admins see unmasked.
var phoneCollections = map[string]struct{}{
	models.CollectionStudents: {},
	models.CollectionTeachers: {},
	models.CollectionLeads:    {},
}

// dateFields get a human readable "<field>_display" companion.
var dateFields = []string{"created_at", "submitted_at", "issued_at", "exam_date", "date"}

// presentState prepares a collection state for the signed-in user. The
// cached records are never modified.
func presentState(ctx context.Context, name string, state models.SyncState) models.SyncState {
	session, _ := utils.SessionFromContext(ctx)
	out := state.Clone()
	for _, record := range out.Snapshot {
		presentRecord(name, session.Role, record)
	}
	return out
}

func presentRecord(name string, role models.Role, record models.Record) {
	if role != models.RoleAdmin {
		if name == models.CollectionStudents {
			var aadhaar *string
			if s, ok := record[fieldAadhaar].(string); ok {
				aadhaar = &s
			}
			record[fieldAadhaar] = utils.MaskAadhaar(aadhaar)
		}
		if _, ok := phoneCollections[name]; ok {
			if phone, ok := record[fieldPhone].(string); ok {
				record[fieldPhone] = utils.MaskPhone(phone)
			}
		}
	}

	if name == models.CollectionAttendance {
		presentAttendance(record)
	}

	for _, field := range dateFields {
		raw, ok := record[field].(string)
		if !ok {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			record[field+displaySuffix] = utils.FormatDate(t)
		} else if t, err = time.Parse(time.DateOnly, raw); err == nil {
			record[field+displaySuffix] = utils.FormatDate(t)
		}
	}
}

// presentAttendance fills percentage from present/total when it is missing
// and adds the display color.
func presentAttendance(record models.Record) {
	pct, ok := asFloat(record[fieldPercentage])
	if !ok {
		present, okPresent := asFloat(record[fieldPresent])
		total, okTotal := asFloat(record[fieldTotal])
		if !okPresent || !okTotal {
			return
		}
		pct = utils.AttendancePercentage(int(present), int(total))
		record[fieldPercentage] = pct
	}
	record[fieldColor] = utils.AttendanceColor(pct)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
