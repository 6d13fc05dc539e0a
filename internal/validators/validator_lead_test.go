package validators

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-institute-sync/models"
)

func newTestValidator(t *testing.T) *LeadValidator {
	t.Helper()
	v, err := NewLeadValidator()
	require.NoError(t, err)
	return v
}

func validLead() models.Lead {
	return models.Lead{
		Name:   "Asha Verma",
		Phone:  "+919876543210",
		Email:  "asha@example.com",
		Course: "NEET Foundation",
		Status: models.LeadNew,
	}
}

func TestLeadValidator_Valid(t *testing.T) {
	v := newTestValidator(t)
	lead := validLead()

	assert.NoError(t, v.Validate(context.Background(), lead))
	assert.NoError(t, v.Validate(context.Background(), &lead))
}

func TestLeadValidator_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Lead)
		field  string
	}{
		{"missing name", func(l *models.Lead) { l.Name = "" }, "name"},
		{"blank name", func(l *models.Lead) { l.Name = "   " }, "name"},
		{"short name", func(l *models.Lead) { l.Name = "A" }, "name"},
		{"missing phone", func(l *models.Lead) { l.Phone = "" }, "phone"},
		{"letters in phone", func(l *models.Lead) { l.Phone = "98765abcde" }, "phone"},
		{"short phone", func(l *models.Lead) { l.Phone = "12345" }, "phone"},
		{"bad email", func(l *models.Lead) { l.Email = "not-an-email" }, "email"},
		{"unknown status", func(l *models.Lead) { l.Status = "archived" }, "status"},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := validLead()
			tt.mutate(&lead)

			err := v.Validate(context.Background(), lead)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Contains(t, vErr.Fields, tt.field)
			assert.NotEmpty(t, vErr.Fields[tt.field])
		})
	}
}

func TestLeadValidator_Messages(t *testing.T) {
	v := newTestValidator(t)
	lead := validLead()
	lead.Name = "   "
	lead.Phone = "abc"

	err := v.Validate(context.Background(), lead)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "name cannot be blank", vErr.Fields["name"])
	assert.Equal(t, "phone must be a valid phone number", vErr.Fields["phone"])
	assert.Equal(t, "validation failed: name: name cannot be blank; phone: phone must be a valid phone number", err.Error())
}

func TestLeadValidator_FieldScoping(t *testing.T) {
	v := newTestValidator(t)
	lead := validLead()
	lead.Email = "broken"
	lead.Phone = ""

	// только email
	err := v.Validate(context.Background(), lead, "email")
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Fields, 1)
	assert.Contains(t, vErr.Fields, "email")

	assert.NoError(t, v.Validate(context.Background(), lead, "name"))
}

func TestLeadValidator_UnsupportedType(t *testing.T) {
	v := newTestValidator(t)

	assert.ErrorIs(t, v.Validate(context.Background(), "lead"), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(context.Background(), (*models.Lead)(nil)), ErrUnsupportedType)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+919876543210", NormalizePhone(" +91 98765-43210 "))
	assert.Equal(t, "02212345678", NormalizePhone("(022) 1234.5678"))
}
