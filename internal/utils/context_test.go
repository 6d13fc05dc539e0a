// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-institute-sync/models"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestSessionCtxKey(t *testing.T) {
	if SessionCtxKey.String() != "session" {
		t.Errorf("expected 'session', got '%s'", SessionCtxKey.String())
	}
}

func TestSessionFromContext_Success(t *testing.T) {
	want := models.Session{UserID: "u-1", Name: "Priya", Role: models.RoleTeacher}
	ctx := WithSession(context.Background(), want)

	got, ok := SessionFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSessionFromContext_Missing(t *testing.T) {
	got, ok := SessionFromContext(context.Background())

	if ok {
		t.Error("expected ok=false for missing session")
	}
	if got != (models.Session{}) {
		t.Errorf("expected zero session, got %+v", got)
	}
}

func TestSessionFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), SessionCtxKey, "admin")

	_, ok := SessionFromContext(ctx)

	if ok {
		t.Error("expected ok=false for wrong value type")
	}
}
