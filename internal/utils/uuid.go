package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered ids for records, trace ids and change
// channel names.
type UUIDGenerator struct {
	fallback func() string
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{fallback: uuid.NewString}
}

// Generate returns a UUIDv7. When the v7 source fails a random UUIDv4 is
// returned instead.
func (g *UUIDGenerator) Generate() string {
	if v7, err := uuid.NewV7(); err == nil {
		return v7.String()
	}
	if g == nil || g.fallback == nil {
		return uuid.NewString()
	}
	return g.fallback()
}

// Named returns "<name>-<sep>-<uuid>", e.g. "batches-changes-0190...".
func (g *UUIDGenerator) Named(name, sep string) string {
	return name + "-" + sep + "-" + g.Generate()
}
