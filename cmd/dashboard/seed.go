package main

import (
	"github.com/MKhiriev/go-institute-sync/internal/gateway"
	"github.com/MKhiriev/go-institute-sync/models"
)

// seedDemo fills the memory gateway with a small institute so the dashboard
// has something to show without a database.
func seedDemo(g *gateway.MemoryGateway) {
	g.Seed(models.CollectionCourses, models.Snapshot{
		{"id": "c1", "name": "Mathematics", "duration_months": 12},
		{"id": "c2", "name": "Physics", "duration_months": 6},
	})
	g.Seed(models.CollectionBatches, models.Snapshot{
		{"id": "b1", "name": "Morning A", "course_id": "c1", "teacher_id": "t1"},
		{"id": "b2", "name": "Evening B", "course_id": "c2", "teacher_id": "t2"},
	})
	g.Seed(models.CollectionTeachers, models.Snapshot{
		{"id": "t1", "name": "Anna Petrova", "phone": "+79001234567"},
		{"id": "t2", "name": "Omar Haddad", "phone": "+971501234567"},
	})
	g.Seed(models.CollectionStudents, models.Snapshot{
		{"id": "s1", "name": "Ivan Sidorov", "batch_id": "b1", "phone": "+79007654321"},
		{"id": "s2", "name": "Lena Kim", "batch_id": "b2", "phone": "+79005550101"},
	})
	g.Seed(models.CollectionResults, models.Snapshot{
		{"id": "r1", "student_id": "s1", "course_id": "c1", "score": 87, "submitted_at": "2026-09-01T10:00:00Z"},
		{"id": "r2", "student_id": "s2", "course_id": "c2", "score": 72, "submitted_at": "2026-09-03T10:00:00Z"},
	})
	g.Seed(models.CollectionAttendance, models.Snapshot{
		{"id": "a1", "student_id": "s1", "present": 18, "total": 20},
		{"id": "a2", "student_id": "s2", "present": 14, "total": 20},
	})
	g.Seed(models.CollectionCertificates, models.Snapshot{
		{"id": "cert1", "student_id": "s1", "course_id": "c1", "issued_at": "2026-06-30"},
	})
	g.Seed(models.CollectionResources, models.Snapshot{
		{"id": "res1", "title": "Algebra notes", "course_id": "c1", "url": "https://example.org/algebra.pdf"},
	})
}
