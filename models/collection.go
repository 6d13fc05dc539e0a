package models

// Collection names known to the dashboard. Remote collections map one to one
// onto tables of the hosted database.
const (
	CollectionStudents     = "students"
	CollectionTeachers     = "teachers"
	CollectionBatches      = "batches"
	CollectionCourses      = "courses"
	CollectionResults      = "exam_results"
	CollectionCertificates = "certificates"
	CollectionResources    = "resources"
	CollectionAttendance   = "attendance"
	CollectionLeads        = "leads"
)

// Dashboard is the set of collections a signed-in user can see.
type Dashboard struct {
	Role        Role     `json:"role"`
	Name        string   `json:"name,omitempty"`
	Collections []string `json:"collections"`
}
