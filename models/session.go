package models

// Session is the signed-in user as seen by the dashboard. It is carried
// explicitly through request contexts instead of living in a global.
type Session struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role"`
}
