package models

// AppBuildInfo is the build metadata printed at startup and served by
// GET /api/version.
type AppBuildInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}
