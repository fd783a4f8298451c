package health

// DatabaseHealth represents the state of the backing store
type DatabaseHealth struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// SystemHealth represents overall system health
type SystemHealth struct {
	Status        string         `json:"status"` // "healthy", "degraded", "unhealthy"
	Database      DatabaseHealth `json:"database"`
	TotalMessages int            `json:"total_messages"`
	TotalProfiles int            `json:"total_profiles"`
}
