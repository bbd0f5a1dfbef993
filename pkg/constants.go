package pkg

// Common API path constants.
const (
	// BasePath is the root path for the API.
	BasePath = "/v1"

	// HealthCheckPath is the static health endpoint; it checks no dependencies.
	HealthCheckPath = BasePath + "/health"
)
