package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	DefaultWarehouseBackend = "postgres"
	DefaultWarehouseSchema  = "public"
	DefaultBigQueryLocation = "US"

	DefaultQueryTimeoutSeconds = 90
	DefaultMaxConcurrentCalls  = 8
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
	"http://localhost:8501",
}
