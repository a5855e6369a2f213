package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 3333
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultServerURL = "http://localhost:3333"

	DefaultRateLimitPerMinute = 60

	DefaultDatabaseMaxConns = 8
	DefaultQueryTimeout     = 5 // seconds

	DefaultToolTimeout      = 10 // seconds
	DefaultReasoningTimeout = 60 // seconds

	DefaultAnthropicModel = "claude-sonnet-4-6"
	DefaultMaxTokens      = 1024

	DefaultMaxPromptLength = 2000

	DefaultCORSMaxAge = 300
)

// DefaultSystemPrompt seeds every conversation.
const DefaultSystemPrompt = "You are an HR analytics assistant. " +
	"You remember conversation context and resolve pronouns " +
	"like he, she, his, her, that employee based on prior answers. " +
	"Use tools whenever structured employee data is required."

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}

var DefaultSensitiveFields = []string{
	"email", "phone", "ssn", "social_security_number",
	"password", "secret", "token",
}

var DefaultPIIKeywords = []string{
	"password", "ssn", "social security", "credit card",
	"bank account", "private key", "access token", "api key",
}
