package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	SNSRegion      string
	SMSServiceName string // rendered into the SMS message prefix

	TokenSecret string // HMAC key for verification tokens

	DailyLimit      int
	CodeTTL         time.Duration // usability window of a sent code
	TokenTTL        time.Duration // validity window of an issued token
	QuotaWindow     time.Duration // rolling window for the daily cap
	StoreTTL        time.Duration // coarse storage TTL for both tables
	DispatchTimeout time.Duration // upper bound on one SNS publish

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	PendingCodes string
	SendQuotas   string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			PendingCodes: getEnv("DYNAMO_TABLE_PENDING_CODES", "pending_codes"),
			SendQuotas:   getEnv("DYNAMO_TABLE_SEND_QUOTAS", "send_quotas"),
		},

		SNSRegion:      getEnv("SNS_REGION", "us-east-1"),
		SMSServiceName: getEnv("SMS_SERVICE_NAME", "Dasii"),

		TokenSecret: getEnv("VERIFICATION_TOKEN_SECRET", ""),

		DailyLimit:      getEnvInt("DAILY_SEND_LIMIT", 10),
		CodeTTL:         time.Duration(getEnvInt("CODE_TTL_SECONDS", 180)) * time.Second,
		TokenTTL:        time.Duration(getEnvInt("TOKEN_TTL_SECONDS", 300)) * time.Second,
		QuotaWindow:     time.Duration(getEnvInt("QUOTA_WINDOW_HOURS", 24)) * time.Hour,
		StoreTTL:        time.Duration(getEnvInt("STORE_TTL_HOURS", 24)) * time.Hour,
		DispatchTimeout: time.Duration(getEnvInt("DISPATCH_TIMEOUT_SECONDS", 5)) * time.Second,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
