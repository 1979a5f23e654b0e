package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	OpenAI    OpenAIConfig
	Model     ModelConfig
	Triage    TriageConfig
	Hospitals HospitalConfig
	Media     MediaConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// OpenAIConfig holds the intelligence service configuration
type OpenAIConfig struct {
	APIKey  string
	Model   string
	Enabled bool
}

// ModelConfig holds the trained classifier artifact configuration
type ModelConfig struct {
	ArtifactPath string
	Enabled      bool
}

// TriageConfig holds the decision thresholds for the triage engine
type TriageConfig struct {
	CriticalSeverityThreshold float64
	EstimatedResponseMinutes  int
	DefaultCategory           string
}

// HospitalConfig holds hospital directory configuration
type HospitalConfig struct {
	Provider        string
	OverpassURL     string
	DefaultRadiusKm float64
	MaxResults      int
}

// MediaConfig holds limits for the voice and image front-ends
type MediaConfig struct {
	MaxAudioDurationSeconds int
	MaxImageSizeBytes       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Enabled: getEnvAsBool("AI_ENABLED", true),
		},
		Model: ModelConfig{
			ArtifactPath: getEnv("MODEL_ARTIFACT_PATH", ""),
			Enabled:      getEnvAsBool("MODEL_ENABLED", true),
		},
		Triage: TriageConfig{
			CriticalSeverityThreshold: getEnvAsFloat("CRITICAL_SEVERITY_THRESHOLD", 0.8),
			EstimatedResponseMinutes:  getEnvAsInt("ESTIMATED_RESPONSE_MINUTES", 15),
			DefaultCategory:           getEnv("DEFAULT_EMERGENCY_TYPE", "unknown"),
		},
		Hospitals: HospitalConfig{
			Provider:        getEnv("HOSPITAL_PROVIDER", "synthetic"),
			OverpassURL:     getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			DefaultRadiusKm: getEnvAsFloat("DEFAULT_HOSPITAL_RADIUS", 10),
			MaxResults:      getEnvAsInt("MAX_HOSPITAL_RESULTS", 10),
		},
		Media: MediaConfig{
			MaxAudioDurationSeconds: getEnvAsInt("MAX_AUDIO_DURATION", 60),
			MaxImageSizeBytes:       getEnvAsInt("MAX_IMAGE_SIZE", 5242880),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "lifeline-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
