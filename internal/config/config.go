package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Supabase SupabaseConfig `mapstructure:"supabase" validate:"required"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// SupabaseConfig contains the connection settings for the external
// Supabase backend that owns identity and storage.
//
// AnonKey is the caller-scoped key used for reads. ServiceKey is the
// elevated key used for writes that must bypass row-level security.
// JWTSecret, when set, enables local verification of access tokens
// without a network round trip per request.
type SupabaseConfig struct {
	URL        string `mapstructure:"url"         validate:"required,url"`
	AnonKey    string `mapstructure:"anon_key"    validate:"required"`
	ServiceKey string `mapstructure:"service_key" validate:"required"`
	JWTSecret  string `mapstructure:"jwt_secret"`
}

// CORSConfig controls cross-origin access to the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}
