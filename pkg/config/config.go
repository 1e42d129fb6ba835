package config

// ChatBackend definition chat_backend YAML structure
type ChatBackend struct {
	Port string `mapstructure:"port"`

	Presence   PresenceConfig `mapstructure:"presence"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	Redis      RedisConfig    `mapstructure:"redis"`
}

// PresenceConfig definition presence marker setting
type PresenceConfig struct {
	// KeyPrefix prepended to every presence cache key, e.g. "user:"
	KeyPrefix string `mapstructure:"key_prefix"`
	// TTLMinutes heartbeat duration of the online marker
	TTLMinutes int `mapstructure:"ttl_minutes"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
