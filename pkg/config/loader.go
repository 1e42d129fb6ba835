package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvInfo service names and paths from .env
type EnvInfo struct {
	// image name
	ChatBackend string

	// service port
	ChatBackendPort string

	// service yaml path
	ChatBackendYAMLPath string

	// service log path
	ChatBackendLogPath string
}

// EnvConfig service settings
var (
	EnvConfig = initEnv()
	envConfig EnvInfo
	once      sync.Once
	env       string
)

func initEnv() EnvInfo {
	once.Do(func() {

		path, err := GetPath(".env", 5)
		if err != nil {
			log.Printf("Warning: Could not get .env path: %v", err)
		}

		if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}

		env = os.Getenv("ENV")

		envConfig = EnvInfo{
			ChatBackend: os.Getenv("CHAT_BACKEND"),

			ChatBackendPort: os.Getenv("CHAT_BACKEND_PORT"),

			ChatBackendYAMLPath: os.Getenv("CHAT_BACKEND_YAML"),

			ChatBackendLogPath: os.Getenv("CHAT_BACKEND_LOG"),
		}
	})

	return envConfig
}

// IsProduction check run env
func IsProduction() bool {
	var b bool
	if env == "production" {
		b = true
	}
	return b
}

// IsLocal check run env
func IsLocal() bool {
	var b bool
	if env == "local" {
		b = true
	}
	return b
}

// LoadConfig load the service YAML into T
func LoadConfig[T any](serviceName string, configPath string) T {
	v := viper.New()
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error loading config file: %v", err)
	}

	rawConfig, err := os.ReadFile(v.ConfigFileUsed())
	if err != nil {
		log.Fatalf("Error reading raw config file: %v", err)
	}

	// expand ${} placeholders from the environment before the second parse
	expandedConfig := os.ExpandEnv(string(rawConfig))

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expandedConfig))); err != nil {
		log.Fatalf("Error reading expanded config: %v", err)
	}

	var cfg T
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Error unmarshaling config: %v", err)
	}
	return cfg
}

// GetRedisSetting get redis sentinel setting from .env
func GetRedisSetting() (string, []string) {
	path, err := GetPath(".env", 5)
	if err != nil {
		log.Printf("Warning: Could not get .env path: %v", err)
	}

	if err := godotenv.Load(path); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	envs := os.Environ()

	var (
		masterName    string
		sentinelAddrs []string
	)

	// collect REDIS_SENTINEL*_IP with the matching *_PORT
	for _, env := range envs {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := parts[0], parts[1]

		if strings.HasPrefix(key, "REDIS_SENTINEL") && strings.HasSuffix(key, "_IP") {
			portKey := strings.Replace(key, "_IP", "_PORT", 1)
			port := os.Getenv(portKey)
			if port != "" {
				sentinelAddrs = append(sentinelAddrs, fmt.Sprintf("%s:%s", value, port))
			}
		}
	}

	masterName = os.Getenv("REDIS_MASTER_NAME")
	if masterName == "" {
		masterName = "mymaster"
	}

	return masterName, sentinelAddrs
}

// GetPath use fileName loop maxCount find file path
func GetPath(fileName string, maxCount int) (string, error) {
	path := "./" + fileName

	for i := 0; i < maxCount; i++ {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = "../" + path
	}
	return "", errors.New(fileName + "can't find path ")
}
