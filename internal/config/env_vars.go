package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	envPrefix     = "AUTHCTL"
	configFileVar = "AUTHCTL_CONFIG"
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	folderEnvVar  = "FOLDER"
	baseURLVar    = "BASE_URL"
)

var (
	settings     *viper.Viper
	settingsOnce sync.Once
)

// values returns the shared viper instance. Environment variables use the
// AUTHCTL_ prefix and win over the optional TOML file named by AUTHCTL_CONFIG.
func values() *viper.Viper {
	settingsOnce.Do(func() {
		v := viper.New()
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		if path := os.Getenv(configFileVar); path != "" {
			v.SetConfigType("toml")
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				log.Err(err).Str("path", path).Msg("config: failed to read config file")
			}
		}
		settings = v
	})
	return settings
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Auth Client")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetEnv() string {
	return GetEnv("ENV", "DEV")
}

// GetBaseURL returns the public URL of the reference server (e.g., "https://auth.example.com")
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

// GetEnv looks up AUTHCTL_<envVar>, falling back to the config file key and then defaultValue.
func GetEnv(envVar, defaultValue string) string {
	value := values().GetString(strings.ToLower(envVar))
	if value == "" {
		return defaultValue
	}
	return value
}

func GetInt(envVar string, defaultValue int) int {
	v := values()
	key := strings.ToLower(envVar)
	if !v.IsSet(key) || v.GetString(key) == "" {
		return defaultValue
	}
	return v.GetInt(key)
}

func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	v := values()
	key := strings.ToLower(envVar)
	if !v.IsSet(key) || v.GetString(key) == "" {
		return defaultValue
	}
	return v.GetDuration(key)
}
