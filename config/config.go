package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const defaultSessionTTL = 30 * time.Minute
const defaultPersonnelPageLimit = 100

type Config struct {
	config *viper.Viper
}

func Load() (*Config, error) {

	env := os.Getenv(keyEnv)
	if len(env) == 0 {
		env = envLocal
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}

	return port
}

func (c *Config) GetDatabaseURL() string {
	databaseURL := c.config.GetString("DATABASE_URL")
	if len(databaseURL) == 0 {
		databaseURL = c.config.GetString("database.url")
	}

	return databaseURL
}

func (c *Config) GetLineChannelSecret() string {
	secret := c.config.GetString("LINE_CHANNEL_SECRET")
	if len(secret) == 0 {
		secret = c.config.GetString("line.channel_secret")
	}

	return secret
}

func (c *Config) GetLineChannelToken() string {
	token := c.config.GetString("LINE_CHANNEL_ACCESS_TOKEN")
	if len(token) == 0 {
		token = c.config.GetString("line.channel_access_token")
	}

	return token
}

func (c *Config) GetSessionTTL() time.Duration {
	ttl := c.config.GetDuration("SESSION_TTL")
	if ttl == 0 {
		ttl = c.config.GetDuration("session.ttl")
	}
	if ttl == 0 {
		ttl = defaultSessionTTL
	}

	return ttl
}

func (c *Config) GetPersonnelPageLimit() int {
	limit := c.config.GetInt("PERSONNEL_PAGE_LIMIT")
	if limit == 0 {
		limit = c.config.GetInt("personnel.page_limit")
	}
	if limit == 0 {
		limit = defaultPersonnelPageLimit
	}

	return limit
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
