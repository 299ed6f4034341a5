package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	AppName     = "grab-admin-bot"
	EnvFileName = "config.env"
)

// RequiredVars are the environment variables the bot cannot start without.
var RequiredVars = []string{
	"BOT_TOKEN",
	"GRAB_API_URL",
	"ADMIN_TELEGRAM_ID",
	"GRAB_TOKEN_KEY",
}

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// MissingVars returns the names of required variables that are not set.
func MissingVars() []string {
	var missing []string
	for _, name := range RequiredVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
