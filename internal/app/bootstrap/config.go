// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration surface for TripNest.
//
// Each key can be provided via config file, environment variable
// (TRIPNEST_ prefix, upper-cased, dots become underscores), or
// command-line flag. WAFFLE merges them in that order of precedence.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "tripnest", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "", Desc: "secret key for signing session cookies"},
	{Name: "session_name", Default: "tripnest-session", Desc: "session cookie name"},
	{Name: "session_domain", Default: "", Desc: "session cookie domain (blank = current host)"},
	{Name: "storage_local_path", Default: "./uploads/resources", Desc: "local directory for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving uploaded files"},
	{Name: "google_client_id", Default: "", Desc: "Google OAuth client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth client secret"},
	{Name: "base_url", Default: "http://localhost:8080", Desc: "base URL for OAuth callbacks"},
}

// LoadConfig loads core + app configuration for TripNest.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TRIPNEST", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:           appValues.String("mongo_uri"),
		MongoDatabase:      appValues.String("mongo_database"),
		SessionKey:         appValues.String("session_key"),
		SessionName:        appValues.String("session_name"),
		SessionDomain:      appValues.String("session_domain"),
		StorageLocalPath:   appValues.String("storage_local_path"),
		StorageLocalURL:    appValues.String("storage_local_url"),
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		BaseURL:            appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig checks that required configuration is present and
// well formed before the app connects to anything.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.MongoURI == "" {
		return fmt.Errorf("mongo_uri is required")
	}
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		return fmt.Errorf("invalid mongo_uri: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key is required")
	}
	if len(appCfg.SessionKey) < 32 && coreCfg.Env == "prod" {
		return fmt.Errorf("session_key must be at least 32 characters in prod")
	}
	if appCfg.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	appCfg.BaseURL = strings.TrimRight(appCfg.BaseURL, "/")

	// Google OAuth is optional, but half-configured is a mistake.
	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		return fmt.Errorf("google_client_id and google_client_secret must be set together")
	}
	if appCfg.GoogleClientID == "" {
		logger.Info("google oauth not configured; /auth/google routes disabled")
	}

	return nil
}
