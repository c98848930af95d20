// config.go
//
// Content editor and site server for a single-document static website
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of sitecms.
// sitecms is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// sitecms is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with sitecms.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package config

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Site server configuration
	Port         string
	SiteRoot     string
	DataFile     string
	NotFoundPage string
	SavePath     string

	// Editor configuration
	SiteURL        string
	DownloadDir    string
	RequestTimeout time.Duration

	// Remote repository configuration
	GitHubAPIURL string
	GitHubOwner  string
	GitHubRepo   string
	GitHubPath   string
	GitHubBranch string

	// State database configuration
	DBType            string // sqlite, mysql, postgres, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
}

// LoadEnvFile merges variables from a dotenv file into the environment.
// Variables already set are kept.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3001"),
		SiteRoot:          getEnv("SITE_ROOT", "."),
		DataFile:          getEnv("DATA_FILE", "data.json"),
		NotFoundPage:      getEnv("NOT_FOUND_PAGE", "404.html"),
		SavePath:          getEnv("SAVE_PATH", "/api/save"),
		SiteURL:           strings.TrimRight(getEnv("SITE_URL", "http://localhost:3001"), "/"),
		DownloadDir:       getEnv("DOWNLOAD_DIR", "."),
		RequestTimeout:    time.Duration(getEnvAsInt("REQUEST_TIMEOUT", 15)) * time.Second,
		GitHubAPIURL:      strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
		GitHubOwner:       getEnv("GITHUB_OWNER", ""),
		GitHubRepo:        getEnv("GITHUB_REPO", ""),
		GitHubPath:        getEnv("GITHUB_PATH", "data.json"),
		GitHubBranch:      getEnv("GITHUB_BRANCH", "main"),
		DBType:            getEnv("STATE_DB_TYPE", "sqlite"),
		DBHost:            getEnv("STATE_DB_HOST", "localhost"),
		DBPort:            getEnv("STATE_DB_PORT", "3306"),
		DBDatabase:        getEnv("STATE_DB_DATABASE", "sitecms-state.db"),
		DBUser:            getEnv("STATE_DB_USER", ""),
		DBPassword:        getEnv("STATE_DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("STATE_DB_CONNECTION_LIMIT", 5),
	}

	// Validate required fields
	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", cfg.Port)
	}
	if !strings.HasPrefix(cfg.SavePath, "/") {
		return nil, fmt.Errorf("SAVE_PATH must start with /")
	}
	if (cfg.GitHubOwner == "") != (cfg.GitHubRepo == "") {
		return nil, fmt.Errorf("GITHUB_OWNER and GITHUB_REPO must be set together")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("STATE_DB_USER is required for %s", cfg.DBType)
	}

	return cfg, nil
}

// DataPath is the on-disk location of the site document.
func (c *Config) DataPath() string {
	return filepath.Join(c.SiteRoot, c.DataFile)
}

// DocumentURL is where the editor fetches the published document.
func (c *Config) DocumentURL() string {
	return c.SiteURL + "/" + c.DataFile
}

// SaveURL is the site server's local write endpoint.
func (c *Config) SaveURL() string {
	return c.SiteURL + c.SavePath
}

// HTTPClient is the client for every outbound editor request, bounded by REQUEST_TIMEOUT.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.RequestTimeout}
}

// RemoteConfigured reports whether a remote repository target is set.
func (c *Config) RemoteConfigured() bool {
	return c.GitHubOwner != "" && c.GitHubRepo != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
