// containers.go
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


// Package dbtest runs a throwaway state database in a container for integration
// tests and local development. Settings come from the STATE_DB_* environment.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/localnerve/sitecms/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Defaults used when the environment does not name them.
const (
	DefaultImage    = "mariadb:11"
	DefaultDatabase = "sitecms"
	DefaultUser     = "sitecms"
	DefaultPassword = "sitecms-password"
)

// StateDB is a running state database container.
type StateDB struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Env returns the STATE_DB_* lines that point a process at this container.
func (s *StateDB) Env() []string {
	return []string{
		"STATE_DB_TYPE=" + s.Config.DBType,
		"STATE_DB_HOST=" + s.Config.DBHost,
		"STATE_DB_PORT=" + s.Config.DBPort,
		"STATE_DB_DATABASE=" + s.Config.DBDatabase,
		"STATE_DB_USER=" + s.Config.DBUser,
		"STATE_DB_PASSWORD=" + s.Config.DBPassword,
	}
}

// Terminate stops and removes the container.
func (s *StateDB) Terminate(ctx context.Context) error {
	if s.Container == nil {
		return nil
	}
	return s.Container.Terminate(ctx)
}

// Start runs the configured database image and waits until it accepts connections.
func Start(ctx context.Context) (*StateDB, error) {
	dbType := getEnv("STATE_DB_TYPE", "mariadb")
	if dbType == "sqlite" {
		dbType = "mariadb"
	}

	defaultPort := "3306"
	defaultImage := DefaultImage
	if dbType == "postgres" || dbType == "postgresql" {
		defaultPort = "5432"
		defaultImage = "postgres:17"
	}

	cfg := &config.Config{
		DBType:            dbType,
		DBDatabase:        getEnv("STATE_DB_DATABASE", DefaultDatabase),
		DBUser:            getEnv("STATE_DB_USER", DefaultUser),
		DBPassword:        getEnv("STATE_DB_PASSWORD", DefaultPassword),
		DBConnectionLimit: 4,
	}

	tcpPort, err := nat.NewPort("tcp", defaultPort)
	if err != nil {
		return nil, fmt.Errorf("failed to create database port: %w", err)
	}

	var waitFor wait.Strategy = wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second)
	if defaultPort == "5432" {
		// postgres restarts once after init, so the first ready line is too early
		waitFor = wait.ForAll(
			wait.ForListeningPort(tcpPort).WithStartupTimeout(90*time.Second),
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90*time.Second),
		)
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        getEnv("STATE_DB_IMAGE", defaultImage),
			ExposedPorts: []string{string(tcpPort)},
			Env:          initEnv(cfg),
			WaitingFor:   waitFor,
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start state database: %w", err)
	}
	stateDB := &StateDB{Container: container, Config: cfg}

	cfg.DBHost, err = container.Host(ctx)
	if err != nil {
		stateDB.Terminate(context.Background())
		return nil, fmt.Errorf("failed to get database host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		stateDB.Terminate(context.Background())
		return nil, fmt.Errorf("failed to get database port: %w", err)
	}
	cfg.DBPort = mapped.Port()

	if dbType == "mysql" || dbType == "mariadb" {
		if err := waitForMySQL(cfg); err != nil {
			stateDB.Terminate(context.Background())
			return nil, err
		}
	}

	return stateDB, nil
}

// initEnv is the image environment that creates the database and its user.
func initEnv(cfg *config.Config) map[string]string {
	switch cfg.DBType {
	case "postgres", "postgresql":
		return map[string]string{
			"POSTGRES_DB":       cfg.DBDatabase,
			"POSTGRES_USER":     cfg.DBUser,
			"POSTGRES_PASSWORD": cfg.DBPassword,
		}
	default:
		return map[string]string{
			"MYSQL_ROOT_PASSWORD": cfg.DBPassword,
			"MYSQL_DATABASE":      cfg.DBDatabase,
			"MYSQL_USER":          cfg.DBUser,
			"MYSQL_PASSWORD":      cfg.DBPassword,
		}
	}
}

// waitForMySQL pings until the server answers. The port opens before init finishes.
func waitForMySQL(cfg *config.Config) error {
	db, err := sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBDatabase))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	for i := 0; i < 30; i++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Second)
	}
	return fmt.Errorf("database not ready after 30 seconds: %w", err)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
