/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
)

// AbstractDatabaseManager defines the operations for managing a database
// connection, running migrations, initializing data, and reporting health.
type AbstractDatabaseManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Reconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthStatus
	GetDB() *bun.DB
	GetSQLDB() *sql.DB
	RunMigrations(ctx context.Context) error
	InitData(ctx context.Context) error
	GetStats() *DBStats
	SetLogger(logger Logger)
	SetModelBuilder(mb *ModelBuilder)
}

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	ResponseTime  time.Duration `json:"response_time"`
	ActiveConns   int           `json:"active_conns"`
	IdleConns     int           `json:"idle_conns"`
	MaxOpenConns  int           `json:"max_open_conns"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// DBStats mirrors database/sql stats returned by the manager.
type DBStats struct {
	MaxOpenConns      int           `json:"max_open_conns"`
	OpenConns         int           `json:"open_conns"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

// ConnectionConfig describes how to connect to a database and tune its pool.
type ConnectionConfig struct {
	Type                string        `mapstructure:"type"                  json:"type"` // postgres, mysql, sqlite
	Host                string        `mapstructure:"host"                  json:"host"`
	Port                int           `mapstructure:"port"                  json:"port"`
	Username            string        `mapstructure:"username"              json:"username"`
	Password            string        `mapstructure:"password"              json:"-"`
	DBName              string        `mapstructure:"dbname"                json:"dbname"`
	SSLMode             string        `mapstructure:"sslmode"               json:"sslmode"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns"        json:"max_idle_conns"`
	MaxOpenConns        int           `mapstructure:"max_open_conns"        json:"max_open_conns"`
	ConnMaxLifetime     time.Duration `mapstructure:"conn_max_lifetime"     json:"conn_max_lifetime"`
	ConnMaxIdleTime     time.Duration `mapstructure:"conn_max_idle_time"    json:"conn_max_idle_time"`
	ConnectTimeout      time.Duration `mapstructure:"connect_timeout"       json:"connect_timeout"`
	ReadTimeout         time.Duration `mapstructure:"read_timeout"          json:"read_timeout"`
	WriteTimeout        time.Duration `mapstructure:"write_timeout"         json:"write_timeout"`
	EnableReconnect     bool          `mapstructure:"enable_reconnect"      json:"enable_reconnect"`
	ReconnectInterval   time.Duration `mapstructure:"reconnect_interval"    json:"reconnect_interval"`
	MaxReconnectTries   int           `mapstructure:"max_reconnect_tries"   json:"max_reconnect_tries"`
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval" json:"health_check_interval"`
	EnableQueryLog      bool          `mapstructure:"enable_query_log"      json:"enable_query_log"`
	QueryLogStyle       string        `mapstructure:"query_log_style"       json:"query_log_style"` // bundebug, color
	SlowQueryTime       time.Duration `mapstructure:"slow_query_time"       json:"slow_query_time"`
	Charset             string        `mapstructure:"charset"               json:"charset"`
}

// DataMigrateConfig controls schema creation on startup.
type DataMigrateConfig struct {
	EnableMigrateOnStartup bool   `mapstructure:"enable_migrate_on_startup" json:"enable_migrate_on_startup"`
	EnableForeignKey       bool   `mapstructure:"enable_foreign_key"        json:"enable_foreign_key"`
	ForeignKeyFile         string `mapstructure:"foreign_key_file"          json:"foreign_key_file"`
}

// DataInitConfig controls seeding of HasData rows.
type DataInitConfig struct {
	AutoInitOnStartup   bool `mapstructure:"auto_init_on_startup"   json:"auto_init_on_startup"`
	AutoInitOnMigration bool `mapstructure:"auto_init_on_migration" json:"auto_init_on_migration"`
}

// Config aggregates connection, migration, and data initialization settings.
type Config struct {
	ConnectionConfig  ConnectionConfig  `mapstructure:"connection"   json:"connection_config"`
	DataMigrateConfig DataMigrateConfig `mapstructure:"migrate"      json:"data_migrate_config"`
	DataInitConfig    DataInitConfig    `mapstructure:"init"         json:"data_init_config"`
}

// DefaultConnectionConfig returns a connection config with sensible defaults.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		MaxIdleConns:        10,
		MaxOpenConns:        100,
		ConnMaxLifetime:     time.Hour,
		ConnMaxIdleTime:     time.Minute * 30,
		ConnectTimeout:      time.Second * 10,
		ReadTimeout:         time.Second * 30,
		WriteTimeout:        time.Second * 30,
		EnableReconnect:     true,
		ReconnectInterval:   time.Second * 5,
		MaxReconnectTries:   3,
		HealthCheckInterval: time.Minute * 5,
		QueryLogStyle:       "bundebug",
		SlowQueryTime:       time.Second * 2,
	}
}
