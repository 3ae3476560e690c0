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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrConfigLoadFailed = errors.New("loading database configuration failed")

// DefaultViper returns a viper instance holding the defaults of Config and
// reading BEDROCK_ prefixed environment variables, e.g.
// BEDROCK_CONNECTION_HOST for connection.host.
func DefaultViper() *viper.Viper {
	vip := viper.New()
	def := DefaultConnectionConfig()

	vip.SetDefault("connection.type", "sqlite")
	vip.SetDefault("connection.host", "localhost")
	vip.SetDefault("connection.port", 0)
	vip.SetDefault("connection.username", "")
	vip.SetDefault("connection.password", "")
	vip.SetDefault("connection.dbname", "bedrock")
	vip.SetDefault("connection.sslmode", "disable")
	vip.SetDefault("connection.charset", "")
	vip.SetDefault("connection.max_idle_conns", def.MaxIdleConns)
	vip.SetDefault("connection.max_open_conns", def.MaxOpenConns)
	vip.SetDefault("connection.conn_max_lifetime", def.ConnMaxLifetime)
	vip.SetDefault("connection.conn_max_idle_time", def.ConnMaxIdleTime)
	vip.SetDefault("connection.connect_timeout", def.ConnectTimeout)
	vip.SetDefault("connection.read_timeout", def.ReadTimeout)
	vip.SetDefault("connection.write_timeout", def.WriteTimeout)
	vip.SetDefault("connection.enable_reconnect", def.EnableReconnect)
	vip.SetDefault("connection.reconnect_interval", def.ReconnectInterval)
	vip.SetDefault("connection.max_reconnect_tries", def.MaxReconnectTries)
	vip.SetDefault("connection.health_check_interval", def.HealthCheckInterval)
	vip.SetDefault("connection.enable_query_log", def.EnableQueryLog)
	vip.SetDefault("connection.query_log_style", def.QueryLogStyle)
	vip.SetDefault("connection.slow_query_time", def.SlowQueryTime)

	vip.SetDefault("migrate.enable_migrate_on_startup", true)
	vip.SetDefault("migrate.enable_foreign_key", true)
	vip.SetDefault("migrate.foreign_key_file", "")

	vip.SetDefault("init.auto_init_on_startup", false)
	vip.SetDefault("init.auto_init_on_migration", true)

	vip.SetEnvPrefix("BEDROCK")
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	return vip
}

// LoadConfig reads path (yaml, json or toml, by extension) over the
// defaults. An empty path yields the defaults and environment only.
func LoadConfig(path string) (*Config, error) {
	vip := DefaultViper()
	if path != "" {
		vip.SetConfigFile(path)
		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)
		}
	}
	cfg := &Config{}
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)
	}
	return cfg, nil
}
