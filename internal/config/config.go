// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the configuration of the QR code server from
// an optional YAML file and QRD_ environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	qr "github.com/unixdj/qrsym"
)

// EnvPrefix prefixes environment variables, e.g. QRD_ENCODE_LEVEL=H.
const EnvPrefix = "QRD"

// maxScale bounds render.max_scale.  Larger symbols may still exceed
// the renderer's image size limit at this scale.
const maxScale = 64

// maxBorder bounds render.border, in modules.
const maxBorder = 64

type Config struct {
	Server struct {
		Addr            string        `mapstructure:"addr"`
		MetricsPath     string        `mapstructure:"metrics_path"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Encode struct {
		Level    string `mapstructure:"level"`
		Parallel bool   `mapstructure:"parallel"`
		MaxText  int    `mapstructure:"max_text"`
	} `mapstructure:"encode"`

	Render struct {
		Scale    int `mapstructure:"scale"`
		MaxScale int `mapstructure:"max_scale"`
		Border   int `mapstructure:"border"`
	} `mapstructure:"render"`

	Cache struct {
		Entries int `mapstructure:"entries"`
	} `mapstructure:"cache"`

	Log struct {
		Debug bool `mapstructure:"debug"`
	} `mapstructure:"log"`
}

// Load reads the configuration file at path, if path is not empty,
// applies environment overrides and defaults, and validates the
// result.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	// QRD_SERVER_ADDR overrides server.addr
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_path", "/metrics")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("encode.level", "M")
	v.SetDefault("encode.parallel", false)
	v.SetDefault("encode.max_text", 4096)
	v.SetDefault("render.scale", qr.DefaultScale)
	v.SetDefault("render.max_scale", 32)
	v.SetDefault("render.border", qr.DefaultBorder)
	v.SetDefault("cache.entries", 512)
	v.SetDefault("log.debug", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level returns the default error correction level.
func (c *Config) Level() qr.Level {
	l, _ := qr.ParseLevel(c.Encode.Level)
	return l
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return fmt.Errorf("config: server.addr is empty")
	case !strings.HasPrefix(c.Server.MetricsPath, "/"):
		return fmt.Errorf("config: server.metrics_path %q: not an absolute path",
			c.Server.MetricsPath)
	case c.Encode.MaxText <= 0:
		return fmt.Errorf("config: encode.max_text %d: must be positive",
			c.Encode.MaxText)
	case c.Render.MaxScale <= 0 || c.Render.MaxScale > maxScale:
		return fmt.Errorf("config: render.max_scale %d: must be between 1 and %d",
			c.Render.MaxScale, maxScale)
	case c.Render.Scale <= 0 || c.Render.Scale > c.Render.MaxScale:
		return fmt.Errorf("config: render.scale %d: must be between 1 and %d",
			c.Render.Scale, c.Render.MaxScale)
	case c.Render.Border < 0 || c.Render.Border > maxBorder:
		return fmt.Errorf("config: render.border %d: must be between 0 and %d",
			c.Render.Border, maxBorder)
	case c.Cache.Entries < 0:
		return fmt.Errorf("config: cache.entries %d: negative", c.Cache.Entries)
	}
	if _, err := qr.ParseLevel(c.Encode.Level); err != nil {
		return fmt.Errorf("config: encode.level %q: %w", c.Encode.Level, err)
	}
	return nil
}
