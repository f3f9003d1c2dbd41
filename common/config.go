package common

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file.
type Config struct {
	Checker struct {
		ConnectTimeout time.Duration `yaml:"connect_timeout"`
		Timeout        time.Duration `yaml:"timeout"`
		Window         int           `yaml:"window"`
		Endpoint       string        `yaml:"endpoint"`
		UserAgent      string        `yaml:"user_agent"`
	} `yaml:"checker"`

	Geo struct {
		Disabled bool   `yaml:"disabled"`
		API      string `yaml:"api"`
		GeoIPDB  string `yaml:"geoip_db"`
	} `yaml:"geo"`

	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`

	Monitor struct {
		Schedule string `yaml:"schedule"`
		TgAlert  bool   `yaml:"tg_alert"`
	} `yaml:"monitor"`
}

// LoadConfig reads and decodes the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Apply copies configured values into opt. Values for flags named in
// explicit were given on the command line and win over the file.
func (c *Config) Apply(opt *Options, explicit map[string]bool) {
	set := func(flag string, ok bool, fn func()) {
		if ok && !explicit[flag] {
			fn()
		}
	}

	set("connect-timeout", c.Checker.ConnectTimeout > 0, func() { opt.ConnectTimeout = c.Checker.ConnectTimeout })
	set("t", c.Checker.Timeout > 0, func() { opt.Timeout = c.Checker.Timeout })
	set("w", c.Checker.Window > 0, func() { opt.Window = c.Checker.Window })
	set("endpoint", c.Checker.Endpoint != "", func() { opt.Endpoint = c.Checker.Endpoint })
	set("user-agent", c.Checker.UserAgent != "", func() { opt.UserAgent = c.Checker.UserAgent })

	set("no-geo", c.Geo.Disabled, func() { opt.NoGeo = true })
	set("geo-api", c.Geo.API != "", func() { opt.GeoAPI = c.Geo.API })
	set("geoip", c.Geo.GeoIPDB != "", func() { opt.GeoIPDB = c.Geo.GeoIPDB })

	set("a", c.Server.Address != "", func() { opt.Address = c.Server.Address })

	set("watch", c.Monitor.Schedule != "", func() { opt.Watch = c.Monitor.Schedule })
	set("tg-alert", c.Monitor.TgAlert, func() { opt.TgAlert = true })
}
