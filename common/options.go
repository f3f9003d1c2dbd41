package common

import "time"

// Options holds every runtime setting of proxyprobe.
type Options struct {
	File      string
	Proxies   []string
	Output    string
	Format    string
	Template  string
	Countries []string

	Address string
	Daemon  bool
	Service string

	Watch   string
	TgAlert bool

	ConnectTimeout time.Duration
	Timeout        time.Duration
	Window         int
	Endpoint       string
	UserAgent      string

	GeoAPI  string
	GeoIPDB string
	NoGeo   bool

	ConfigFile  string
	Verbose     bool
	Silent      bool
	NoColor     bool
	CheckUpdate bool
	Version     bool
}
