package runner

import "time"

const (
	defaultConnectTimeout = 3 * time.Second
	defaultTimeout        = 8 * time.Second
	defaultWindow         = 15
)

const usage = `
Usage:
  proxyprobe [-f FILE] [options]

Input:
  -f, -file <FILE>                Proxy list, one per line ('#' comments allowed).
                                  Without it the list is read from stdin, or
                                  prompted for interactively.

Checking:
  -c, -connect-timeout <DURATION> Proxy connect timeout (default: 3s)
  -t, -timeout <DURATION>         Per-attempt request timeout (default: 8s)
  -w, -window <N>                 Proxies tested concurrently (default: 15)
  -endpoint <URL>                 Echo endpoint requested through each proxy
  -user-agent <UA>                User-Agent of probe requests
  -geoip <FILE>                   MaxMind City database for offline geolocation
  -geo-api <URL>                  ip-api.com compatible endpoint
  -no-geo                         Skip geolocation

Output:
  -o, -output <FILE>              Save all results to FILE
  -format <json|txt>              Output file format (default: by extension, json)
  -template <TEMPLATE>            Status line template, e.g. "{{proxy}} {{type}} {{latency}}"
  -cc <CODES>                     Only show working proxies in these countries (e.g. US,DE)

Server:
  -a, -address <ADDR>             Serve the HTTP API on ADDR
  -d, -daemon                     Run the API server as a system service
  -service <ACTION>               install, uninstall, start, stop or restart the service

Monitor:
  -watch <SCHEDULE>               Re-check the proxy file on a cron schedule, e.g. "@every 5m"
  -tg-alert                       Send dead proxies to Telegram (TG_BOT_TOKEN, TG_BOT_CHAT)

Misc:
  -config <FILE>                  YAML configuration file
  -v, -verbose                    Show dead proxies and dump probe traffic
  -s, -silent                     Only print results
  -no-color                       Disable colored output
  -U, -update                     Check for a newer release
  -V, -version                    Show current version

Examples:
  proxyprobe -f proxies.txt -o results.json
  cat proxies.txt | proxyprobe -cc US,DE -template "{{proxy}} {{location}}"
  proxyprobe -a 127.0.0.1:8080
  proxyprobe -f proxies.txt -watch "@every 10m" -tg-alert

`
