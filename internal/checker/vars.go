package checker

import (
	"fmt"
	"time"
)

var (
	endpoint  = "http://httpbin.org/ip"
	geoAPI    = "http://ip-api.com/json"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	connectTimeout = 3 * time.Second
	requestTimeout = 8 * time.Second
	geoTimeout     = 5 * time.Second
	windowSize     = 15
)

var ErrNoProxies = fmt.Errorf("a non-empty list of proxies is required")
var ErrInvalidFormat = fmt.Errorf("invalid proxy format")

// InvalidFormatMessage is reported in ProxyResult.Error for unparseable input.
const InvalidFormatMessage = "Invalid proxy format"
