package checker

import "net/http"

// Protocol names one of the forward-proxy strategies a proxy is tested with.
type Protocol string

const (
	HTTP  Protocol = "http"
	HTTPS Protocol = "https"
	SOCKS Protocol = "socks"
)

type Status string

const (
	Working    Status = "Working"
	NotWorking Status = "Not Working"
)

type Anonymity string

const (
	Transparent Anonymity = "transparent"
	Anonymous   Anonymity = "anonymous"
	Elite       Anonymity = "elite"
)

const (
	// ProxyTypeNA marks a result with no working protocol.
	ProxyTypeNA = "N/A"

	// LocationNA is reported when no lookup was attempted.
	LocationNA = "N/A"
	// LocationUnknown is reported when a working proxy could not be geolocated.
	LocationUnknown = "Unknown"
)

// ProtocolOutcome is the result of routing one probe request through a proxy
// with a single protocol.
type ProtocolOutcome struct {
	Protocol   Protocol    `json:"protocol"`
	Success    bool        `json:"success"`
	LatencyMs  int64       `json:"latency,omitempty"`
	HTTPStatus int         `json:"status,omitempty"`
	Headers    http.Header `json:"-"`
	Error      string      `json:"error,omitempty"`
}

// GeoLocation describes where a proxy host is located.
type GeoLocation struct {
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	City        string  `json:"city"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
}

// String formats the location as "City, Country".
func (g *GeoLocation) String() string {
	if g == nil {
		return LocationUnknown
	}

	switch {
	case g.City != "" && g.Country != "":
		return g.City + ", " + g.Country
	case g.Country != "":
		return g.Country
	case g.City != "":
		return g.City
	}

	return LocationUnknown
}

// ProxyResult is the final verdict for one input string.
type ProxyResult struct {
	Proxy           string            `json:"proxy"`
	Host            string            `json:"host,omitempty"`
	Port            int               `json:"port,omitempty"`
	Status          Status            `json:"status"`
	ProxyType       string            `json:"proxyType"`
	LatencyMs       *int64            `json:"latency"`
	Anonymity       Anonymity         `json:"anonymity,omitempty"`
	HTTPStatus      *int              `json:"httpStatus"`
	Location        string            `json:"location"`
	Geo             *GeoLocation      `json:"geo,omitempty"`
	Error           string            `json:"error,omitempty"`
	TestedProtocols []ProtocolOutcome `json:"testedProtocols"`
}

func (r ProxyResult) Working() bool {
	return r.Status == Working
}

func newResult(raw string) ProxyResult {
	return ProxyResult{
		Proxy:           raw,
		Status:          NotWorking,
		ProxyType:       ProxyTypeNA,
		Location:        LocationNA,
		TestedProtocols: []ProtocolOutcome{},
	}
}

// failedResult builds the placeholder used when the pipeline for raw
// aborted unexpectedly.
func failedResult(raw string, msg string) ProxyResult {
	r := newResult(raw)
	r.Error = msg

	return r
}
