package checker

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oschwald/geoip2-golang"
	"github.com/projectdiscovery/gologger"
)

// Locator resolves where a host is. Locate returns nil when the location
// cannot be determined; a lookup failure is never an error for the caller.
type Locator interface {
	Locate(ctx context.Context, host string) *GeoLocation
}

// Chain asks each locator in turn and returns the first answer.
type Chain []Locator

func (c Chain) Locate(ctx context.Context, host string) *GeoLocation {
	for _, l := range c {
		if l == nil {
			continue
		}
		if geo := l.Locate(ctx, host); geo != nil {
			return geo
		}
	}

	return nil
}

type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// IPAPILocator looks hosts up through the ip-api.com JSON API.
type IPAPILocator struct {
	client *resty.Client
}

// NewIPAPILocator returns a locator querying baseURL (default
// http://ip-api.com/json).
func NewIPAPILocator(baseURL string, timeout time.Duration) *IPAPILocator {
	if baseURL == "" {
		baseURL = geoAPI
	}
	if timeout <= 0 {
		timeout = geoTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetQueryParam("fields", "status,message,country,countryCode,city,lat,lon")

	return &IPAPILocator{client: client}
}

func (l *IPAPILocator) Locate(ctx context.Context, host string) *GeoLocation {
	res := &ipAPIResponse{}

	resp, err := l.client.R().
		SetContext(ctx).
		SetPathParam("host", host).
		SetResult(res).
		Get("/{host}")
	if err != nil {
		gologger.Debug().Str("host", host).Msgf("geolocation lookup failed: %s", err)
		return nil
	}

	if !resp.IsSuccess() || res.Status != "success" {
		gologger.Debug().Str("host", host).Msgf("geolocation lookup unsuccessful: %d %s", resp.StatusCode(), res.Message)
		return nil
	}

	return &GeoLocation{
		Country:     res.Country,
		CountryCode: res.CountryCode,
		City:        res.City,
		Latitude:    res.Lat,
		Longitude:   res.Lon,
	}
}

// GeoIPLocator answers from a local MaxMind City database.
type GeoIPLocator struct {
	db       *geoip2.Reader
	resolver *net.Resolver
}

func OpenGeoIP(path string) (*GeoIPLocator, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}

	return &GeoIPLocator{db: db, resolver: net.DefaultResolver}, nil
}

func (l *GeoIPLocator) Close() error {
	return l.db.Close()
}

func (l *GeoIPLocator) Locate(ctx context.Context, host string) *GeoLocation {
	ip := net.ParseIP(host)
	if ip == nil {
		ips, err := l.resolver.LookupIP(ctx, "ip", host)
		if err != nil || len(ips) == 0 {
			gologger.Debug().Str("host", host).Msgf("could not resolve host for geolocation: %v", err)
			return nil
		}
		ip = ips[0]
	}

	rec, err := l.db.City(ip)
	if err != nil || rec.Country.IsoCode == "" {
		return nil
	}

	return &GeoLocation{
		Country:     rec.Country.Names["en"],
		CountryCode: rec.Country.IsoCode,
		City:        rec.City.Names["en"],
		Latitude:    rec.Location.Latitude,
		Longitude:   rec.Location.Longitude,
	}
}
