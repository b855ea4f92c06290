package hackernews

import (
	"fmt"
	"net/url"
	"time"
)

const (
	DefaultApiBase  = "https://hacker-news.firebaseio.com/v0"
	DefaultSiteBase = "https://news.ycombinator.com"
)

type Config struct {
	// ApiBase is the root of the JSON api, ex. https://hacker-news.firebaseio.com/v0
	ApiBase string `json:"api_base"`
	// SiteBase is the root of the server rendered site, ex. https://news.ycombinator.com
	SiteBase string `json:"site_base"`
	// CloudflareBypass wraps the site transport with browser-like headers and TLS settings.
	CloudflareBypass bool `json:"cloudflare_bypass"`
	TimeoutSeconds   int  `json:"timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		ApiBase:        DefaultApiBase,
		SiteBase:       DefaultSiteBase,
		TimeoutSeconds: 30,
	}
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func validateBase(name, raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%s: expected an absolute http(s) url, got '%s'", name, raw)
	}
	return parsed, nil
}

func (c Config) Validate() error {
	_, err := validateBase("api_base", c.ApiBase)
	if err != nil {
		return err
	}
	_, err = validateBase("site_base", c.SiteBase)
	return err
}
