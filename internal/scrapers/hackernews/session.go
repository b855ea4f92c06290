package hackernews

import (
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"hnassist/internal/components/assert"
	"hnassist/internal/components/restyutil"
	"hnassist/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

func newHttpClient(config Config, name string, tel telemetry.API, dump restyutil.InstrumentOutput) *resty.Client {
	client := resty.New()
	if config.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(config.timeout())

	telemetry.InstrumentResty(client, fmt.Sprintf("hackernews/%s/http", name), tel)
	restyutil.InstrumentClient(client, name, dump)
	return client
}

// Session is the logged in (or not yet logged in) state of a user on the site. It owns
// the cookie jar every site request goes through, so it must be passed to every token
// resolution and action that should happen as that user.
//
// A Session is safe for concurrent use.
type Session struct {
	SiteBase string
	Http     *resty.Client
	Jar      *cookiejar.Jar
}

// NewSession creates a fresh session with an empty cookie jar. `dump` can be nil.
func NewSession(config Config, tel telemetry.API, dump restyutil.InstrumentOutput) (*Session, error) {
	assert.NotNil("tel", tel)

	siteBase, err := validateBase("site_base", config.SiteBase)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	tel = telemetry.NewScopedAPI("hackernews", tel)
	client := newHttpClient(config, "site", tel, dump)
	client.SetCookieJar(jar)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(siteBase.Hostname()))

	return &Session{
		SiteBase: strings.TrimSuffix(config.SiteBase, "/"),
		Http:     client,
		Jar:      jar,
	}, nil
}

// ItemPageUrl is the url of the server rendered page for an item.
func (s *Session) ItemPageUrl(id ItemId) string {
	return fmt.Sprintf("%s/item?id=%s", s.SiteBase, url.QueryEscape(string(id)))
}

// resolve resolves a link scraped from the item page of `id` into an absolute url.
func (s *Session) resolve(id ItemId, href string) (string, error) {
	page, err := url.Parse(s.ItemPageUrl(id))
	if err != nil {
		return "", err
	}
	link, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return page.ResolveReference(link).String(), nil
}

// Cookies returns the cookies the session would send to the site.
func (s *Session) Cookies() []string {
	base, err := url.Parse(s.SiteBase)
	if err != nil {
		return nil
	}
	var out []string
	for _, c := range s.Jar.Cookies(base) {
		out = append(out, c.Name)
	}
	return out
}
