package hackernews

import (
	"errors"
	"fmt"
)

// ErrBadLogin is returned when the login response says the credentials were rejected.
var ErrBadLogin = errors.New("bad login")

// NetworkError is a transport failure (dns, timeout, refused connection) or an http
// error status. Status is 0 when no response was received.
type NetworkError struct {
	Url    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request %s: status %d", e.Url, e.Status)
	}
	return fmt.Sprintf("request %s: %v", e.Url, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError is a response body that could not be decoded, either as json or as html.
type ParseError struct {
	Url string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Url, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ScrapeError means the page was fetched and parsed, but the element or attribute
// holding the value was not there. This happens when the session is logged out, the
// item was already voted on, or the markup changed.
type ScrapeError struct {
	Url      string
	Selector string
	Attr     string
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s: no '%s' attribute on '%s'", e.Url, e.Attr, e.Selector)
}
