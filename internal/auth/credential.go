package auth

import (
	"context"
	"strings"
)

// DefaultCookieName is the cookie entry holding the bearer token.
const DefaultCookieName = "accessToken"

// CredentialProvider supplies the bearer token for the current viewer.
// ok is false when no credential is stored; that is not an error.
type CredentialProvider interface {
	Credential(ctx context.Context) (token string, ok bool)
}

// CredentialFunc adapts a function to CredentialProvider.
type CredentialFunc func(ctx context.Context) (string, bool)

// Credential implements CredentialProvider.
func (f CredentialFunc) Credential(ctx context.Context) (string, bool) {
	return f(ctx)
}

// StaticProvider returns a fixed token, e.g. from a flag or env var.
type StaticProvider string

// Credential implements CredentialProvider.
func (s StaticProvider) Credential(context.Context) (string, bool) {
	token := strings.TrimSpace(string(s))
	return token, token != ""
}

// CookieHeaderProvider reads the token out of a raw cookie string in the
// "k1=v1; k2=v2" form used by Cookie request headers.
type CookieHeaderProvider struct {
	Header string
	Name   string
}

// Credential implements CredentialProvider.
func (p CookieHeaderProvider) Credential(context.Context) (string, bool) {
	name := p.Name
	if name == "" {
		name = DefaultCookieName
	}
	return CookieValue(p.Header, name)
}

// CookieValue finds name in a raw cookie header.
func CookieValue(header, name string) (string, bool) {
	for _, part := range strings.Split(header, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found || key != name {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if value == "" {
			return "", false
		}
		return value, true
	}
	return "", false
}

// FirstOf tries providers in order and returns the first credential found.
func FirstOf(providers ...CredentialProvider) CredentialProvider {
	return CredentialFunc(func(ctx context.Context) (string, bool) {
		for _, p := range providers {
			if p == nil {
				continue
			}
			if token, ok := p.Credential(ctx); ok {
				return token, true
			}
		}
		return "", false
	})
}
