package client

import "net/http"

// TokenSource supplies the bearer credential for outgoing requests.
// An empty token means the request goes out without an Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, handy for scripts and tests.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// bearerTransport attaches the current credential to each request.
// The token is read once per request, so a logout between two calls is
// observed by the second one.
type bearerTransport struct {
	tokens TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.tokens == nil {
		return base.RoundTrip(req)
	}
	tok := t.tokens.Token()
	if tok == "" {
		return base.RoundTrip(req)
	}
	// RoundTrippers must not mutate the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+tok)
	return base.RoundTrip(r)
}
