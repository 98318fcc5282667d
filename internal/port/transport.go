// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package port

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/dnscache"
	"golang.org/x/oauth2"
)

const (
	dialTimeout   = 30 * time.Second
	dialKeepAlive = 30 * time.Second

	requestIDHeaderName = "x-request-id"
)

var errNoAddressDialed = errors.New("failed to dial any resolved address")

// newTransport returns an http.Transport whose dialer resolves hosts through resolver.
func newTransport(resolver *dnscache.Resolver) http.RoundTripper {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: dialKeepAlive,
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		ips, err := resolver.LookupHost(ctx, host)
		if err != nil {
			return nil, err
		}

		for _, ip := range ips {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
			if err == nil {
				return conn, nil
			}
		}

		return nil, errNoAddressDialed
	}

	return transport
}

// newBearerTransport wraps base so that every request carries token in its
// Authorization header.
func newBearerTransport(base http.RoundTripper, token string) http.RoundTripper {
	return &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}),
		Base: base,
	}
}

// requestIDTransport tags every request with the id of the running sync.
type requestIDTransport struct {
	requestID string
	base      http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.requestID == "" {
		return t.base.RoundTrip(req)
	}

	cloned := req.Clone(req.Context())
	cloned.Header.Set(requestIDHeaderName, t.requestID)
	return t.base.RoundTrip(cloned)
}
