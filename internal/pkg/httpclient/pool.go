// Package httpclient provides a shared HTTP client pool. Clients with the
// same options reuse one http.Client so the transport connection pool is
// shared instead of rebuilt per request.
package httpclient

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Options define the build parameters of a shared client.
type Options struct {
	Timeout               time.Duration
	ResponseHeaderTimeout time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

var sharedClients sync.Map

// GetClient returns the shared client for opts, building it on first use.
func GetClient(opts Options) *http.Client {
	key := buildClientKey(opts)
	if cached, ok := sharedClients.Load(key); ok {
		if client, ok := cached.(*http.Client); ok {
			return client
		}
	}

	client := buildClient(opts)
	actual, _ := sharedClients.LoadOrStore(key, client)
	if c, ok := actual.(*http.Client); ok {
		return c
	}
	return client
}

func buildClient(opts Options) *http.Client {
	maxIdleConns := opts.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = defaultMaxIdleConns
	}
	maxIdleConnsPerHost := opts.MaxIdleConnsPerHost
	if maxIdleConnsPerHost <= 0 {
		maxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}

	transport := &http.Transport{
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		IdleConnTimeout:       defaultIdleConnTimeout,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
}

func buildClientKey(opts Options) string {
	return fmt.Sprintf("%s|%s|%d|%d",
		opts.Timeout.String(),
		opts.ResponseHeaderTimeout.String(),
		opts.MaxIdleConns,
		opts.MaxIdleConnsPerHost,
	)
}
