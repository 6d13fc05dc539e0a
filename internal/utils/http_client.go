package utils

import (
	"github.com/go-resty/resty/v2"
)

// userAgent is sent with every outgoing gateway request.
const userAgent = "institute-dashboard-sync"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client with JSON accept headers and
// retries disabled: a failed select is surfaced as-is and only the next
// change notification or manual refresh fetches again.
func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent)
	return &HTTPClient{Client: client}
}
