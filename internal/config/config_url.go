// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// validateHTTPURL validates that a URL is properly formatted for HTTP/HTTPS services.
// Validates: scheme (http/https), host present, no query params.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}

// requireHTTPS rejects URLs that do not use TLS.
func requireHTTPS(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "https" {
		return fmt.Errorf("%s must use https (set REMOTE_ALLOW_INSECURE=true for local development), got: %s", fieldName, parsedURL.Scheme)
	}
	return nil
}

// probeAddressFromURL derives host:port from a base URL, using the scheme's
// default port when none is given.
func probeAddressFromURL(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}
	if port := parsedURL.Port(); port != "" {
		return net.JoinHostPort(parsedURL.Hostname(), port), nil
	}
	switch parsedURL.Scheme {
	case "https":
		return net.JoinHostPort(parsedURL.Hostname(), "443"), nil
	case "http":
		return net.JoinHostPort(parsedURL.Hostname(), "80"), nil
	default:
		return "", fmt.Errorf("unsupported scheme %q", parsedURL.Scheme)
	}
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
