// Package auth implements the OAuth2 side of the exporter.
//
// It covers the authorization-code flow against the AWeber auth service:
// a short-lived loopback HTTP listener captures the redirect, the code is
// exchanged for an access/refresh token pair, and the pair is cached in a
// local JSON file (mode 0600). On later runs the cached credential is
// reused as-is while valid and refreshed exactly once when expired.
//
// The credential file is the only durable state the tool keeps.
package auth
