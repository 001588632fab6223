// Package aweber provides a minimal client for the AWeber REST API.
//
// The client covers the read-only slice of the API the exporter needs:
//   - Account discovery (first account of the authorized user)
//   - Subscriber list discovery (first list of the account)
//   - Broadcast collections filtered by status, with pagination via
//     next_collection_link
//   - Broadcast detail fetches (the only view that carries body_html)
//
// Authentication is not handled here. Callers pass an *http.Client that
// already injects the OAuth2 access token, typically obtained from the
// auth package.
package aweber
