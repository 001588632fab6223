// Package export aggregates all broadcasts of an AWeber list into one
// Markdown document.
//
// The exporter walks account -> list -> broadcasts (per status, paginated),
// fetches each broadcast's detail view for its HTML body, annotates every
// entry with the extracted preview snippet and a Markdown body, and writes
// the result atomically. Ordering is deterministic: reverse-chronological
// within each status section, ties broken by broadcast ID.
package export
