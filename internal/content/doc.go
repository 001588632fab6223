// Package content turns broadcast HTML into export-ready text: the inbox
// preview snippet and a Markdown rendering of the body.
package content
