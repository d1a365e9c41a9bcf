// Package pageproof provides browser-based review of web page copy.
// It loads a page in a real browser, extracts structured artifacts
// (title, metadata, headings, images, links, tables), collects the visible
// text, and submits it in token-budgeted batches to an LLM spelling and
// grammar reviewer, mapping the corrections back to the live elements they
// came from.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, gemini/, sqlite/).
package pageproof
