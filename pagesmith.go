// Package pagesmith rewrites the copy of existing landing-page templates.
// It loads an HTML template, extracts every rewritable text node and
// attribute into deduplicated rewrite groups, asks a text-generation backend
// for replacements, and packages the rewritten page for download.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, openai/, zip/).
package pagesmith
