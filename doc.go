// Package freshtabs extracts open-tab titles and URLs from Chromium-family session
// files ("Current Tabs", "Current Session" and their timestamped Sessions/ successors).
//
// This is intended for local tooling (CLI helpers, dev scripts, shell pipelines). It
// reads browser-written state from disk; it never writes to it and never talks to a
// running browser.
package freshtabs
