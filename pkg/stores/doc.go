// Package stores persists distkit's generation history: one record per plan,
// generate, or check run, carrying the sha256 of the rendered task
// description. The history backs the `distkit history` command and lets a
// check run explain when the on-disk CI last matched the configuration.
//
// The backing store is SQLite via modernc.org/sqlite with schema migrations
// embedded in the binary.
package stores
