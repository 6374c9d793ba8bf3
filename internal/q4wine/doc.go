// SPDX-License-Identifier: MPL-2.0

// Package q4wine registers newly created prefixes in an existing Q4Wine
// SQLite database so they show up in its prefix manager with the stock
// Wine tool shortcuts. Registration is skipped entirely when the database
// file does not exist.
package q4wine
