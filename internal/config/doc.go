// Package config loads clerk's own configuration file.
//
// # Overview
//
// Clerk reads a small TOML file for the API endpoint, refresh cadence,
// theme, and an optional session file override. A missing file is not an
// error; defaults make a stock deployment work with no configuration at
// all.
//
// # Resolution Order
//
//  1. An explicitly provided path is used as given
//  2. Otherwise ~/.config/clerk/config.toml
//  3. A missing file falls back to defaults
//  4. Present-but-empty fields also fall back per field
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8000"
//	poll_seconds = 2
//	theme = "Dracula"
//	session_path = "~/.config/clerk/session.toml"
//
// All fields are optional. Tilde expansion is applied to paths.
package config
