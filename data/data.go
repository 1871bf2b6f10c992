// Package data embeds the datasets shipped with the binary.
package data

import _ "embed"

// DefaultTheory is the built-in theory file.
//
//go:embed theory/default.json
var DefaultTheory []byte
