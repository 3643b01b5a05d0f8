// Package gamedata loads weapon movesets from the poise damage sheet and
// builds the read-only registry every query runs against.
package gamedata

import "embed"

// dataFS embeds the YAML tables from this directory at build time.
//
//go:embed *.yaml
var dataFS embed.FS
