package harrow

import _ "embed"

// Version is the library version, embedded from the VERSION file at the
// repository root.
//
//go:embed VERSION
var Version string
