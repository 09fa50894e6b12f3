package assets

import "embed"

// AssetsFS holds the stylesheet and other static files served under /assets/.
//
//go:embed css
var AssetsFS embed.FS
