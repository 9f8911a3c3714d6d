// Copyright © 2026 The jank authors

// Package docs embeds the jank language reference for use by the CLI.
package docs

import _ "embed"

//go:embed lang.md
var LangGuide string
