// Package assets embeds the default sprite sheet: palette.json plus one text
// sprite per file under tiles/, items/, ui/ and snake/.
package assets

import "embed"

//go:embed palette.json tiles items ui snake
var FS embed.FS
