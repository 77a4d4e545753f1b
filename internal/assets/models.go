package assets

import _ "embed"

// ModelsData holds the raw JSON catalog of selectable chat models.
//
//go:embed models.json
var ModelsData []byte
