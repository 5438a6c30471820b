//go:build unstablegen

package alias

import (
	"strings"

	_ "embed"
)

// Builder builds strings.
//unstable:api
type Builder = strings.Builder
