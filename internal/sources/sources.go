// Package sources links the built-in source implementations into the
// binary. Importing it registers every built-in type.
package sources

import (
	_ "did/internal/sources/github"
	_ "did/internal/sources/gitlab"
	_ "did/internal/sources/items"
	_ "did/internal/sources/localdb"
)

// Load forces the built-in registrations; the work happens in the
// blank imports above.
func Load() {}
