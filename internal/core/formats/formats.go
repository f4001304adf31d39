// Package formats defines the two log formats written by the traffic
// analysis tool and registers them with core on import.
package formats

import "github.com/JonMunkholm/resultstodb/internal/core"

// Format kinds.
const (
	KindTransmissions = "transmissions"
	KindPermissions   = "permissions"
)

func init() {
	core.Register(Transmissions())
	core.Register(Permissions())
}

// MustGet returns the registered format of the given kind.
// It panics if the kind is unknown.
func MustGet(kind string) core.Format {
	f, ok := core.Get(kind)
	if !ok {
		panic("unknown format: " + kind)
	}
	return f
}
