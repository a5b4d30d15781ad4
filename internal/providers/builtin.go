// Package providers assembles the offline providers shipped with diagreport.
package providers

import (
	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
	"github.com/Guliveer/vitalis/diagnostics/internal/providers/conf"
	"github.com/Guliveer/vitalis/diagnostics/internal/providers/logs"
	"github.com/Guliveer/vitalis/diagnostics/internal/providers/system"
	"github.com/Guliveer/vitalis/diagnostics/internal/providers/tree"
)

// Builtin returns a catalog of every built-in provider. Each call to
// Providers on it yields fresh, uninitialized instances.
func Builtin() *diagnostics.Catalog {
	return diagnostics.NewCatalog(
		func() diagnostics.OfflineProvider { return logs.New() },
		func() diagnostics.OfflineProvider { return conf.New() },
		func() diagnostics.OfflineProvider { return system.New() },
		func() diagnostics.OfflineProvider { return tree.New() },
	)
}
