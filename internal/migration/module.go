package migration

import "go.uber.org/fx"

// Module provides the Migrator to Fx.
var Module = fx.Provide(New)
