package http

import (
	"go.uber.org/fx"

	menutransport "github.com/tablewise/tablewise/internal/transport/http/menu"
	ordertransport "github.com/tablewise/tablewise/internal/transport/http/order"
	tabletransport "github.com/tablewise/tablewise/internal/transport/http/table"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	menutransport.Module,
	ordertransport.Module,
	tabletransport.Module,
)
