package app

import (
	"go.uber.org/fx"

	"github.com/tablewise/tablewise/internal/cache"
	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/database"
	"github.com/tablewise/tablewise/internal/logger"
	"github.com/tablewise/tablewise/internal/messaging"
	"github.com/tablewise/tablewise/internal/observability"
	repositorymenu "github.com/tablewise/tablewise/internal/repository/menu"
	repositoryorder "github.com/tablewise/tablewise/internal/repository/order"
	repositorytable "github.com/tablewise/tablewise/internal/repository/table"
	"github.com/tablewise/tablewise/internal/seeder"
	grpcserver "github.com/tablewise/tablewise/internal/server/grpc"
	httpserver "github.com/tablewise/tablewise/internal/server/http"
	servicemenu "github.com/tablewise/tablewise/internal/service/menu"
	serviceorder "github.com/tablewise/tablewise/internal/service/order"
	servicetable "github.com/tablewise/tablewise/internal/service/table"
	transporthttp "github.com/tablewise/tablewise/internal/transport/http"
	"github.com/tablewise/tablewise/internal/worker"
	workerorder "github.com/tablewise/tablewise/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repositorymenu.Module,
	repositoryorder.Module,
	repositorytable.Module,
	servicemenu.Module,
	serviceorder.Module,
	servicetable.Module,
	seeder.Module,
	seeder.AutoSeed,
)

// HTTP wires the HTTP and gRPC transports on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
