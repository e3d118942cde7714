package main

import (
	"github.com/smallbiznis/invoicebook/internal/category"
	"github.com/smallbiznis/invoicebook/internal/clock"
	"github.com/smallbiznis/invoicebook/internal/config"
	"github.com/smallbiznis/invoicebook/internal/currency"
	"github.com/smallbiznis/invoicebook/internal/idgen"
	"github.com/smallbiznis/invoicebook/internal/integrity"
	"github.com/smallbiznis/invoicebook/internal/invoice"
	"github.com/smallbiznis/invoicebook/internal/logger"
	"github.com/smallbiznis/invoicebook/internal/observability"
	"github.com/smallbiznis/invoicebook/internal/product"
	"github.com/smallbiznis/invoicebook/internal/server"
	"github.com/smallbiznis/invoicebook/internal/store"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		clock.Module,
		idgen.Module,
		store.Module,

		// Functional Domains
		category.Module,
		product.Module,
		currency.Module,
		invoice.Module,
		integrity.Module,

		server.Module,

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
	app.Run()
}
