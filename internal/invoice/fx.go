package invoice

import (
	"github.com/smallbiznis/invoicebook/internal/invoice/format"
	"github.com/smallbiznis/invoicebook/internal/invoice/repository"
	"github.com/smallbiznis/invoicebook/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(format.NewNumberGenerator),
	fx.Provide(service.New),
)
