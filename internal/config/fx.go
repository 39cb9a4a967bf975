package config

import (
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewPricingPolicyHolder),
	fx.Provide(func(h *PricingPolicyHolder) quotedomain.PolicySource { return h }),
)
