package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// InvoicingConfig holds invoice defaults that operators may change without a
// restart.
type InvoicingConfig struct {
	NumberPrefix   string          `mapstructure:"numberPrefix"`
	NumberAttempts int             `mapstructure:"numberAttempts"`
	DefaultDueDays int             `mapstructure:"defaultDueDays"`
	DefaultTaxRate decimal.Decimal `mapstructure:"-"`
	TaxRate        float64         `mapstructure:"defaultTaxRate"`
}

func DefaultInvoicingConfig() InvoicingConfig {
	return InvoicingConfig{
		NumberPrefix:   "INV",
		NumberAttempts: 5,
		DefaultDueDays: 15,
		DefaultTaxRate: decimal.Zero,
	}
}

type InvoicingConfigHolder struct {
	current atomic.Value // holds InvoicingConfig
}

// NewStaticInvoicingConfigHolder returns a holder that never reloads.
func NewStaticInvoicingConfigHolder(cfg InvoicingConfig) *InvoicingConfigHolder {
	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewInvoicingConfigHolder() (*InvoicingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("invoicing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/invoicebook")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INVOICEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInvoicingConfig()
	v.SetDefault("invoicing.numberPrefix", defaults.NumberPrefix)
	v.SetDefault("invoicing.numberAttempts", defaults.NumberAttempts)
	v.SetDefault("invoicing.defaultDueDays", defaults.DefaultDueDays)
	v.SetDefault("invoicing.defaultTaxRate", 0)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		watch = false
	}

	cfg, err := decodeInvoicingConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticInvoicingConfigHolder(cfg)
	if !watch {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeInvoicingConfig(v)
		if err != nil {
			log.Printf("[invoicing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[invoicing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *InvoicingConfigHolder) Get() InvoicingConfig {
	return h.current.Load().(InvoicingConfig)
}

func decodeInvoicingConfig(v *viper.Viper) (InvoicingConfig, error) {
	var cfg InvoicingConfig
	if err := v.UnmarshalKey("invoicing", &cfg); err != nil {
		return InvoicingConfig{}, err
	}
	cfg.NumberPrefix = strings.TrimSpace(cfg.NumberPrefix)
	cfg.DefaultTaxRate = decimal.NewFromFloat(cfg.TaxRate)
	if err := validateInvoicingConfig(cfg); err != nil {
		return InvoicingConfig{}, err
	}
	return cfg, nil
}

func validateInvoicingConfig(cfg InvoicingConfig) error {
	if cfg.NumberPrefix == "" {
		return errors.New("invoicing.numberPrefix cannot be empty")
	}
	if cfg.NumberAttempts <= 0 {
		return errors.New("invoicing.numberAttempts must be positive")
	}
	if cfg.DefaultDueDays < 0 {
		return errors.New("invoicing.defaultDueDays cannot be negative")
	}
	if cfg.DefaultTaxRate.IsNegative() || cfg.DefaultTaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("invoicing.defaultTaxRate must be within 0..100")
	}
	return nil
}
