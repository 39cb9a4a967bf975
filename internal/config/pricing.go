package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/smallbiznis/venuebook/internal/quote/engine"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PricingConfig is the on-disk shape of pricing.yml. Amounts are strings so
// they decode straight into decimals.
type PricingConfig struct {
	BaseHours               string          `mapstructure:"baseHours"`
	SecuritySurchargeHourly string          `mapstructure:"securitySurchargeHourly"`
	StaffingBrackets        []BracketConfig `mapstructure:"staffingBrackets"`
	Estimator               EstimatorConfig `mapstructure:"estimator"`
}

type BracketConfig struct {
	Min   int  `mapstructure:"min"`
	Max   *int `mapstructure:"max"`
	Staff int  `mapstructure:"staff"`
}

type EstimatorConfig struct {
	Member        PresetConfig `mapstructure:"member"`
	NonMember     PresetConfig `mapstructure:"nonMember"`
	SupportBase   string       `mapstructure:"supportBase"`
	SupportHourly string       `mapstructure:"supportHourly"`
}

type PresetConfig struct {
	HallBase   string `mapstructure:"hallBase"`
	HallHourly string `mapstructure:"hallHourly"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		BaseHours:               "4",
		SecuritySurchargeHourly: "300",
		StaffingBrackets: []BracketConfig{
			{Min: 1, Max: intPtr(50), Staff: 1},
			{Min: 51, Max: intPtr(150), Staff: 2},
			{Min: 151, Max: intPtr(250), Staff: 3},
			{Min: 251, Max: intPtr(350), Staff: 4},
			{Min: 351, Max: intPtr(450), Staff: 5},
			{Min: 451, Max: nil, Staff: 6},
		},
		Estimator: EstimatorConfig{
			Member:        PresetConfig{HallBase: "600", HallHourly: "50"},
			NonMember:     PresetConfig{HallBase: "800", HallHourly: "100"},
			SupportBase:   "200",
			SupportHourly: "35",
		},
	}
}

func intPtr(v int) *int { return &v }

// withDefaults fills every key the file left out.
func (c PricingConfig) withDefaults() PricingConfig {
	def := DefaultPricingConfig()
	if strings.TrimSpace(c.BaseHours) == "" {
		c.BaseHours = def.BaseHours
	}
	if strings.TrimSpace(c.SecuritySurchargeHourly) == "" {
		c.SecuritySurchargeHourly = def.SecuritySurchargeHourly
	}
	if len(c.StaffingBrackets) == 0 {
		c.StaffingBrackets = def.StaffingBrackets
	}
	if strings.TrimSpace(c.Estimator.Member.HallBase) == "" {
		c.Estimator.Member.HallBase = def.Estimator.Member.HallBase
	}
	if strings.TrimSpace(c.Estimator.Member.HallHourly) == "" {
		c.Estimator.Member.HallHourly = def.Estimator.Member.HallHourly
	}
	if strings.TrimSpace(c.Estimator.NonMember.HallBase) == "" {
		c.Estimator.NonMember.HallBase = def.Estimator.NonMember.HallBase
	}
	if strings.TrimSpace(c.Estimator.NonMember.HallHourly) == "" {
		c.Estimator.NonMember.HallHourly = def.Estimator.NonMember.HallHourly
	}
	if strings.TrimSpace(c.Estimator.SupportBase) == "" {
		c.Estimator.SupportBase = def.Estimator.SupportBase
	}
	if strings.TrimSpace(c.Estimator.SupportHourly) == "" {
		c.Estimator.SupportHourly = def.Estimator.SupportHourly
	}
	return c
}

// Policy converts the file shape into a validated pricing policy.
func (c PricingConfig) Policy() (quotedomain.Policy, error) {
	var (
		policy quotedomain.Policy
		err    error
	)
	p := &amountParser{}
	policy.BaseHours = p.parse("baseHours", c.BaseHours)
	policy.SecuritySurchargeHourly = p.parse("securitySurchargeHourly", c.SecuritySurchargeHourly)
	policy.Estimator = quotedomain.EstimatorPresets{
		Member: quotedomain.RatePreset{
			HallBaseRate:   p.parse("estimator.member.hallBase", c.Estimator.Member.HallBase),
			HallHourlyRate: p.parse("estimator.member.hallHourly", c.Estimator.Member.HallHourly),
		},
		NonMember: quotedomain.RatePreset{
			HallBaseRate:   p.parse("estimator.nonMember.hallBase", c.Estimator.NonMember.HallBase),
			HallHourlyRate: p.parse("estimator.nonMember.hallHourly", c.Estimator.NonMember.HallHourly),
		},
		SupportBase:   p.parse("estimator.supportBase", c.Estimator.SupportBase),
		SupportHourly: p.parse("estimator.supportHourly", c.Estimator.SupportHourly),
	}
	if p.err != nil {
		return quotedomain.Policy{}, p.err
	}

	policy.Brackets = make([]quotedomain.StaffingBracket, 0, len(c.StaffingBrackets))
	for _, b := range c.StaffingBrackets {
		policy.Brackets = append(policy.Brackets, quotedomain.StaffingBracket{
			MinAttendees:  b.Min,
			MaxAttendees:  b.Max,
			RequiredStaff: b.Staff,
		})
	}
	if err = engine.ValidateBrackets(policy.Brackets); err != nil {
		return quotedomain.Policy{}, fmt.Errorf("pricing.staffingBrackets: %w", err)
	}
	return policy, nil
}

type amountParser struct {
	err error
}

func (p *amountParser) parse(key, raw string) decimal.Decimal {
	if p.err != nil {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		p.err = fmt.Errorf("pricing.%s: %w", key, err)
		return decimal.Zero
	}
	if v.IsNegative() {
		p.err = fmt.Errorf("pricing.%s: %w", key, errNegativeAmount)
		return decimal.Zero
	}
	if !v.Equal(v.Truncate(2)) {
		p.err = fmt.Errorf("pricing.%s: %w", key, errTooPrecise)
		return decimal.Zero
	}
	return v
}

var (
	errNegativeAmount = errors.New("must not be negative")
	errTooPrecise     = errors.New("must have at most 2 decimal places")
)

// PricingPolicyHolder serves the current pricing policy and swaps it when
// pricing.yml changes on disk.
type PricingPolicyHolder struct {
	current atomic.Value // holds quotedomain.Policy
	log     *zap.Logger
}

func NewPricingPolicyHolder(cfg Config, log *zap.Logger) (*PricingPolicyHolder, error) {
	v := viper.New()

	if cfg.PricingConfigPath != "" {
		v.SetConfigFile(cfg.PricingConfigPath)
	} else {
		v.SetConfigName("pricing")
		v.SetConfigType("yml")
		v.AddConfigPath("/var/lib/venuebook/config")
		v.AddConfigPath("/etc/venuebook")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("VENUEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &PricingPolicyHolder{log: log.Named("config.pricing")}

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	if !fileFound {
		policy, err := DefaultPricingConfig().Policy()
		if err != nil {
			return nil, err
		}
		holder.current.Store(policy)
		holder.log.Info("pricing config not found, using defaults")
		return holder, nil
	}

	if err := holder.load(v); err != nil {
		return nil, err
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		if err := holder.load(v); err != nil {
			holder.log.Warn("invalid pricing config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.log.Info("pricing config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticPricingPolicyHolder serves a fixed policy.
func NewStaticPricingPolicyHolder(policy quotedomain.Policy) *PricingPolicyHolder {
	holder := &PricingPolicyHolder{log: zap.NewNop()}
	holder.current.Store(policy)
	return holder
}

func (h *PricingPolicyHolder) load(v *viper.Viper) error {
	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return err
	}
	return h.Apply(cfg)
}

// Apply validates cfg and makes it the current policy. An invalid cfg leaves
// the current policy untouched.
func (h *PricingPolicyHolder) Apply(cfg PricingConfig) error {
	policy, err := cfg.withDefaults().Policy()
	if err != nil {
		return err
	}
	h.current.Store(policy)
	return nil
}

func (h *PricingPolicyHolder) Get() quotedomain.Policy {
	return h.current.Load().(quotedomain.Policy)
}

var _ quotedomain.PolicySource = (*PricingPolicyHolder)(nil)
