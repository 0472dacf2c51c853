// Package config loads the service configuration from a YAML file with
// CREOVA_* environment overrides. Wei amounts are decimal strings in
// the file; they are parsed once at load time.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Creova-Group/Creova-sub000/pool"
)

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PoolConfig overrides the protocol constants. Amount fields are wei
// decimal strings; empty means keep the default.
type PoolConfig struct {
	Owner                string        `mapstructure:"owner"`
	Voters               []string      `mapstructure:"voters"`
	VerifiedCreators     []string      `mapstructure:"verified_creators"`
	FundingFeeBps        uint64        `mapstructure:"funding_fee_bps"`
	WithdrawFeeBps       uint64        `mapstructure:"withdraw_fee_bps"`
	TreasuryFractionBps  uint64        `mapstructure:"treasury_fraction_bps"`
	KYCFundingThreshold  string        `mapstructure:"kyc_funding_threshold_wei"`
	KYCWithdrawThreshold string        `mapstructure:"kyc_withdraw_threshold_wei"`
	QuarterLength        time.Duration `mapstructure:"quarter_length"`
	CrowdfundingDeadline time.Duration `mapstructure:"crowdfunding_deadline"`
	GrantReviewWindow    time.Duration `mapstructure:"grant_review_window"`
	ResubmitWindow       time.Duration `mapstructure:"resubmit_window"`
}

// IPFSConfig configures the pinning service client.
type IPFSConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// KYCConfig configures the verification provider.
type KYCConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Token    string        `mapstructure:"token"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Config is the full service configuration.
type Config struct {
	HTTP    HTTPConfig `mapstructure:"http"`
	DataDir string     `mapstructure:"data_dir"`
	Pool    PoolConfig `mapstructure:"pool"`
	IPFS    IPFSConfig `mapstructure:"ipfs"`
	KYC     KYCConfig  `mapstructure:"kyc"`
	Log     LogConfig  `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("data_dir", "data")

	defaults := pool.DefaultParams()
	v.SetDefault("pool.funding_fee_bps", defaults.FundingFeeBps)
	v.SetDefault("pool.withdraw_fee_bps", defaults.WithdrawFeeBps)
	v.SetDefault("pool.treasury_fraction_bps", defaults.TreasuryFractionBps)
	v.SetDefault("pool.kyc_funding_threshold_wei", defaults.KYCFundingThreshold.Dec())
	v.SetDefault("pool.kyc_withdraw_threshold_wei", defaults.KYCWithdrawThreshold.Dec())
	v.SetDefault("pool.quarter_length", defaults.QuarterLength)
	v.SetDefault("pool.crowdfunding_deadline", defaults.CrowdfundingDeadline)
	v.SetDefault("pool.grant_review_window", defaults.GrantReviewWindow)
	v.SetDefault("pool.resubmit_window", defaults.ResubmitWindow)

	v.SetDefault("kyc.cache_ttl", time.Hour)
	v.SetDefault("log.level", "info")
}

// Load reads the config file at path. An empty path loads defaults and
// environment overrides only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CREOVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Pool.Owner == "" {
		return fmt.Errorf("pool.owner is required")
	}
	if !common.IsHexAddress(c.Pool.Owner) {
		return fmt.Errorf("pool.owner %q is not a hex address", c.Pool.Owner)
	}
	for _, addr := range append(append([]string{}, c.Pool.Voters...), c.Pool.VerifiedCreators...) {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%q is not a hex address", addr)
		}
	}
	if _, err := parseWei(c.Pool.KYCFundingThreshold); err != nil {
		return fmt.Errorf("pool.kyc_funding_threshold_wei: %w", err)
	}
	if _, err := parseWei(c.Pool.KYCWithdrawThreshold); err != nil {
		return fmt.Errorf("pool.kyc_withdraw_threshold_wei: %w", err)
	}
	return nil
}

// Owner returns the configured owner address.
func (c Config) Owner() common.Address {
	return common.HexToAddress(c.Pool.Owner)
}

// VoterAddresses returns the configured voter addresses.
func (c Config) VoterAddresses() []common.Address {
	return toAddresses(c.Pool.Voters)
}

// VerifiedCreatorAddresses returns the configured verified creators.
func (c Config) VerifiedCreatorAddresses() []common.Address {
	return toAddresses(c.Pool.VerifiedCreators)
}

// PoolParams translates the config into protocol parameters. Load has
// already validated the amount strings.
func (c Config) PoolParams() pool.Params {
	p := pool.DefaultParams()
	p.FundingFeeBps = c.Pool.FundingFeeBps
	p.WithdrawFeeBps = c.Pool.WithdrawFeeBps
	p.TreasuryFractionBps = c.Pool.TreasuryFractionBps
	if amt, err := parseWei(c.Pool.KYCFundingThreshold); err == nil {
		p.KYCFundingThreshold = amt
	}
	if amt, err := parseWei(c.Pool.KYCWithdrawThreshold); err == nil {
		p.KYCWithdrawThreshold = amt
	}
	if c.Pool.QuarterLength > 0 {
		p.QuarterLength = c.Pool.QuarterLength
	}
	if c.Pool.CrowdfundingDeadline > 0 {
		p.CrowdfundingDeadline = c.Pool.CrowdfundingDeadline
	}
	if c.Pool.GrantReviewWindow > 0 {
		p.GrantReviewWindow = c.Pool.GrantReviewWindow
	}
	if c.Pool.ResubmitWindow > 0 {
		p.ResubmitWindow = c.Pool.ResubmitWindow
	}
	return p
}

// NewLogger builds a zap logger per the log section.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	var zc zap.Config
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func parseWei(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	amt, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("bad wei amount %q: %w", s, err)
	}
	return amt, nil
}

func toAddresses(hexes []string) []common.Address {
	out := make([]common.Address, 0, len(hexes))
	for _, h := range hexes {
		out = append(out, common.HexToAddress(h))
	}
	return out
}
