package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"MarketRegime/internal/domain/models"
	"MarketRegime/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		ReportTTL       time.Duration `yaml:"report_ttl" default:"5m"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Provider struct {
		Type        string        `yaml:"type" default:"yahoo" validate:"oneof=yahoo clickhouse"`
		Period      string        `yaml:"period" default:"2y" validate:"oneof=6mo 1y 2y 5y 10y"`
		Timeout     time.Duration `yaml:"timeout" default:"15s"`
		MaxAttempts int           `yaml:"max_attempts" default:"3" validate:"gte=1,lte=10"`
		RateLimit   float64       `yaml:"rate_limit_rps" default:"4" validate:"gt=0"`
		Burst       int           `yaml:"burst" default:"2" validate:"gte=1"`
		Breaker     struct {
			MaxFailures uint32        `yaml:"max_failures" default:"5" validate:"gte=1"`
			OpenTimeout time.Duration `yaml:"open_timeout" default:"30s"`
		} `yaml:"breaker"`
	} `yaml:"provider"`
	Yahoo struct {
		BaseURL   string `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
		UserAgent string `yaml:"user_agent" default:"Mozilla/5.0 (compatible; market-regime/1.0)"`
	} `yaml:"yahoo"`
	ClickHouse struct {
		Host        string        `yaml:"host" default:"localhost"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"market"`
		Table       string        `yaml:"table" default:"daily_closes"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		UseHTTP     bool          `yaml:"use_http"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"clickhouse"`
	Cache struct {
		Enabled bool          `yaml:"enabled" default:"true"`
		TTL     time.Duration `yaml:"ttl" default:"1h"`
		MaxSize int           `yaml:"max_size" default:"256" validate:"gte=1"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"regime"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Instruments models.InstrumentRoles `yaml:"instruments"`
	Thresholds  models.Thresholds      `yaml:"thresholds"`
	Windows     models.Windows         `yaml:"windows"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
// A missing file is not an error: the defaults describe a complete setup.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		// keys absent from the file keep their defaults
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML, then .env, then REGIME_* environment variables,
// and validates the result.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	_ = godotenv.Load()
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// applyEnv overlays REGIME_* variables. A value that does not parse is an error
// naming the variable rather than a silent fallback.
func (c *Config) applyEnv(getenv func(string) string) error {
	var errs []error
	setStr := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setFloat := func(dst *float64, key string) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid number %q", key, v))
			return
		}
		*dst = f
	}
	setInt := func(dst *int, key string) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
			return
		}
		*dst = n
	}

	setStr(&c.Environment, "REGIME_ENV")
	setStr(&c.Log.Level, "REGIME_LOG_LEVEL")
	setStr(&c.Log.Format, "REGIME_LOG_FORMAT")
	setStr(&c.Provider.Type, "REGIME_PROVIDER")
	setStr(&c.Provider.Period, "REGIME_PERIOD")
	setStr(&c.Yahoo.BaseURL, "REGIME_YAHOO_BASE_URL")
	setStr(&c.ClickHouse.Host, "REGIME_CLICKHOUSE_HOST")
	setStr(&c.ClickHouse.Password, "REGIME_CLICKHOUSE_PASSWORD")
	setStr(&c.Cache.Redis.Host, "REGIME_REDIS_HOST")
	setStr(&c.Cache.Redis.Password, "REGIME_REDIS_PASSWORD")
	setInt(&c.Server.Port, "REGIME_PORT")

	setFloat(&c.Thresholds.Distortion, "REGIME_DISTORTION_THRESHOLD")
	setFloat(&c.Thresholds.LowTolerance, "REGIME_LOW_TOLERANCE")
	setFloat(&c.Thresholds.FundingShock, "REGIME_FUNDING_SHOCK_THRESHOLD")
	setFloat(&c.Thresholds.RateShock, "REGIME_RATE_SHOCK_THRESHOLD")
	setFloat(&c.Thresholds.BenchmarkFilter, "REGIME_BENCHMARK_FILTER_THRESHOLD")
	setInt(&c.Windows.CreditLookback, "REGIME_CREDIT_LOOKBACK")

	// positional override: num,den,credit_num,credit_den,benchmark,funding
	if v := getenv("REGIME_INSTRUMENTS"); v != "" {
		parts := util.SplitList(v)
		if len(parts) != 6 {
			errs = append(errs, fmt.Errorf("REGIME_INSTRUMENTS: want 6 comma separated symbols, got %d", len(parts)))
		} else {
			c.Instruments = models.InstrumentRoles{
				DistortionNumerator:   parts[0],
				DistortionDenominator: parts[1],
				CreditNumerator:       parts[2],
				CreditDenominator:     parts[3],
				Benchmark:             parts[4],
				Funding:               parts[5],
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	r := c.Instruments
	if r.DistortionNumerator == r.DistortionDenominator {
		return fmt.Errorf("instruments: distortion numerator and denominator must differ, got %q", r.DistortionNumerator)
	}
	if r.CreditNumerator == r.CreditDenominator {
		return fmt.Errorf("instruments: credit numerator and denominator must differ, got %q", r.CreditNumerator)
	}
	if c.Provider.Type == "clickhouse" && c.ClickHouse.Table == "" {
		return fmt.Errorf("clickhouse.table is required for the clickhouse provider")
	}
	if c.Server.ReportTTL < 0 {
		return fmt.Errorf("server.report_ttl must not be negative")
	}
	return nil
}
