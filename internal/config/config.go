package config

import (
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-bench/internal/util"
	"github.com/alvinbaena/pwd-bench/pkg/bench"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"reflect"
	"strings"
	"time"
)

type Config struct {
	Port    string `mapstructure:"PORT" validate:"required,numeric"`
	SelfTLS bool   `mapstructure:"SELF_TLS"`
	TLSCert string `mapstructure:"TLS_CERT" validate:"required_with=TLSKey"`
	TLSKey  string `mapstructure:"TLS_KEY" validate:"required_with=TLSCert"`
	Debug   bool   `mapstructure:"DEBUG"`

	Bench   Bench   `mapstructure:"BENCH"`
	Weather Weather `mapstructure:"WEATHER"`
	GitHub  GitHub  `mapstructure:"GITHUB"`
	Cache   Cache   `mapstructure:"CACHE"`
	HTTP    HTTP    `mapstructure:"HTTP"`
}

type Bench struct {
	Rounds        int  `mapstructure:"ROUNDS" validate:"min=1,max=1000"`
	WarmupRounds  int  `mapstructure:"WARMUP_ROUNDS" validate:"min=0,max=100"`
	SettleMs      int  `mapstructure:"SETTLE_MS" validate:"min=0,max=1000"`
	MinIterations int  `mapstructure:"MIN_ITERATIONS" validate:"min=1"`
	MaxIterations int  `mapstructure:"MAX_ITERATIONS" validate:"gtefield=MinIterations"`
	GC            bool `mapstructure:"GC"`
}

type Weather struct {
	Latitude  float64 `mapstructure:"LATITUDE" validate:"min=-90,max=90"`
	Longitude float64 `mapstructure:"LONGITUDE" validate:"min=-180,max=180"`
}

type GitHub struct {
	User string `mapstructure:"USER" validate:"required"`
}

type Cache struct {
	TTL time.Duration `mapstructure:"TTL" validate:"gt=0"`
}

type HTTP struct {
	RetryMax int           `mapstructure:"RETRY_MAX" validate:"min=0,max=10"`
	Timeout  time.Duration `mapstructure:"TIMEOUT" validate:"gt=0"`
}

var defaults = map[string]interface{}{
	"PORT":                 "3100",
	"BENCH.ROUNDS":         15,
	"BENCH.WARMUP_ROUNDS":  5,
	"BENCH.SETTLE_MS":      5,
	"BENCH.MIN_ITERATIONS": 5000,
	"BENCH.MAX_ITERATIONS": 50000,
	"BENCH.GC":             true,
	"WEATHER.LATITUDE":     59.9139,
	"WEATHER.LONGITUDE":    10.7522,
	"GITHUB.USER":          "jonasnico",
	"CACHE.TTL":            10 * time.Minute,
	"HTTP.RETRY_MAX":       3,
	"HTTP.TIMEOUT":         10 * time.Second,
}

// HarnessConfig converts the bench settings for the benchmark harness.
func (c Config) HarnessConfig() bench.Config {
	cfg := bench.DefaultConfig()
	cfg.Rounds = c.Bench.Rounds
	cfg.WarmupRounds = c.Bench.WarmupRounds
	cfg.Settle = time.Duration(c.Bench.SettleMs) * time.Millisecond
	cfg.MinIterations = c.Bench.MinIterations
	cfg.MaxIterations = c.Bench.MaxIterations
	cfg.CollectGarbage = c.Bench.GC
	return cfg
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch fv.Kind() {
		case reflect.Struct:
			bindEnvs(v, fv.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_with":
		return fmt.Sprintf("This is field requires the presence of %s", util.ToScreamingSnakeCase(fe.Param()))
	case "numeric":
		return "This field must be a number"
	case "min":
		return fmt.Sprintf("This field must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("This field must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("This field must be greater than %s", fe.Param())
	case "gtefield":
		return fmt.Sprintf("This field must be greater or equal than %s", util.ToScreamingSnakeCase(fe.Param()))
	}
	return fe.Error() // default error
}

// envName maps a validator namespace like "Config.BENCH.MAX_ITERATIONS" to BENCH_MAX_ITERATIONS.
func envName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}

	return strings.ReplaceAll(ns, ".", "_")
}

// Load reads the configuration from the environment, applying defaults for anything unset.
func Load() (config Config, err error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	config = Config{}
	bindEnvs(v, config)

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("error reading configuration from environment: %w", err)
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	if err = validate.Struct(&config); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			var msgs []string
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", envName(fe), msgForTag(fe)))
			}

			return Config{}, errors.New(strings.Join(msgs, ". "))
		}

		return Config{}, fmt.Errorf("error validating configuration from environment: %w", err)
	}

	return config, nil
}
