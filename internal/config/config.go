// Package config resolves command settings from flags, environment and an
// optional config file, and validates them.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/charrefs/internal/output"
	"github.com/jmylchreest/charrefs/pkg/charref"
)

// Viper keys.
const (
	KeyOutput       = "output"
	KeyPrefix       = "prefix"
	KeyFormat       = "format"
	KeyFilter       = "filter"
	KeyMaxInputSize = "max_input_size"
	KeyTimeout      = "timeout"
	KeyUserAgent    = "user_agent"
	KeyDebug        = "debug"
	KeyQuiet        = "quiet"
	KeyLogJSON      = "log_json"
	KeyLogFile      = "log_file"
)

// Defaults.
const (
	DefaultPrefix  = ":"
	DefaultFormat  = output.FormatEspanso
	DefaultTimeout = 30 * time.Second
)

// Config holds the resolved settings for one run.
type Config struct {
	Input        string             `validate:"required"`
	Output       string             // empty means stdout
	Prefix       string             // may be empty
	Format       output.Format      `validate:"oneof=json espanso"`
	Filter       charref.FilterMode `validate:"omitempty,oneof=printable unprintable"`
	MaxInputSize uint64             // 0 means unlimited
	Timeout      time.Duration      `validate:"gte=0"`
	UserAgent    string             // empty means the built-in agent
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPrefix, DefaultPrefix)
	v.SetDefault(KeyFormat, string(DefaultFormat))
	v.SetDefault(KeyFilter, "")
	v.SetDefault(KeyMaxInputSize, "0")
	v.SetDefault(KeyTimeout, DefaultTimeout)
}

// Load reads settings from v for the given input and validates them.
func Load(v *viper.Viper, input string) (Config, error) {
	maxSize, err := ParseSize(v.GetString(KeyMaxInputSize))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Input:        input,
		Output:       v.GetString(KeyOutput),
		Prefix:       v.GetString(KeyPrefix),
		Format:       output.Format(v.GetString(KeyFormat)),
		Filter:       charref.FilterMode(v.GetString(KeyFilter)),
		MaxInputSize: maxSize,
		Timeout:      v.GetDuration(KeyTimeout),
		UserAgent:    v.GetString(KeyUserAgent),
	}
	if cfg.Filter == "none" {
		cfg.Filter = charref.FilterNone
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseSize parses a human byte size such as "10MB". Empty and "0" mean unlimited.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid max-input-size %q: %w", s, err)
	}
	return n, nil
}

// Validate checks enumerated and required settings.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	problems := make([]error, 0, len(verrs))
	for _, e := range verrs {
		problems = append(problems, fieldError(e))
	}
	return errors.Join(problems...)
}

func fieldError(e validator.FieldError) error {
	switch e.StructField() {
	case "Format":
		return fmt.Errorf("%w: %q (use %s)", output.ErrUnsupportedFormat, e.Value(), output.FormatList())
	case "Filter":
		return fmt.Errorf("%w: %q (use printable or unprintable)", charref.ErrUnsupportedFilter, e.Value())
	}

	name := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s is required", name)
	case "gte":
		return fmt.Errorf("%s must be at least %s", name, e.Param())
	default:
		return fmt.Errorf("%s failed validation '%s'", name, e.Tag())
	}
}
