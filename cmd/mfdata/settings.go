package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	mfdata "github.com/goliatone/go-mfdata"
)

// Settings is the file and environment configuration of the tool. Keys are
// read from mfdata.yaml and MFDATA_* variables.
type Settings struct {
	Indent         string `mapstructure:"indent"`
	FloatPrecision int    `mapstructure:"float_precision"`
	Color          string `mapstructure:"color"`
	LogLevel       string `mapstructure:"log_level"`
}

// loadSettings reads path, or ./mfdata.yaml when path is empty. A missing
// default file is not an error.
func loadSettings(path string) (Settings, error) {
	v := viper.New()
	v.SetDefault("indent", mfdata.DefaultIndent)
	v.SetDefault("float_precision", 0)
	v.SetDefault("color", "auto")
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix("MFDATA")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mfdata")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	switch s.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, found %q", s.Color)
	}
	if s.FloatPrecision < 0 {
		return fmt.Errorf("float_precision must not be negative, found %d", s.FloatPrecision)
	}
	return nil
}

// options turns the settings into package options.
func (s Settings) options(log logr.Logger) []mfdata.Option {
	opts := []mfdata.Option{
		mfdata.WithIndent(s.Indent),
		mfdata.WithLogger(mfdata.NewLogrLogger(log)),
	}
	if s.FloatPrecision > 0 {
		opts = append(opts, mfdata.WithFloatPrecision(s.FloatPrecision))
	}
	return opts
}

// colored reports whether output to w should carry ANSI colors.
func (s Settings) colored(w io.Writer) bool {
	switch s.Color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// newLogger builds a console zap logger on stderr at level, wrapped as logr.
func newLogger(level string) (logr.Logger, func(), error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, err
	}
	return zapr.NewLogger(z), func() { _ = z.Sync() }, nil
}
