package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. PARCEL_PLANNER_OUTPUT_FORMAT.
const EnvPrefix = "PARCEL_PLANNER"

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"language":        "language",
	"source":          "sources",
	"type":            "targets",
	"workers":         "workers",
	"format":          "output.format",
	"output":          "output.file",
	"accessor-style":  "analysis.accessor-style",
	"strict-unboxing": "analysis.strict-unboxing",
	"metrics-file":    "metrics.file",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

// BindFlags declares the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "configuration file (default "+DefaultFileName+" when present)")
	fs.StringP("language", "l", "", "source language: java or go")
	fs.StringSliceP("source", "s", nil, "source directory (java) or package pattern (go); repeatable")
	fs.StringSliceP("type", "t", nil, "qualified type to analyze; repeatable, defaults to every @Parcel type")
	fs.IntP("workers", "j", 0, "concurrent analyses, 0 for GOMAXPROCS")
	fs.StringP("format", "f", "", "output format: yaml, json, text or spew")
	fs.StringP("output", "o", "", "output file, standard output when empty")
	fs.String("accessor-style", "", "bean accessor convention: java or go")
	fs.Bool("strict-unboxing", false, "reject boxed reads flowing into primitive writes")
	fs.String("metrics-file", "", "write Prometheus metrics to this file after the run")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.String("log-format", "", "log format: console or json")
}

// Load reads the configuration. The file is taken from the "config" flag,
// else DefaultFileName in the working directory when it exists. Only flags
// that were set on fs override file and environment values. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path := ""
	if fs != nil {
		path, _ = fs.GetString("config")
	}

	if path == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			path = DefaultFileName
		}
	}

	if path != "" {
		v.SetConfigFile(path)

		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			v.SetConfigType("yaml")
		case ".json":
			v.SetConfigType("json")
		default:
		}

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}

		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind flag %s", name)
		}
	}

	return nil
}

// setDefaults registers every key of def so that environment overrides and
// Unmarshal see the full key set.
func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("version", def.Version)
	v.SetDefault("language", def.Language)
	v.SetDefault("sources", def.Sources)
	v.SetDefault("targets", def.Targets)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("analysis.accessor-style", def.Analysis.AccessorStyle)
	v.SetDefault("analysis.strict-unboxing", def.Analysis.StrictUnboxing)
	v.SetDefault("analysis.max-suggestions", def.Analysis.MaxSuggestions)
	v.SetDefault("analysis.converter-interfaces", def.Analysis.ConverterInterfaces)
	v.SetDefault("analysis.parcelable-interfaces", def.Analysis.ParcelableInterfaces)
	v.SetDefault("analysis.supported-types", def.Analysis.SupportedTypes)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.file", def.Output.File)
	v.SetDefault("metrics.file", def.Metrics.File)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.stdout", def.Log.Stdout)
	v.SetDefault("log.file.root-path", def.Log.File.RootPath)
	v.SetDefault("log.file.filename", def.Log.File.Filename)
	v.SetDefault("log.file.max-size", def.Log.File.MaxSize)
	v.SetDefault("log.file.max-days", def.Log.File.MaxDays)
	v.SetDefault("log.file.max-backups", def.Log.File.MaxBackups)
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WriteFile writes cfg to path as YAML.
func WriteFile(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}

	return nil
}
