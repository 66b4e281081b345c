package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLogMaxSize = 100 // MB

// FileLogConfig configures rotated file output.
type FileLogConfig struct {
	// RootPath is the directory holding the log file.
	RootPath string `mapstructure:"root-path" yaml:"root-path"`
	// Filename is the log file name; empty disables file logging.
	Filename string `mapstructure:"filename" yaml:"filename"`
	// MaxSize is the size in MB that triggers rotation.
	MaxSize int `mapstructure:"max-size" yaml:"max-size"`
	// MaxDays is how long rotated files are kept; 0 keeps them forever.
	MaxDays int `mapstructure:"max-days" yaml:"max-days"`
	// MaxBackups is the number of rotated files kept.
	MaxBackups int `mapstructure:"max-backups" yaml:"max-backups"`
}

// Config configures the global logger.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "console" or "json".
	Format string `mapstructure:"format" yaml:"format"`
	// Stdout sends logs to standard error.
	Stdout bool `mapstructure:"stdout" yaml:"stdout"`
	// File configures rotated file output.
	File FileLogConfig `mapstructure:"file" yaml:"file"`
	// Development enables development mode: DPanic panics and stack
	// traces are taken from warnings on.
	Development bool `mapstructure:"development" yaml:"development"`
	// DisableCaller drops the caller annotation.
	DisableCaller bool `mapstructure:"disable-caller" yaml:"disable-caller"`
	// DisableStacktrace disables automatic stack traces.
	DisableStacktrace bool `mapstructure:"disable-stacktrace" yaml:"disable-stacktrace"`
}

// ZapProperties records the core parts of a built logger.
type ZapProperties struct {
	Core   zapcore.Core
	Syncer zapcore.WriteSyncer
	Level  zap.AtomicLevel
}

func (cfg *Config) encoder() zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.Format == "json" {
		return zapcore.NewJSONEncoder(encCfg)
	}

	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewConsoleEncoder(encCfg)
}

func (cfg *Config) buildOptions(errSink zapcore.WriteSyncer) []zap.Option {
	opts := []zap.Option{zap.ErrorOutput(errSink)}

	if cfg.Development {
		opts = append(opts, zap.Development())
	}

	if !cfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}

	stackLevel := zap.ErrorLevel
	if cfg.Development {
		stackLevel = zap.WarnLevel
	}

	if !cfg.DisableStacktrace {
		opts = append(opts, zap.AddStacktrace(stackLevel))
	}

	return opts
}
