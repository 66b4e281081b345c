package log

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	_globalL atomic.Pointer[zap.Logger]
	_globalP atomic.Pointer[ZapProperties]
)

func init() {
	l, p, err := InitLogger(&Config{Level: "info", Stdout: true})
	if err != nil {
		l, p = zap.NewNop(), &ZapProperties{Core: zapcore.NewNopCore(), Level: zap.NewAtomicLevel()}
	}

	ReplaceGlobals(l, p)
}

// InitLogger builds a logger writing to the configured outputs.
func InitLogger(cfg *Config, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	var outputs []zapcore.WriteSyncer
	if len(cfg.File.Filename) > 0 {
		lg, err := initFileLog(&cfg.File)
		if err != nil {
			return nil, nil, err
		}

		outputs = append(outputs, zapcore.AddSync(lg))
	}

	if cfg.Stdout {
		outputs = append(outputs, zapcore.Lock(os.Stderr))
	}

	return InitLoggerWithWriteSyncer(cfg, zap.CombineWriteSyncers(outputs...), opts...)
}

// InitLoggerWithWriteSyncer builds a logger writing to output.
func InitLoggerWithWriteSyncer(cfg *Config, output zapcore.WriteSyncer, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	level := zap.NewAtomicLevel()

	text := cfg.Level
	if text == "" {
		text = "info"
	}

	if err := level.UnmarshalText([]byte(strings.ToLower(text))); err != nil {
		return nil, nil, errors.Wrapf(err, "parse log level %q", cfg.Level)
	}

	core := zapcore.NewCore(cfg.encoder(), output, level)
	opts = append(cfg.buildOptions(output), opts...)

	return zap.New(core, opts...), &ZapProperties{Core: core, Syncer: output, Level: level}, nil
}

// initFileLog opens a rotating log file.
func initFileLog(cfg *FileLogConfig) (*lumberjack.Logger, error) {
	logPath := filepath.Join(cfg.RootPath, cfg.Filename)
	if st, err := os.Stat(logPath); err == nil && st.IsDir() {
		return nil, errors.Newf("can't use directory %s as log file name", logPath)
	}

	maxSize := cfg.MaxSize
	if maxSize == 0 {
		maxSize = defaultLogMaxSize
	}

	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxDays,
		LocalTime:  true,
	}, nil
}

// L returns the global Logger, which can be reconfigured with ReplaceGlobals.
// It's safe for concurrent use.
func L() *zap.Logger {
	return _globalL.Load()
}

// S returns the global SugaredLogger.
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// ReplaceGlobals replaces the global Logger. It's safe for concurrent use.
func ReplaceGlobals(logger *zap.Logger, props *ZapProperties) {
	_globalL.Store(logger)
	_globalP.Store(props)
}

// Level returns the level of the global logger, which can be changed at runtime.
func Level() zap.AtomicLevel {
	return _globalP.Load().Level
}

// Sync flushes any buffered log entries.
func Sync() error {
	return L().Sync()
}
