package config

import (
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"

	"parcel-planner/internal/match"
)

// SupportedVersions is the range of configuration versions this build reads.
var SupportedVersions = semver.MustParseRange(">=1.0.0 <2.0.0")

var formats = map[string]bool{FormatYAML: true, FormatJSON: true, FormatText: true, FormatSpew: true}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if v, err := semver.ParseTolerant(c.Version); err != nil {
		addf("version %q: %v", c.Version, err)
	} else if !SupportedVersions(v) {
		addf("config version %s is not supported, want >=1.0.0 <2.0.0", v)
	}

	if c.Language != LanguageJava && c.Language != LanguageGo {
		addf("unknown language %q, want java or go", c.Language)
	}

	if len(c.Sources) == 0 {
		addf("no sources configured")
	}

	if c.Workers < 0 {
		addf("workers must not be negative, got %d", c.Workers)
	}

	if _, err := match.ParseAccessorStyle(c.Analysis.AccessorStyle); err != nil {
		addf("%v", err)
	}

	for key := range c.Analysis.Vocabulary {
		if _, ok := vocabularyKeys[key]; !ok {
			addf("unknown vocabulary entry %q", key)
		}
	}

	if !formats[c.Output.Format] {
		addf("unknown output format %q", c.Output.Format)
	}

	if c.Log.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
			addf("log level: %v", err)
		}
	}

	if len(problems) > 0 {
		return errors.Newf("invalid config: %s", strings.Join(problems, "; "))
	}

	return nil
}
