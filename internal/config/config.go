package config

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/log"
	"parcel-planner/internal/match"
	"parcel-planner/internal/plan"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "parcel-planner.yaml"

// Source languages.
const (
	LanguageJava = "java"
	LanguageGo   = "go"
)

// Output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatText = "text"
	FormatSpew = "spew"
)

// Config is the root configuration.
type Config struct {
	// Version of the configuration schema, a semantic version.
	Version string `mapstructure:"version" yaml:"version"`
	// Language of the sources: java or go.
	Language string `mapstructure:"language" yaml:"language"`
	// Sources are directories for java, package patterns for go.
	Sources []string `mapstructure:"sources" yaml:"sources"`
	// Targets are qualified type names to analyze. When empty, every type
	// carrying the Parcel annotation is analyzed.
	Targets []string `mapstructure:"targets" yaml:"targets,omitempty"`
	// Workers bounds concurrent analyses; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`

	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
	Log      log.Config     `mapstructure:"log" yaml:"log"`
}

// AnalysisConfig configures the analyzer.
type AnalysisConfig struct {
	// AccessorStyle is java (javabeans) or go.
	AccessorStyle  string `mapstructure:"accessor-style" yaml:"accessor-style"`
	StrictUnboxing bool   `mapstructure:"strict-unboxing" yaml:"strict-unboxing"`
	MaxSuggestions int    `mapstructure:"max-suggestions" yaml:"max-suggestions"`
	// Vocabulary overrides annotation names; unset entries keep the defaults.
	Vocabulary map[string]string `mapstructure:"vocabulary" yaml:"vocabulary,omitempty"`
	// Qualified type names, e.g. "org.parceler.ParcelConverter".
	ConverterInterfaces  []string `mapstructure:"converter-interfaces" yaml:"converter-interfaces,omitempty"`
	ParcelableInterfaces []string `mapstructure:"parcelable-interfaces" yaml:"parcelable-interfaces,omitempty"`
	SupportedTypes       []string `mapstructure:"supported-types" yaml:"supported-types,omitempty"`
}

// OutputConfig selects how results are rendered.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	// File receives the output; empty means standard output.
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// MetricsConfig configures the metrics dump.
type MetricsConfig struct {
	// File receives the Prometheus text exposition after a run.
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Version:  "1.0.0",
		Language: LanguageJava,
		Sources:  []string{"."},
		Analysis: AnalysisConfig{
			AccessorStyle:  match.AccessorJavaBeans.String(),
			MaxSuggestions: 3,
		},
		Output: OutputConfig{Format: FormatYAML},
		Log: log.Config{
			Level:  "info",
			Format: "console",
			Stdout: true,
		},
	}
}

// vocabularyKeys maps configuration keys to the vocabulary entries.
var vocabularyKeys = map[string]func(*plan.Vocabulary) *string{
	"parcel":                    func(v *plan.Vocabulary) *string { return &v.Parcel },
	"parcel-property":           func(v *plan.Vocabulary) *string { return &v.ParcelProperty },
	"parcel-property-converter": func(v *plan.Vocabulary) *string { return &v.ParcelPropertyConverter },
	"parcel-constructor":        func(v *plan.Vocabulary) *string { return &v.ParcelConstructor },
	"parcel-factory":            func(v *plan.Vocabulary) *string { return &v.ParcelFactory },
	"transient":                 func(v *plan.Vocabulary) *string { return &v.Transient },
	"on-wrap":                   func(v *plan.Vocabulary) *string { return &v.OnWrap },
	"on-unwrap":                 func(v *plan.Vocabulary) *string { return &v.OnUnwrap },
}

// PlanConfig converts the analysis section into an analyzer configuration.
// Call it on a validated Config.
func (c *Config) PlanConfig() plan.Config {
	pc := plan.DefaultConfig()
	a := c.Analysis

	if style, err := match.ParseAccessorStyle(a.AccessorStyle); err == nil {
		pc.AccessorStyle = style
	}

	pc.StrictUnboxing = a.StrictUnboxing
	if a.MaxSuggestions > 0 {
		pc.MaxSuggestions = a.MaxSuggestions
	}

	for key, name := range a.Vocabulary {
		if entry, ok := vocabularyKeys[key]; ok && name != "" {
			*entry(&pc.Vocabulary) = name
		}
	}

	if len(a.ConverterInterfaces) > 0 {
		pc.ConverterInterfaces = typeIDs(a.ConverterInterfaces)
	}

	if len(a.ParcelableInterfaces) > 0 {
		pc.ParcelableInterfaces = typeIDs(a.ParcelableInterfaces)
	}

	pc.SupportedTypes = typeIDs(a.SupportedTypes)

	return pc
}

// TargetIDs returns the configured targets without duplicates, in order.
func (c *Config) TargetIDs() []analyze.TypeID {
	return typeIDs(c.Targets)
}

func typeIDs(names []string) []analyze.TypeID {
	seen := sets.New[string]()

	var out []analyze.TypeID
	for _, name := range names {
		if name == "" || seen.Has(name) {
			continue
		}

		seen.Insert(name)
		out = append(out, plan.ParseTypeID(name))
	}

	return out
}
