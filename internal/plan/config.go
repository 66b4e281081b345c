package plan

import (
	"parcel-planner/internal/analyze"
	"parcel-planner/internal/match"
)

// Vocabulary names the annotations the planner recognizes. Names may be
// qualified or simple; see common.SameName for how they are matched.
type Vocabulary struct {
	Parcel                  string
	ParcelProperty          string
	ParcelPropertyConverter string
	ParcelConstructor       string
	ParcelFactory           string
	Transient               string
	OnWrap                  string
	OnUnwrap                string
}

// DefaultVocabulary returns the org.parceler annotation names.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Parcel:                  "org.parceler.Parcel",
		ParcelProperty:          "org.parceler.ParcelProperty",
		ParcelPropertyConverter: "org.parceler.ParcelPropertyConverter",
		ParcelConstructor:       "org.parceler.ParcelConstructor",
		ParcelFactory:           "org.parceler.ParcelFactory",
		Transient:               "org.parceler.Transient",
		OnWrap:                  "org.parceler.OnWrap",
		OnUnwrap:                "org.parceler.OnUnwrap",
	}
}

// Config holds the immutable configuration of an Analyzer.
type Config struct {
	// Vocabulary of recognized annotations.
	Vocabulary Vocabulary
	// AccessorStyle selects the bean accessor naming convention.
	AccessorStyle match.AccessorStyle
	// StrictUnboxing rejects a boxed value flowing into a primitive.
	StrictUnboxing bool
	// ConverterInterfaces are the interfaces a converter must implement.
	// The first type argument is the converted type.
	ConverterInterfaces []analyze.TypeID
	// ParcelableInterfaces mark types that serialize themselves.
	ParcelableInterfaces []analyze.TypeID
	// SupportedTypes extends the built-in set of serializable types.
	SupportedTypes []analyze.TypeID
	// MaxSuggestions limits "did you mean" suggestions per diagnostic.
	MaxSuggestions int
}

// DefaultConfig returns the default analyzer configuration.
func DefaultConfig() Config {
	return Config{
		Vocabulary:    DefaultVocabulary(),
		AccessorStyle: match.AccessorJavaBeans,
		ConverterInterfaces: []analyze.TypeID{
			{PkgPath: "org.parceler", Name: "ParcelConverter"},
			{PkgPath: "org.parceler", Name: "TypeRangeParcelConverter"},
		},
		ParcelableInterfaces: []analyze.TypeID{
			{PkgPath: "android.os", Name: "Parcelable"},
		},
		MaxSuggestions: 3,
	}
}

// ParseTypeID splits a qualified name at its last dot:
// "org.parceler.ParcelConverter" and "example.com/pkg.Converter" both work.
func ParseTypeID(qualified string) analyze.TypeID {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return analyze.TypeID{PkgPath: qualified[:i], Name: qualified[i+1:]}
		}
	}

	return analyze.TypeID{Name: qualified}
}
