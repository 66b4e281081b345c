package diagnostic

import "parcel-planner/internal/common"

// Kind identifies the rule a diagnostic reports.
type Kind int

const (
	KindUnknown Kind = iota

	// Construction.
	AbstractTypeNotConstructible
	TooManyDesignatedConstructors
	TooManyDesignatedFactories
	AmbiguousConstructionStrategy
	NoDesignatedConstructor
	NonStaticFactory
	MismatchedFactoryParameters
	NonStaticInnerType

	// Properties and types.
	MismatchedTypes
	DuplicateProperty
	CollidingProperty
	UnresolvedPropertyType

	// Converters.
	CollidingConverter
	InvalidConverter

	// Callbacks.
	InvalidCallbackSignature

	// Warnings.
	UnverifiedConverter
	InvalidPropertyAccessor
	IgnoredMembers
	MissingSupertype
)

// String returns the kind name used as the diagnostic code.
func (k Kind) String() string {
	switch k {
	case AbstractTypeNotConstructible:
		return "AbstractTypeNotConstructible"
	case TooManyDesignatedConstructors:
		return "TooManyDesignatedConstructors"
	case TooManyDesignatedFactories:
		return "TooManyDesignatedFactories"
	case AmbiguousConstructionStrategy:
		return "AmbiguousConstructionStrategy"
	case NoDesignatedConstructor:
		return "NoDesignatedConstructor"
	case NonStaticFactory:
		return "NonStaticFactory"
	case MismatchedFactoryParameters:
		return "MismatchedFactoryParameters"
	case NonStaticInnerType:
		return "NonStaticInnerType"
	case MismatchedTypes:
		return "MismatchedTypes"
	case DuplicateProperty:
		return "DuplicateProperty"
	case CollidingProperty:
		return "CollidingProperty"
	case UnresolvedPropertyType:
		return "UnresolvedPropertyType"
	case CollidingConverter:
		return "CollidingConverter"
	case InvalidConverter:
		return "InvalidConverter"
	case InvalidCallbackSignature:
		return "InvalidCallbackSignature"
	case UnverifiedConverter:
		return "UnverifiedConverter"
	case InvalidPropertyAccessor:
		return "InvalidPropertyAccessor"
	case IgnoredMembers:
		return "IgnoredMembers"
	case MissingSupertype:
		return "MissingSupertype"
	default:
		return common.UnknownStr
	}
}

// Severity returns the severity a kind is reported with.
func (k Kind) Severity() DiagnosticSeverity {
	switch k {
	case UnverifiedConverter, InvalidPropertyAccessor, IgnoredMembers, MissingSupertype:
		return DiagnosticWarning
	case KindUnknown:
		return DiagnosticInfo
	default:
		return DiagnosticError
	}
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, int(MissingSupertype))
	for k := AbstractTypeNotConstructible; k <= MissingSupertype; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}
