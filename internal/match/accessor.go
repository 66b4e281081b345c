package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/common"
)

// AccessorStyle is a naming convention for getters and setters.
type AccessorStyle int

const (
	// AccessorJavaBeans recognizes getX(), isX() and setX(v).
	AccessorJavaBeans AccessorStyle = iota
	// AccessorGo recognizes X() or GetX(), and SetX(v).
	AccessorGo
)

// String returns the configuration name of the style.
func (s AccessorStyle) String() string {
	switch s {
	case AccessorJavaBeans:
		return "java"
	case AccessorGo:
		return "go"
	default:
		return common.UnknownStr
	}
}

// ParseAccessorStyle parses "java" or "go".
func ParseAccessorStyle(s string) (AccessorStyle, error) {
	switch strings.ToLower(s) {
	case "", "java", "javabeans":
		return AccessorJavaBeans, nil
	case "go":
		return AccessorGo, nil
	default:
		return AccessorJavaBeans, errors.Newf("unknown accessor style %q", s)
	}
}

// AccessorRole tells how a method participates in a property.
type AccessorRole int

const (
	RoleNone AccessorRole = iota
	RoleGetter
	RoleSetter
)

// String returns a human-readable role name.
func (r AccessorRole) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleGetter:
		return "getter"
	case RoleSetter:
		return "setter"
	default:
		return common.UnknownStr
	}
}

// Shape returns the role implied by the signature alone: no parameters and a
// result for getters, one parameter and no result for setters.
func Shape(m *analyze.MethodDecl) AccessorRole {
	switch {
	case len(m.Params) == 0 && !m.IsVoid() && m.Result.Kind != analyze.RefUnknown:
		return RoleGetter
	case len(m.Params) == 1 && m.IsVoid():
		return RoleSetter
	default:
		return RoleNone
	}
}

// Classify returns the property name and role of m under the convention, or
// RoleNone when m is not an accessor.
func (s AccessorStyle) Classify(m *analyze.MethodDecl) (string, AccessorRole) {
	role := Shape(m)
	if role == RoleNone {
		return "", RoleNone
	}

	switch s {
	case AccessorGo:
		return classifyGo(m, role)
	default:
		return classifyJavaBeans(m, role)
	}
}

func classifyJavaBeans(m *analyze.MethodDecl, role AccessorRole) (string, AccessorRole) {
	switch role {
	case RoleGetter:
		if rest, ok := cutPrefix(m.Name, "get"); ok {
			return Decapitalize(rest), RoleGetter
		}

		if rest, ok := cutPrefix(m.Name, "is"); ok && IsJavaBoolean(m.Result) {
			return Decapitalize(rest), RoleGetter
		}
	case RoleSetter:
		if rest, ok := cutPrefix(m.Name, "set"); ok {
			return Decapitalize(rest), RoleSetter
		}
	default:
	}

	return "", RoleNone
}

func classifyGo(m *analyze.MethodDecl, role AccessorRole) (string, AccessorRole) {
	switch role {
	case RoleGetter:
		if _, ok := cutPrefix(m.Name, "Set"); ok {
			return "", RoleNone
		}

		if rest, ok := cutPrefix(m.Name, "Get"); ok {
			return Decapitalize(rest), RoleGetter
		}

		return Decapitalize(m.Name), RoleGetter
	case RoleSetter:
		if rest, ok := cutPrefix(m.Name, "Set"); ok {
			return Decapitalize(rest), RoleSetter
		}
	default:
	}

	return "", RoleNone
}

// cutPrefix strips prefix when a non-empty, upper-case-led remainder follows.
func cutPrefix(name, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || rest == "" {
		return "", false
	}

	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) && r != '_' && !unicode.IsDigit(r) {
		return "", false
	}

	return rest, true
}

// Decapitalize lower-cases the first letter of s unless the first two
// letters are both upper case ("URL" stays "URL", "Value" becomes "value").
func Decapitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}

	if len(runes) > 1 && unicode.IsUpper(runes[0]) && unicode.IsUpper(runes[1]) {
		return s
	}

	runes[0] = unicode.ToLower(runes[0])

	return string(runes)
}
