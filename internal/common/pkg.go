package common

import (
	"path"
	"strings"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// SimpleName returns the last dot-separated segment of a qualified name.
// "org.parceler.Parcel" becomes "Parcel"; names without dots are returned as is.
func SimpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}

	return qualified
}

// SameName reports whether two possibly qualified names denote the same
// element. When both are qualified they must match exactly; otherwise only
// the simple names are compared.
func SameName(a, b string) bool {
	if a == b {
		return true
	}

	if strings.Contains(a, ".") && strings.Contains(b, ".") {
		return false
	}

	return SimpleName(a) == SimpleName(b)
}
