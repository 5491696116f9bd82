package adapter

import (
	"path"
	"strings"
)

// dirname returns the parent of p with "" standing for the current directory.
// Trailing slashes are ignored, so dirname("a/b/") is "a".
func dirname(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" {
		if strings.HasPrefix(p, "/") {
			return "/"
		}
		return ""
	}

	dir := path.Dir(trimmed)
	if dir == "." {
		return ""
	}
	return dir
}

// basename returns the last component of p, ignoring trailing slashes.
func basename(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" {
		return ""
	}
	return path.Base(trimmed)
}

// splitExtension splits a leaf name at its last dot.
// ".profile" has no stem and extension "profile".
func splitExtension(name string) (stem, ext string) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// equalFoldASCII compares strings ignoring ASCII letter case only.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// isRoot reports whether p is one of the two spellings of the root.
func isRoot(p string) bool {
	return p == "" || p == "/"
}
