package fsys

import "strings"

// Separator is used to join paths regardless of the platform.
const Separator = "/"

// TrimTrailingSlash removes trailing separators, but keeps a lone "/".
func TrimTrailingSlash(path string) string {
	for len(path) > 1 && strings.HasSuffix(path, Separator) {
		path = path[:len(path)-1]
	}
	return path
}

// Join appends a single path segment to parent.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}

	if strings.HasSuffix(parent, Separator) {
		return parent + name
	}

	return parent + Separator + name
}

// Base returns the last segment of path, "/" for the filesystem root.
func Base(path string) string {
	path = TrimTrailingSlash(path)
	if path == Separator {
		return Separator
	}

	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[i+1:]
	}

	return path
}

// ValidName returns whether name can be used as a single path segment.
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.Contains(name, Separator)
}
