package router

import "strings"

// NormalizeBasePath returns p with a leading slash and no trailing slash.
// An empty or root-only prefix normalizes to "" (no prefix).
func NormalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// StripBase removes base from full on a segment boundary and returns the
// remaining path, always starting with "/". It reports false when full does
// not lie under base: "/api/plugins/x" owns "/api/plugins/x/ui" but not
// "/api/plugins/xy/ui".
func StripBase(base, full string) (string, bool) {
	full = pathOnly(full)
	if !strings.HasPrefix(full, "/") {
		full = "/" + full
	}
	if base == "" {
		return full, true
	}
	if full == base {
		return "/", true
	}
	if strings.HasPrefix(full, base) && full[len(base)] == '/' {
		return full[len(base):], true
	}
	return "", false
}

// JoinBase prefixes rel with base. rel is expected to start with "/".
func JoinBase(base, rel string) string {
	if rel == "" || rel == "/" {
		if base == "" {
			return "/"
		}
		return base
	}
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return base + rel
}

// cleanRelative validates a navigation target relative to the base path.
// Absolute URLs, protocol-relative URLs and ".." segments are refused since
// they could land outside the plugin's prefix.
func cleanRelative(p string) (string, error) {
	if strings.Contains(p, "://") || strings.HasPrefix(p, "//") {
		return "", ErrOutsideBase
	}
	path, suffix := splitSuffix(p)
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return "", ErrOutsideBase
		}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path + suffix, nil
}

// pathOnly drops any query string or fragment.
func pathOnly(p string) string {
	path, _ := splitSuffix(p)
	return path
}

func splitSuffix(p string) (path, suffix string) {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		return p[:i], p[i:]
	}
	return p, ""
}
