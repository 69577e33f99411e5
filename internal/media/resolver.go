package media

import "strings"

// URLResolver rewrites stored image paths into client-facing URLs.
// Destinations persist the site-relative path of their image; the
// absolute form only exists on the wire.
type URLResolver struct {
	base string
}

func NewURLResolver(base string) *URLResolver {
	return &URLResolver{base: strings.TrimRight(strings.TrimSpace(base), "/")}
}

// Resolve maps a stored path to the URL clients should fetch:
// nil or empty stays nil, anything carrying a scheme passes through
// untouched, and a site-relative path gets the public base prefixed.
func (r *URLResolver) Resolve(path *string) *string {
	if path == nil {
		return nil
	}
	v := strings.TrimSpace(*path)
	if v == "" {
		return nil
	}
	if strings.Contains(v, "://") {
		return &v
	}
	if strings.HasPrefix(v, "/") {
		resolved := r.base + v
		return &resolved
	}
	return &v
}
