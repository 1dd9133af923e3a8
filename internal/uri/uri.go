// Package uri parses git repository URIs into protocol, host, port and
// path segments.
//
// Supported forms:
//
//	https://github.com/user/repo.git   standard URL
//	ssh://git@github.com/user/repo.git SSH URL
//	git@github.com:user/repo.git       SCP-style SSH
//	file:///path/to/repo               local file URL
package uri

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalid is wrapped by every parse failure.
var ErrInvalid = errors.New("invalid URI")

// scpRegex matches SCP-style SSH addresses of the form user@host:path.
var scpRegex = regexp.MustCompile(`^([^@]+)@([^:]+):(.+)$`)

// URI holds the components of a parsed git repository URI.
// Fields are fixed at parse time.
type URI struct {
	// Raw is the original URI string with surrounding whitespace removed.
	Raw string
	// Protocol is the lowercased scheme (https, ssh, git, file, ...).
	Protocol string
	// Host is the hostname without user info or port.
	Host string
	// Port is the port as a string, empty when unspecified.
	Port string
	// Segments are the path segments with empty entries dropped and a
	// single trailing ".git" stripped from the last one.
	Segments []string
}

// Parse parses a git repository URI.
func Parse(s string) (*URI, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalid)
	}

	// SCP-style addresses carry no scheme separator. Anything containing
	// "://" goes through standard URL parsing so that ssh:// URLs with a
	// port are not mistaken for user@host:path.
	if !strings.Contains(s, "://") {
		if m := scpRegex.FindStringSubmatch(s); m != nil {
			return &URI{
				Raw:      s,
				Protocol: "ssh",
				Host:     m[2],
				Segments: splitSegments(m[3]),
			}, nil
		}
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalid, s, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w %q: missing protocol", ErrInvalid, s)
	}
	protocol := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if host == "" && protocol != "file" {
		return nil, fmt.Errorf("%w %q: missing host", ErrInvalid, s)
	}

	segments := splitSegments(u.Path)
	if len(segments) == 0 && protocol != "file" {
		return nil, fmt.Errorf("%w %q: missing path", ErrInvalid, s)
	}

	return &URI{
		Raw:      s,
		Protocol: protocol,
		Host:     host,
		Port:     u.Port(),
		Segments: segments,
	}, nil
}

// Segment returns the path segment at index i. Negative indices count
// from the end, -1 being the last segment.
func (u *URI) Segment(i int) (string, error) {
	j := i
	if j < 0 {
		j += len(u.Segments)
	}
	if j < 0 || j >= len(u.Segments) {
		return "", &IndexError{Index: i, Count: len(u.Segments)}
	}
	return u.Segments[j], nil
}

// IndexError reports a segment index outside the valid range.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("path index %d out of range (%d segments)", e.Index, e.Count)
}

// splitSegments splits a path on "/", drops empty segments and strips a
// single trailing ".git" from the last segment.
func splitSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if n := len(segments); n > 0 {
		segments[n-1] = strings.TrimSuffix(segments[n-1], ".git")
	}
	return segments
}
