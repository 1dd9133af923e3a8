package uri

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestParse verifies URI parsing for all supported forms.
//
// Scenario: User provides repository URIs in HTTPS, SSH, SCP-style, git and file form
// Expected: Protocol, host, port and path segments are extracted, with .git stripped once from the last segment
func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want URI
	}{
		{
			name: "https with git suffix",
			in:   "https://github.com/user/repo.git",
			want: URI{
				Raw:      "https://github.com/user/repo.git",
				Protocol: "https",
				Host:     "github.com",
				Segments: []string{"user", "repo"},
			},
		},
		{
			name: "https without git suffix",
			in:   "https://github.com/user/repo",
			want: URI{
				Raw:      "https://github.com/user/repo",
				Protocol: "https",
				Host:     "github.com",
				Segments: []string{"user", "repo"},
			},
		},
		{
			name: "ssh standard form",
			in:   "ssh://git@github.com/user/repo.git",
			want: URI{
				Raw:      "ssh://git@github.com/user/repo.git",
				Protocol: "ssh",
				Host:     "github.com",
				Segments: []string{"user", "repo"},
			},
		},
		{
			name: "ssh with explicit port",
			in:   "ssh://git@host.xz:29418/repo.git",
			want: URI{
				Raw:      "ssh://git@host.xz:29418/repo.git",
				Protocol: "ssh",
				Host:     "host.xz",
				Port:     "29418",
				Segments: []string{"repo"},
			},
		},
		{
			name: "scp style",
			in:   "git@github.com:user/repo.git",
			want: URI{
				Raw:      "git@github.com:user/repo.git",
				Protocol: "ssh",
				Host:     "github.com",
				Segments: []string{"user", "repo"},
			},
		},
		{
			name: "scp style nested group",
			in:   "git@gitlab.com:group/subgroup/project.git",
			want: URI{
				Raw:      "git@gitlab.com:group/subgroup/project.git",
				Protocol: "ssh",
				Host:     "gitlab.com",
				Segments: []string{"group", "subgroup", "project"},
			},
		},
		{
			name: "http with port",
			in:   "http://git.example.com:3000/org/project.git",
			want: URI{
				Raw:      "http://git.example.com:3000/org/project.git",
				Protocol: "http",
				Host:     "git.example.com",
				Port:     "3000",
				Segments: []string{"org", "project"},
			},
		},
		{
			name: "git protocol",
			in:   "git://github.com/user/repo.git",
			want: URI{
				Raw:      "git://github.com/user/repo.git",
				Protocol: "git",
				Host:     "github.com",
				Segments: []string{"user", "repo"},
			},
		},
		{
			name: "file without host",
			in:   "file:///home/user/repos/project",
			want: URI{
				Raw:      "file:///home/user/repos/project",
				Protocol: "file",
				Segments: []string{"home", "user", "repos", "project"},
			},
		},
		{
			name: "deeply nested path",
			in:   "https://gitlab.com/group/subgroup/subsubgroup/project.git",
			want: URI{
				Raw:      "https://gitlab.com/group/subgroup/subsubgroup/project.git",
				Protocol: "https",
				Host:     "gitlab.com",
				Segments: []string{"group", "subgroup", "subsubgroup", "project"},
			},
		},
		{
			name: "surrounding whitespace stripped",
			in:   "  https://github.com/user/repo.git  ",
			want: URI{
				Raw:      "https://github.com/user/repo.git",
				Protocol: "https",
				Host:     "github.com",
				Segments: []string{"user", "repo"},
			},
		},
		{
			name: "scheme and host lowercased",
			in:   "HTTPS://GitHub.COM/Org/Repo.git",
			want: URI{
				Raw:      "HTTPS://GitHub.COM/Org/Repo.git",
				Protocol: "https",
				Host:     "github.com",
				Segments: []string{"Org", "Repo"},
			},
		},
		{
			name: "git suffix stripped only once",
			in:   "https://github.com/a/b.git.git",
			want: URI{
				Raw:      "https://github.com/a/b.git.git",
				Protocol: "https",
				Host:     "github.com",
				Segments: []string{"a", "b.git"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if diff := cmp.Diff(&tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

// TestParse_Errors verifies rejection of malformed URIs.
//
// Scenario: User provides an empty URI or one missing protocol, host or path
// Expected: Parse fails with an error wrapping ErrInvalid that names the problem
func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantMsg string
	}{
		{"empty", "", "empty"},
		{"whitespace only", "   ", "empty"},
		{"missing protocol", "github.com/user/repo.git", "missing protocol"},
		{"missing host", "https:///user/repo.git", "missing host"},
		{"missing path", "https://github.com", "missing path"},
		{"missing path with slash", "https://github.com/", "missing path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.in)
			if err == nil {
				t.Fatalf("Parse(%q) = nil error, want failure", tt.in)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalid", tt.in, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Parse(%q) error = %q, want to contain %q", tt.in, err.Error(), tt.wantMsg)
			}
		})
	}
}

// TestParse_Idempotent verifies that reparsing the Raw field reproduces
// the same result.
func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	uris := []string{
		"https://github.com/user/repo.git",
		"git@github.com:org/proj.git",
		"  ssh://git@host.xz:29418/repo.git ",
		"file:///home/user/project",
	}

	for _, in := range uris {
		first, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		second, err := Parse(first.Raw)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", first.Raw, err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Parse(Parse(%q).Raw) mismatch (-first +second):\n%s", in, diff)
		}
	}
}

// TestSegment verifies signed index access into path segments.
//
// Scenario: Templates address path segments from the front (0-based) and the back (-1 is last)
// Expected: Segment(i) equals Segment(i-n) for every valid i; out-of-range indices fail
func TestSegment(t *testing.T) {
	t.Parallel()

	u, err := Parse("https://gitlab.com/group/subgroup/project.git")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "group"},
		{1, "subgroup"},
		{2, "project"},
		{-1, "project"},
		{-2, "subgroup"},
		{-3, "group"},
	}

	for _, tt := range tests {
		got, err := u.Segment(tt.index)
		if err != nil {
			t.Errorf("Segment(%d) error: %v", tt.index, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Segment(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}

	// Signed symmetry: i and i-n address the same segment.
	n := len(u.Segments)
	for i := 0; i < n; i++ {
		front, _ := u.Segment(i)
		back, _ := u.Segment(i - n)
		if front != back {
			t.Errorf("Segment(%d) = %q, Segment(%d) = %q, want equal", i, front, i-n, back)
		}
	}
}

func TestSegment_OutOfRange(t *testing.T) {
	t.Parallel()

	u, err := Parse("https://github.com/user/repo.git")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	for _, index := range []int{2, -3, 100, -100} {
		_, err := u.Segment(index)
		if err == nil {
			t.Errorf("Segment(%d) = nil error, want out of range", index)
			continue
		}
		var ie *IndexError
		if !errors.As(err, &ie) {
			t.Errorf("Segment(%d) error = %T, want *IndexError", index, err)
			continue
		}
		if ie.Index != index || ie.Count != 2 {
			t.Errorf("Segment(%d) IndexError = {Index: %d, Count: %d}, want {Index: %d, Count: 2}",
				index, ie.Index, ie.Count, index)
		}
	}
}
