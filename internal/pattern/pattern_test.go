package pattern

import "testing"

func TestMatchIncludeAndIgnore(t *testing.T) {
	m := Compile("/proj", []string{"*.txt"}, []string{"tmp/*"})

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "include glob matches",
			path: "/proj/notes.txt",
			want: true,
		},
		{
			name: "ignore wins over include",
			path: "/proj/tmp/notes.txt",
			want: false,
		},
		{
			name: "no include match",
			path: "/proj/notes.md",
			want: false,
		},
		{
			name: "single star does not cross directories",
			path: "/proj/sub/notes.txt",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestMatchDoublestar(t *testing.T) {
	m := Compile("/proj", []string{"src/**"}, nil)

	if !m.Match("/proj/src/a.rs") {
		t.Errorf("Match(/proj/src/a.rs) = false, want true")
	}
	if !m.Match("/proj/src/deep/nested/b.rs") {
		t.Errorf("Match(/proj/src/deep/nested/b.rs) = false, want true")
	}
	if m.Match("/proj/docs/x.md") {
		t.Errorf("Match(/proj/docs/x.md) = true, want false")
	}
}

func TestMatchLiteralPrefix(t *testing.T) {
	// A glob-free pattern acts as a subtree prefix: anything under it matches.
	m := Compile("/proj", []string{"src"}, nil)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "the named path itself",
			path: "/proj/src",
			want: true,
		},
		{
			name: "file under prefix",
			path: "/proj/src/main.go",
			want: true,
		},
		{
			name: "deeply nested under prefix",
			path: "/proj/src/a/b/c.go",
			want: true,
		},
		{
			name: "sibling sharing a name prefix",
			path: "/proj/srcdir/main.go",
			want: false,
		},
		{
			name: "outside prefix",
			path: "/proj/docs/readme.md",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestMatchPrefixBeatsIgnoreOnlyWhenIgnoreMisses(t *testing.T) {
	m := Compile("/proj", []string{"src"}, []string{"src/gen/*"})

	if !m.Match("/proj/src/main.go") {
		t.Errorf("Match(/proj/src/main.go) = false, want true")
	}
	if m.Match("/proj/src/gen/stub.go") {
		t.Errorf("Match(/proj/src/gen/stub.go) = true, want false")
	}
}

func TestCompileDropsInvalidGlob(t *testing.T) {
	// The bad bracket expression is dropped; the good pattern still works.
	m := Compile("/proj", []string{"[", "*.txt"}, nil)

	if !m.Match("/proj/notes.txt") {
		t.Errorf("Match(/proj/notes.txt) = false, want true")
	}
	if len(m.includes) != 1 {
		t.Errorf("includes = %d patterns, want 1", len(m.includes))
	}
	// The invalid pattern still contributes a (harmless) literal prefix.
	if len(m.prefixes) != 2 {
		t.Errorf("prefixes = %d entries, want 2", len(m.prefixes))
	}
}

func TestCompileRelativePatternStaysUnderRoot(t *testing.T) {
	m := Compile("/proj/sub", []string{"../escape/*"}, nil)

	// Resolution happens against the root; whatever it produces, paths under
	// the root that the pattern did not name must not match.
	if m.Match("/proj/sub/file.txt") {
		t.Errorf("Match(/proj/sub/file.txt) = true, want false")
	}
}
