package models

import (
	"reflect"
	"testing"
)

func TestJoinTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want *string
	}{
		{"nil list", nil, nil},
		{"empty list", []string{}, nil},
		{"single", []string{"sound"}, strPtr("sound")},
		{"order preserved", []string{"b", "a"}, strPtr("b,a")},
		{"duplicates kept", []string{"a", "a"}, strPtr("a,a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JoinTags(tt.tags)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("JoinTags(%v) = %v, want %v", tt.tags, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("JoinTags(%v) = %q, want %q", tt.tags, *got, *tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "light", []string{"light"}},
		{"trims whitespace", " a , b ", []string{"a", "b"}},
		{"drops empties", "a,,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// A tag list joined into the flat column and split back must yield the same
// ordered sequence of non-empty entries.
func TestTagsRoundTrip(t *testing.T) {
	tests := [][]string{
		{"a"},
		{"a", "b", "c"},
		{"b", "a"},
		{"a", "a", "b"},
	}

	for _, tags := range tests {
		joined := JoinTags(tags)
		if joined == nil {
			t.Fatalf("JoinTags(%v) = nil", tags)
		}
		if got := SplitList(*joined); !reflect.DeepEqual(got, tags) {
			t.Errorf("round trip of %v = %v", tags, got)
		}
	}
}

func strPtr(s string) *string {
	return &s
}
