package validation

import "testing"

func TestValidateTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tags []string
		ok   bool
	}{
		{name: "empty list", tags: nil, ok: true},
		{name: "valid tags", tags: []string{"career-change", "burnout", "salary2024"}, ok: true},
		{name: "minimum length", tags: []string{"ab"}, ok: true},
		{name: "maximum length", tags: []string{"abcdefghijklmnopqrstuvwx"}, ok: true},
		{name: "too short", tags: []string{"a"}, ok: false},
		{name: "too long", tags: []string{"abcdefghijklmnopqrstuvwxy"}, ok: false},
		{name: "uppercase", tags: []string{"Career"}, ok: false},
		{name: "underscore", tags: []string{"career_change"}, ok: false},
		{name: "space", tags: []string{"career change"}, ok: false},
		{name: "leading hyphen", tags: []string{"-career"}, ok: false},
		{name: "trailing hyphen", tags: []string{"career-"}, ok: false},
		{name: "one bad among good", tags: []string{"career", "BAD"}, ok: false},
		{name: "too many tags", tags: []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9", "ta", "tb"}, ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTags(tc.tags)
			if tc.ok && err != nil {
				t.Fatalf("expected valid tags, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid tags, got nil error")
			}
		})
	}
}
