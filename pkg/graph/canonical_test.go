package graph

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		entityType string
		want       string
	}{
		{
			name:       "honorific stripped from person",
			text:       "Dr. Jane Smith",
			entityType: "PERSON",
			want:       "Jane Smith",
		},
		{
			name:       "the prefix stripped from org",
			text:       "The Acme Corp",
			entityType: "ORG",
			want:       "Acme Corp",
		},
		{
			name:       "person title-cased",
			text:       "jane SMITH",
			entityType: "PERSON",
			want:       "Jane Smith",
		},
		{
			name:       "location passes through uncased",
			text:       "new york",
			entityType: "LOC",
			want:       "new york",
		},
		{
			name:       "whitespace trimmed",
			text:       "  Berlin  ",
			entityType: "LOC",
			want:       "Berlin",
		},
		{
			name:       "apostrophe restarts capitalization",
			text:       "patrick o'brien",
			entityType: "PERSON",
			want:       "Patrick O'Brien",
		},
		{
			name:       "hyphenated surname capitalized per part",
			text:       "anna SMITH-JONES",
			entityType: "PERSON",
			want:       "Anna Smith-Jones",
		},
		{
			name:       "only one honorific stripped",
			text:       "Dr. Prof. Adler",
			entityType: "PERSON",
			want:       "Prof. Adler",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonicalize(tt.text, tt.entityType)
			if got != tt.want {
				t.Errorf("Canonicalize(%q, %q) = %q, want %q", tt.text, tt.entityType, got, tt.want)
			}
		})
	}
}

func TestEntityIDDeterministic(t *testing.T) {
	a := EntityID(Canonicalize("Dr. Jane Smith", "PERSON"), "PERSON")
	b := EntityID(Canonicalize("jane smith", "PERSON"), "PERSON")
	if a != b {
		t.Errorf("aliases derived different ids: %q vs %q", a, b)
	}
	if len(a) != 12 {
		t.Errorf("id length = %d, want 12", len(a))
	}

	c := EntityID("Jane Smith", "ORG")
	if a == c {
		t.Error("same name with different type must derive a different id")
	}
}

func TestRelationshipID(t *testing.T) {
	got := RelationshipID("abc", "CO_OCCURS", "def")
	want := "abc_CO_OCCURS_def"
	if got != want {
		t.Errorf("RelationshipID = %q, want %q", got, want)
	}
}
