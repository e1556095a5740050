package course

import "testing"

func TestCatalogSearch(t *testing.T) {
	cat := DefaultCatalog()

	tests := []struct {
		name string
		term string
		want []int
	}{
		{"empty matches all", "", []int{1, 2, 3, 4, 5, 6}},
		{"title", "system design", []int{4}},
		{"title and topic", "system", []int{2, 4}},
		{"case insensitive", "BEHAVIORAL", []int{5}},
		{"description", "server-side", []int{2}},
		{"topic", "sharding", []int{4}},
		{"topic across categories", "javascript", []int{1, 6}},
		{"no match", "cobol", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cat.Search(tt.term)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) returned %d categories, want %d", tt.term, len(got), len(tt.want))
			}
			for i, c := range got {
				if c.ID != tt.want[i] {
					t.Errorf("Search(%q)[%d].ID = %d, want %d", tt.term, i, c.ID, tt.want[i])
				}
			}
		})
	}
}

func TestCatalogFind(t *testing.T) {
	cat := DefaultCatalog()

	c, ok := cat.Find(3)
	if !ok || c.Title != "DSA in C++" {
		t.Errorf("Find(3) = %q, %v; want DSA in C++", c.Title, ok)
	}
	if !c.HasTopic("dynamic programming") {
		t.Error("HasTopic(dynamic programming) = false, want true")
	}
	if _, ok := cat.Find(42); ok {
		t.Error("Find(42) found a category")
	}
}
