// README: Route suggestion tests.
package routes

import (
	"context"
	"strings"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewMemoryIndex())
	if err := svc.Seed(context.Background(), DefaultRoutes); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return svc
}

func TestSearchMinQueryLength(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, q := range []string{"", "j", " j "} {
		got, err := svc.Search(ctx, q)
		if err != nil {
			t.Fatalf("search %q: %v", q, err)
		}
		if len(got) != 0 {
			t.Errorf("search %q: expected no results, got %v", q, got)
		}
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	lower, err := svc.Search(ctx, "sandton")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	upper, err := svc.Search(ctx, "SANDTON")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(lower) != 1 || lower[0] != "Sandton" {
		t.Fatalf("expected [Sandton], got %v", lower)
	}
	if len(upper) != len(lower) || upper[0] != lower[0] {
		t.Fatalf("case sensitivity leak: %v vs %v", upper, lower)
	}
}

func TestSearchSubstring(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Search(context.Background(), "burg")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected substring matches for 'burg'")
	}
	for _, name := range got {
		if !strings.Contains(strings.ToLower(name), "burg") {
			t.Errorf("non-matching result: %s", name)
		}
	}
}

func TestSearchCapsResults(t *testing.T) {
	svc := NewService(NewMemoryIndex())
	ctx := context.Background()

	for _, suffix := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		if err := svc.Add(ctx, "Stop "+suffix); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	got, err := svc.Search(ctx, "stop")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != maxSuggestions {
		t.Fatalf("expected %d results, got %d", maxSuggestions, len(got))
	}
}

func TestAddSkipsBlanksAndDuplicates(t *testing.T) {
	svc := NewService(NewMemoryIndex())
	ctx := context.Background()

	if err := svc.Add(ctx, "  "); err != nil {
		t.Fatalf("add blank: %v", err)
	}
	if err := svc.Add(ctx, "Soweto"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Add(ctx, "Soweto"); err != nil {
		t.Fatalf("add duplicate: %v", err)
	}

	got, err := svc.Search(ctx, "soweto")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %v", got)
	}
}

func TestRegisteredRoutesBecomeSuggestable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Add(ctx, "Diepsloot"); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := svc.Search(ctx, "diep")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0] != "Diepsloot" {
		t.Fatalf("expected [Diepsloot], got %v", got)
	}
}
