package lsp

import "testing"

func TestExtractWordBasic(t *testing.T) {
	query, rng := ExtractWord("logg", 4)
	if query != "logg" {
		t.Fatalf("query = %q, want logg", query)
	}
	if rng.Start.Character != 0 || rng.End.Character != 4 {
		t.Fatalf("range = %+v", rng)
	}
}

func TestExtractWordStopsAtDot(t *testing.T) {
	query, rng := ExtractWord("foo.bar", 7)
	if query != "bar" {
		t.Fatalf("query = %q, want bar", query)
	}
	if rng.Start.Character != 4 {
		t.Fatalf("start = %d, want 4", rng.Start.Character)
	}
}

func TestExtractWordKeepsHyphen(t *testing.T) {
	query, _ := ExtractWord("log-debug", 9)
	if query != "log-debug" {
		t.Fatalf("query = %q, want log-debug", query)
	}
}

func TestExtractWordNoAlphanumericIsEmpty(t *testing.T) {
	query, _ := ExtractWord("---", 3)
	if query != "" {
		t.Fatalf("query = %q, want empty", query)
	}
}

func TestExtractWordEmptyAtBoundary(t *testing.T) {
	query, rng := ExtractWord("foo ", 4)
	if query != "" {
		t.Fatalf("query = %q, want empty", query)
	}
	if rng.Start.Character != 4 || rng.End.Character != 4 {
		t.Fatalf("range = %+v", rng)
	}
}
