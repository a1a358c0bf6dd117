package postgres

import (
	"testing"

	"livestock-traceability/internal/domain/cattle"
)

func TestDedupeByCode_LastWins(t *testing.T) {
	batch := []cattle.Cattle{
		{ID: "a", Code: "BOV-1", Name: "primera"},
		{ID: "b", Code: "BOV-2"},
		{ID: "c", Code: "BOV-1", Name: "última"},
	}

	out := dedupeByCode(batch)
	if len(out) != 2 {
		t.Fatalf("expected 2 rows after dedupe, got %d", len(out))
	}
	if out[0].Code != "BOV-2" || out[1].Code != "BOV-1" {
		t.Fatalf("unexpected order: %+v", out)
	}
	if out[1].Name != "última" {
		t.Fatalf("expected last row to win for BOV-1, got %q", out[1].Name)
	}
}

func TestDedupeByCode_NoDuplicates_ReturnsBatch(t *testing.T) {
	batch := []cattle.Cattle{
		{ID: "a", Code: "BOV-1"},
		{ID: "b", Code: "BOV-2"},
	}
	out := dedupeByCode(batch)
	if len(out) != 2 {
		t.Fatalf("expected batch unchanged, got %d rows", len(out))
	}
}
