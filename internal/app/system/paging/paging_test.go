// internal/app/system/paging/paging_test.go
package paging

import (
	"net/http/httptest"
	"testing"
)

func TestTrim(t *testing.T) {
	full := make([]int, PageSize+1)
	if !Trim(&full) {
		t.Fatal("expected hasNext for a look-ahead overflow page")
	}
	if len(full) != PageSize {
		t.Fatalf("len = %d, want %d", len(full), PageSize)
	}

	partial := make([]int, PageSize-3)
	if Trim(&partial) {
		t.Fatal("expected no next page for a short page")
	}
	if len(partial) != PageSize-3 {
		t.Fatalf("short page was trimmed to %d", len(partial))
	}

	exact := make([]int, PageSize)
	if Trim(&exact) {
		t.Fatal("expected no next page for an exactly full page")
	}
}

func TestParseAfter(t *testing.T) {
	r := httptest.NewRequest("GET", "/projects?after=65a0c0ffee00000000000001", nil)
	if got := ParseAfter(r); got != "65a0c0ffee00000000000001" {
		t.Fatalf("after = %q", got)
	}
	r = httptest.NewRequest("GET", "/projects", nil)
	if got := ParseAfter(r); got != "" {
		t.Fatalf("after = %q, want empty", got)
	}
}
