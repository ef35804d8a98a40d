package pagination

import (
	"errors"
	"testing"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: 1},
		{raw: " 3 ", want: 3},
		{raw: "0", wantErr: true},
		{raw: "-2", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1.5", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseNumber(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidPage) {
				t.Fatalf("ParseNumber(%q) expected ErrInvalidPage, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseNumber(%q) unexpected error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseNumber(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestPageBounds(t *testing.T) {
	p := New(2, 10, 25)
	if p.NumPages != 3 {
		t.Fatalf("expected 3 pages, got %d", p.NumPages)
	}
	if p.Offset() != 10 {
		t.Fatalf("expected offset 10, got %d", p.Offset())
	}
	if !p.HasNext() || !p.HasPrevious() {
		t.Fatalf("middle page should have both neighbours: %+v", p)
	}
	if New(4, 10, 25).InRange() {
		t.Fatal("page 4 of 3 should be out of range")
	}
}

func TestEmptyListingHasFirstPage(t *testing.T) {
	p := New(1, 10, 0)
	if !p.InRange() {
		t.Fatal("page 1 of an empty listing must exist")
	}
	if p.HasNext() || p.HasPrevious() {
		t.Fatalf("empty listing has no neighbours: %+v", p)
	}
	if New(2, 10, 0).InRange() {
		t.Fatal("page 2 of an empty listing should be out of range")
	}
}

func TestNormalizeSize(t *testing.T) {
	if NormalizeSize(0) != DefaultPageSize {
		t.Fatal("zero size should use the default")
	}
	if NormalizeSize(500) != MaxPageSize {
		t.Fatal("size should be capped")
	}
}
