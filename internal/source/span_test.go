package source

import "testing"

func TestNoSpan(t *testing.T) {
	if NoSpan.IsValid() {
		t.Fatal("NoSpan must be invalid")
	}
	if NoSpan.String() != "<no span>" {
		t.Fatalf("unexpected string %q", NoSpan.String())
	}
	if (Span{File: 3, Start: 1, End: 4}).String() != "3:1-4" {
		t.Fatal("unexpected span formatting")
	}
}
