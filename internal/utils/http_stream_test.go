package utils

import (
	"io"
	"strings"
	"testing"
)

func TestSSEScannerYieldsPayloadsInOrder(t *testing.T) {
	input := "data: one\n\ndata: two\n\ndata: three\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	for _, want := range []string{"one", "two", "three"} {
		payload, err := scanner.Next()
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		if payload != want {
			t.Errorf("got %q, want %q", payload, want)
		}
	}

	if _, err := scanner.Next(); err != io.EOF {
		t.Errorf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestSSEScannerDoneSentinel(t *testing.T) {
	input := "data: chunk\n\ndata: [DONE]\n\ndata: never\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	payload, err := scanner.Next()
	if err != nil || payload != "chunk" {
		t.Fatalf("first event: got (%q, %v)", payload, err)
	}

	if _, err := scanner.Next(); err != io.EOF {
		t.Errorf("[DONE] should surface as io.EOF, got %v", err)
	}
}

func TestSSEScannerMultiLineData(t *testing.T) {
	input := "data: line1\ndata: line2\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	payload, err := scanner.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if payload != "line1\nline2" {
		t.Errorf("multi-line data not joined: %q", payload)
	}
}

func TestSSEScannerSkipsCommentsAndOtherFields(t *testing.T) {
	input := ": keep-alive\nevent: message\nid: 42\ndata: real\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	payload, err := scanner.Next()
	if err != nil || payload != "real" {
		t.Errorf("got (%q, %v), want (\"real\", nil)", payload, err)
	}
}

func TestSSEScannerFlushesTrailingData(t *testing.T) {
	// Stream ends without the terminating blank line.
	scanner := NewSSEScanner(strings.NewReader("data: tail"))

	payload, err := scanner.Next()
	if err != nil || payload != "tail" {
		t.Errorf("got (%q, %v), want (\"tail\", nil)", payload, err)
	}
	if _, err := scanner.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after flush, got %v", err)
	}
}
