package ai

import (
	"testing"
)

func TestSingleEventStreamCollect(t *testing.T) {
	stream := NewSingleEventStream(&Response{
		Text:         "hello world",
		FinishReason: "stop",
		Usage:        &Usage{PromptTokens: 2, CompletionTokens: 3, TotalTokens: 5},
	})

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if response.Text != "hello world" {
		t.Errorf("Text: got %q", response.Text)
	}
	if response.FinishReason != "stop" {
		t.Errorf("FinishReason: got %q", response.FinishReason)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 5 {
		t.Errorf("Usage not carried through: %+v", response.Usage)
	}
}

func TestStreamYieldsFragmentsInOrderThenDone(t *testing.T) {
	fragments := []string{"The", " quick", " brown", " fox", " jumps"}
	stream := NewStream(func(yield func(StreamEvent, error) bool) {
		for _, fragment := range fragments {
			if !yield(StreamEvent{Type: StreamEventContent, Content: fragment}, nil) {
				return
			}
		}
		yield(StreamEvent{Type: StreamEventDone, FinishReason: "stop"}, nil)
	})

	var received []string
	doneSeen := false
	afterDone := 0
	for event, err := range stream.Iter() {
		if err != nil {
			t.Fatalf("unexpected stream error: %v", err)
		}
		switch event.Type {
		case StreamEventContent:
			if doneSeen {
				afterDone++
			}
			received = append(received, event.Content)
		case StreamEventDone:
			doneSeen = true
		}
	}

	if len(received) != len(fragments) {
		t.Fatalf("got %d fragments, want %d", len(received), len(fragments))
	}
	for i, fragment := range fragments {
		if received[i] != fragment {
			t.Errorf("fragment %d: got %q, want %q", i, received[i], fragment)
		}
	}
	if !doneSeen {
		t.Error("stream ended without the done marker")
	}
	if afterDone != 0 {
		t.Errorf("%d fragments arrived after the done marker", afterDone)
	}
}

func TestStreamErrorPreservesPartialOutput(t *testing.T) {
	decodeErr := NewError(KindStreamDecode, "malformed frame")
	stream := NewStream(func(yield func(StreamEvent, error) bool) {
		if !yield(StreamEvent{Type: StreamEventContent, Content: "partial "}, nil) {
			return
		}
		if !yield(StreamEvent{Type: StreamEventContent, Content: "output"}, nil) {
			return
		}
		yield(StreamEvent{}, decodeErr)
	})

	response, err := stream.Collect()
	if err == nil {
		t.Fatal("expected a mid-stream error")
	}
	if !IsKind(err, KindStreamDecode) {
		t.Errorf("expected stream decode error, got %v", err)
	}
	if response.Text != "partial output" {
		t.Errorf("partial output not retained: %q", response.Text)
	}
}

func TestStreamEarlyBreakStopsProducer(t *testing.T) {
	produced := 0
	stream := NewStream(func(yield func(StreamEvent, error) bool) {
		for i := 0; i < 100; i++ {
			produced++
			if !yield(StreamEvent{Type: StreamEventContent, Content: "x"}, nil) {
				return
			}
		}
	})

	consumed := 0
	for range stream.Iter() {
		consumed++
		if consumed == 3 {
			break
		}
	}

	if produced != 3 {
		t.Errorf("producer kept running after break: produced %d events", produced)
	}
}
