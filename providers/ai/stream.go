package ai

import (
	"iter"
	"strings"
)

// StreamEventType identifies the payload of a StreamEvent.
type StreamEventType string

const (
	// StreamEventContent carries one text fragment in wire-arrival order.
	StreamEventContent StreamEventType = "content"
	// StreamEventUsage carries token usage metadata (typically last).
	StreamEventUsage StreamEventType = "usage"
	// StreamEventDone is the explicit end marker; nothing follows it.
	StreamEventDone StreamEventType = "done"
)

// StreamEvent is a single delta yielded while streaming a response.
type StreamEvent struct {
	Type         StreamEventType `json:"type"`
	Content      string          `json:"content,omitempty"`       // Text fragment (Type == StreamEventContent)
	Usage        *Usage          `json:"usage,omitempty"`         // Token usage (Type == StreamEventUsage)
	FinishReason string          `json:"finish_reason,omitempty"` // Present on StreamEventDone
}

// Stream is a lazy, finite, forward-only sequence of stream events. It is
// pulled cooperatively by a single consumer: each pull may block on network
// I/O, and no background work happens between pulls. Fragments arrive in the
// exact order bytes were received.
//
// Callers must consume the stream, either by iterating Iter() (breaking out
// early is fine) or by calling Collect(). The producing adapter holds the
// underlying connection open and releases it when the iterator completes, is
// abandoned, or fails — constructing a Stream and never iterating it leaks
// the connection.
type Stream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewStream wraps a raw iterator. The iterator yields events with a nil
// error for normal deltas; a non-nil error signals a mid-stream failure and
// terminates the sequence (output already yielded stays with the caller).
func NewStream(iterator iter.Seq2[StreamEvent, error]) *Stream {
	return &Stream{iterator: iterator}
}

// NewSingleEventStream wraps a completed Response as a stream: the whole text
// as one content event, usage if present, then the done marker. It is the
// fallback for providers without native streaming support.
func NewSingleEventStream(response *Response) *Stream {
	return NewStream(func(yield func(StreamEvent, error) bool) {
		if response.Text != "" {
			if !yield(StreamEvent{Type: StreamEventContent, Content: response.Text}, nil) {
				return
			}
		}
		if response.Usage != nil {
			if !yield(StreamEvent{Type: StreamEventUsage, Usage: response.Usage}, nil) {
				return
			}
		}
		yield(StreamEvent{Type: StreamEventDone, FinishReason: response.FinishReason}, nil)
	})
}

// Iter returns the underlying iterator for range-over-func loops.
//
//	for event, err := range stream.Iter() {
//	    if err != nil { // mid-stream failure, sequence over
//	    }
//	    fmt.Print(event.Content)
//	}
func (s *Stream) Iter() iter.Seq2[StreamEvent, error] {
	return s.iterator
}

// Collect drains the stream and returns the accumulated Response. A
// mid-stream error terminates collection and returns the partial response
// alongside the error.
func (s *Stream) Collect() (*Response, error) {
	accumulated := &Response{}
	var text strings.Builder

	for event, err := range s.iterator {
		if err != nil {
			accumulated.Text = text.String()
			return accumulated, err
		}

		switch event.Type {
		case StreamEventContent:
			text.WriteString(event.Content)
		case StreamEventUsage:
			if event.Usage != nil {
				accumulated.Usage = event.Usage
			}
		case StreamEventDone:
			accumulated.FinishReason = event.FinishReason
		}
	}

	accumulated.Text = text.String()
	return accumulated, nil
}
