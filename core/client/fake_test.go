package client

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/leofalp/genai/providers/ai"
)

// fakeProvider implements ai.Provider with canned responses and call
// recording. It deliberately does not implement ai.StreamProvider so the
// client's synchronous fallback path is exercised.
type fakeProvider struct {
	mu       sync.Mutex
	requests []ai.Request

	response *ai.Response
	err      error

	// respond, when set, overrides the canned response per call.
	respond func(ctx context.Context, request ai.Request) (*ai.Response, error)

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

func (f *fakeProvider) record(request ai.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, request)
	f.mu.Unlock()
}

func (f *fakeProvider) call(ctx context.Context, request ai.Request) (*ai.Response, error) {
	f.record(request)

	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		observed := f.maxInFlight.Load()
		if current <= observed || f.maxInFlight.CompareAndSwap(observed, current) {
			break
		}
	}

	if f.respond != nil {
		return f.respond(ctx, request)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.response != nil {
		response := *f.response
		return &response, nil
	}
	return &ai.Response{Text: "ok", FinishReason: "stop"}, nil
}

func (f *fakeProvider) CompleteText(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return f.call(ctx, request)
}

func (f *fakeProvider) CompleteChat(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return f.call(ctx, request)
}

func (f *fakeProvider) CompleteVision(ctx context.Context, request ai.Request) (*ai.Response, error) {
	return f.call(ctx, request)
}

func (f *fakeProvider) lastRequest() ai.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// fakeStreamProvider adds native streaming on top of fakeProvider.
type fakeStreamProvider struct {
	fakeProvider
	events []ai.StreamEvent
}

func (f *fakeStreamProvider) StreamText(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	return f.streamEvents(request)
}

func (f *fakeStreamProvider) StreamChat(ctx context.Context, request ai.Request) (*ai.Stream, error) {
	return f.streamEvents(request)
}

func (f *fakeStreamProvider) streamEvents(request ai.Request) (*ai.Stream, error) {
	f.record(request)
	if f.err != nil {
		return nil, f.err
	}
	events := f.events
	return ai.NewStream(func(yield func(ai.StreamEvent, error) bool) {
		for _, event := range events {
			if !yield(event, nil) {
				return
			}
		}
	}), nil
}
