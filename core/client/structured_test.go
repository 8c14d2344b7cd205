package client

import (
	"context"
	"testing"

	"github.com/leofalp/genai/providers/ai"
)

type cityAnswer struct {
	City       string  `json:"city"`
	Population int     `json:"population"`
	Latitude   float64 `json:"latitude,omitempty"`
}

func TestStructuredCompleteChat(t *testing.T) {
	fake := &fakeProvider{response: &ai.Response{
		Text:         `{"city": "Oslo", "population": 700000}`,
		FinishReason: "stop",
	}}
	sc := FromClient[cityAnswer](FromProvider(fake, Config{Model: "m"}))

	response, err := sc.CompleteChat(context.Background(), ai.Request{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "largest city of Norway?"}},
	})
	if err != nil {
		t.Fatalf("CompleteChat: %v", err)
	}
	if response.Data.City != "Oslo" {
		t.Errorf("unexpected city %q", response.Data.City)
	}
	if response.Data.Population != 700000 {
		t.Errorf("unexpected population %d", response.Data.Population)
	}
	if response.Raw == nil && response.Text == "" {
		t.Error("raw response metadata should be preserved")
	}

	// The generated schema must ride on the request as its guided schema.
	request := fake.lastRequest()
	if request.GuidedSchema == nil {
		t.Fatal("expected guided schema on the request")
	}
	if _, ok := request.GuidedSchema.Properties["city"]; !ok {
		t.Error("schema should describe the city property")
	}
}

func TestStructuredSchemaViolation(t *testing.T) {
	fake := &fakeProvider{response: &ai.Response{
		Text: `{"city": 42, "population": "many"}`,
	}}
	sc := FromClient[cityAnswer](FromProvider(fake, Config{Model: "m"}))

	_, err := sc.CompleteChat(context.Background(), ai.Request{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "city?"}},
	})
	if !ai.IsKind(err, ai.KindSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestStructuredRepairsSloppyJSON(t *testing.T) {
	// Trailing commas and unquoted keys should survive the repair pass as
	// long as the repaired document still conforms.
	fake := &fakeProvider{response: &ai.Response{
		Text: "{\"city\": \"Bergen\", \"population\": 280000,}",
	}}
	sc := FromClient[cityAnswer](FromProvider(fake, Config{Model: "m"}))

	response, err := sc.CompleteText(context.Background(), ai.Request{Prompt: "city?"})
	if err != nil {
		// The strict schema validator may reject the document before the
		// repair pass gets to it; that still must surface as a violation.
		if !ai.IsKind(err, ai.KindSchemaViolation) {
			t.Fatalf("expected schema violation or repaired parse, got %v", err)
		}
		return
	}
	if response.Data.City != "Bergen" {
		t.Errorf("unexpected city %q", response.Data.City)
	}
}
