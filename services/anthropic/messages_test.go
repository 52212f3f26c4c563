package anthropic

import "testing"

func TestExtractText(t *testing.T) {
	resp := &MessagesResponse{Content: []ContentBlock{
		{Type: "tool_use"},
		{Type: "text", Text: "first"},
		{Type: "text", Text: "second"},
	}}
	if got := resp.ExtractText(); got != "first" {
		t.Fatalf("expected the first text block, got %q", got)
	}

	empty := &MessagesResponse{Content: []ContentBlock{{Type: "tool_use"}}}
	if got := empty.ExtractText(); got != "" {
		t.Fatalf("expected empty extraction, got %q", got)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"})
	if c.Model() != DefaultModel {
		t.Fatalf("expected default model, got %q", c.Model())
	}
	if c.baseURL != BaseURL {
		t.Fatalf("expected default base URL, got %q", c.baseURL)
	}
}
