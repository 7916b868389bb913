package llm

import (
	"errors"
	"testing"
)

func definitionTestSchema() *Schema {
	return &Schema{
		Name:        "test-definition",
		Description: "A vocabulary entry",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"word":    map[string]any{"type": "string", "minLength": 1},
				"meaning": map[string]any{"type": "string"},
				"type":    map[string]any{"type": "string", "enum": []any{"noun", "verb", "adj", "adv"}},
			},
			"required": []any{"word", "meaning"},
		},
	}
}

func requireInvalid(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestDecodeStructured(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"word":"Stimulant","meaning":"Chất kích thích","type":"noun"}`, false},
		{"without optional", `{"word":"Dominant","meaning":"Chiếm ưu thế"}`, false},
		{"missing required", `{"word":"Lubricant"}`, true},
		{"wrong type", `{"word":"Diffusion","meaning":42}`, true},
		{"invalid enum", `{"word":"Diffusion","meaning":"x","type":"pronoun-ish"}`, true},
		{"empty word", `{"word":"","meaning":"x"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeStructured(definitionTestSchema(), []byte(tt.raw))
			if tt.wantErr {
				requireInvalid(t, err)
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
		})
	}
}

func TestDecodeStructured_StripsFence(t *testing.T) {
	raw := "```json\n{\"word\":\"Espresso\",\"meaning\":\"Cà phê đậm đặc\"}\n```\n"
	got, err := decodeStructured(definitionTestSchema(), []byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"word":"Espresso","meaning":"Cà phê đậm đặc"}` {
		t.Fatalf("fence not stripped: %s", got)
	}
}

func TestDecodeStructured_NilSchema(t *testing.T) {
	got, err := decodeStructured(nil, []byte("plain words"))
	if err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
	if string(got) != "plain words" {
		t.Fatalf("content changed: %s", got)
	}
}

func TestDecodeStructured_NestedArray(t *testing.T) {
	schema := &Schema{
		Name: "test-quiz",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question": map[string]any{"type": "string"},
							"options":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						},
						"required": []any{"question"},
					},
				},
			},
			"required": []any{"questions"},
		},
	}

	if _, err := decodeStructured(schema, []byte(`{"questions":[{"question":"Coffee is a ___.","options":["stimulant","fruit"]}]}`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	_, err := decodeStructured(schema, []byte(`{"questions":[{"question":"Coffee is a ___.","options":[1,2]}]}`))
	requireInvalid(t, err)
}

func TestStripFence(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:             `{"a":1}`,
		"  {\"a\":1}\n":       `{"a":1}`,
		"```\n{\"a\":1}\n```": `{"a":1}`,
		"```json\n[1]```":     `[1]`,
		"```":                 "```",
	}
	for in, want := range tests {
		if got := string(stripFence([]byte(in))); got != want {
			t.Errorf("stripFence(%q) = %q, want %q", in, got, want)
		}
	}
}
