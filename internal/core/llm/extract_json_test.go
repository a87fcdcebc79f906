package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "pure_object",
			input: `{"suitable":true}`,
			want:  `{"suitable":true}`,
		},
		{
			name:  "object_with_preamble",
			input: `Here is my assessment: {"suitable":true,"score":8} done.`,
			want:  `{"suitable":true,"score":8}`,
		},
		{
			name:  "markdown_wrapped",
			input: "```json\n{\"suitable\":false,\"score\":3}\n```",
			want:  `{"suitable":false,"score":3}`,
		},
		{
			name:  "nested_object",
			input: `{"a":{"b":1},"c":2}`,
			want:  `{"a":{"b":1},"c":2}`,
		},
		{
			name:  "no_json",
			input: "just some text",
			want:  "just some text",
		},
		{
			name:  "lone_open_brace",
			input: "text { more",
			want:  "text { more",
		},
		{
			name:  "empty_object",
			input: `Result: {}`,
			want:  `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
