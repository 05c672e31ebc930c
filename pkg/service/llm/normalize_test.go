package llm_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/learnmap-dev/learnmap/pkg/service/llm"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "tagged json fence",
			raw:  "```json\n{\"a\":1}\n```",
			want: "{\"a\":1}",
		},
		{
			name: "bare fence",
			raw:  "```\n{\"a\":1}\n```",
			want: "{\"a\":1}",
		},
		{
			name: "no fence",
			raw:  "{\"a\":1}",
			want: "{\"a\":1}",
		},
		{
			name: "stray backticks",
			raw:  "{\"a\":`1`}",
			want: "{\"a\":1}",
		},
		{
			name: "tagged fence with surrounding prose markers",
			raw:  "```json{\"a\":1}``` extra ```",
			want: "{\"a\":1} extra",
		},
		{
			name: "whitespace only trimming",
			raw:  "  {\"a\":1}\n\n",
			want: "{\"a\":1}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, llm.StripFences(tt.raw)).Equal(tt.want)
		})
	}
}

func TestStripFencesIdempotent(t *testing.T) {
	raw := "```json\n{\"nodes\":[],\"edges\":[]}\n```"
	once := llm.StripFences(raw)
	twice := llm.StripFences(once)
	gt.Value(t, twice).Equal(once)
}

func TestTrimFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "tagged prefix and suffix",
			raw:  "```json\n[{\"id\":1}]\n```",
			want: "[{\"id\":1}]",
		},
		{
			name: "bare prefix and suffix",
			raw:  "```\n[{\"id\":1}]\n```",
			want: "[{\"id\":1}]",
		},
		{
			name: "interior backticks untouched",
			raw:  "```json\n[{\"q\":\"use `go test`\"}]\n```",
			want: "[{\"q\":\"use `go test`\"}]",
		},
		{
			name: "clean input",
			raw:  "[{\"id\":1}]",
			want: "[{\"id\":1}]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, llm.TrimFences(tt.raw)).Equal(tt.want)
		})
	}
}

func TestUnmarshal(t *testing.T) {
	t.Run("decodes fenced JSON", func(t *testing.T) {
		var out struct {
			A int `json:"a"`
		}
		gt.NoError(t, llm.Unmarshal("```json\n{\"a\": 42}\n```", &out))
		gt.Value(t, out.A).Equal(42)
	})

	t.Run("invalid JSON yields parse sentinel", func(t *testing.T) {
		var out map[string]any
		err := llm.Unmarshal("not json at all", &out)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, llm.ErrParseResponse)).True()
	})
}
