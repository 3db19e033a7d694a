package crudy

import "testing"

func TestJSONPath(t *testing.T) {
	data := map[string]any{
		"data": []any{
			map[string]any{"id": float64(1), "name": "a"},
			map[string]any{"id": float64(2), "name": "b"},
		},
		"meta": map[string]any{"total": float64(2)},
	}

	tests := []struct {
		expr  string
		check func(t *testing.T, got any)
	}{
		{"$.data", func(t *testing.T, got any) {
			if items, ok := got.([]any); !ok || len(items) != 2 {
				t.Errorf("expected two items, got %#v", got)
			}
		}},
		{"$.meta.total", func(t *testing.T, got any) {
			if got != float64(2) {
				t.Errorf("expected 2, got %#v", got)
			}
		}},
		{"$.data[*].name", func(t *testing.T, got any) {
			names, ok := got.([]any)
			if !ok || len(names) != 2 || names[0] != "a" {
				t.Errorf("expected [a b], got %#v", got)
			}
		}},
		{"$.missing", func(t *testing.T, got any) {
			if got != nil {
				t.Errorf("expected nil, got %#v", got)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			d := MustJSONPath(tt.expr)
			got, err := d(data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestJSONPath_NilData(t *testing.T) {
	got, err := MustJSONPath("$.data")(nil)
	if err != nil || got != nil {
		t.Errorf("expected nil, nil; got %v, %v", got, err)
	}
}

func TestJSONPath_BadExpression(t *testing.T) {
	if _, err := JSONPath("$.data[["); err == nil {
		t.Error("expected parse error")
	}
}
