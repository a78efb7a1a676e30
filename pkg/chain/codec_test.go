package chain

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/unleex/simchain/pkg/errors"
)

func TestParseGraph(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantIDs  []int
		wantCode errors.Code
	}{
		{
			name:    "TerminalOnly",
			input:   `{"1": [2, 3]}`,
			wantIDs: []int{1, 2, 3},
		},
		{
			name:    "Nested",
			input:   `{"115": {"46": [63, 64, 61], "7": [130, 129]}}`,
			wantIDs: []int{115, 46, 63, 64, 61, 7, 130, 129},
		},
		{
			name:    "SiblingOrderPreserved",
			input:   `{"9": [10], "2": [11], "5": [12]}`,
			wantIDs: []int{9, 10, 2, 11, 5, 12},
		},
		{
			name:     "NotAnObject",
			input:    `[1, 2]`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "NonNumericKey",
			input:    `{"cows": [1]}`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "NonNumericTerminal",
			input:    `{"1": ["two"]}`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "ScalarValue",
			input:    `{"1": 2}`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "Truncated",
			input:    `{"1": [2`,
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "EmptyObject",
			input:    `{}`,
			wantCode: errors.ErrCodeEmptyLayer,
		},
		{
			name:     "DuplicateKey",
			input:    `{"1": [2], "1": [3]}`,
			wantCode: errors.ErrCodeDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseGraph([]byte(tt.input))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("ParseGraph error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGraph: %v", err)
			}
			if got := g.IDs(); !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("IDs = %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestReadGraphFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.json")
	if err := os.WriteFile(path, []byte(`{"1": [2]}`), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if got := g.IDs(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("IDs = %v, want [1 2]", got)
	}

	if _, err := ReadGraphFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeIntKeyed(t *testing.T) {
	t.Run("Strict", func(t *testing.T) {
		got, err := DecodeIntKeyed[float64]([]byte(`{"1": 2.5, "7": -3}`), false)
		if err != nil {
			t.Fatalf("DecodeIntKeyed: %v", err)
		}
		want := map[int]float64{1: 2.5, 7: -3}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("StrictRejectsNonNumericKey", func(t *testing.T) {
		_, err := DecodeIntKeyed[float64]([]byte(`{"1": 2.5, "total": 9}`), false)
		if !errors.Is(err, errors.ErrCodeInvalidGraph) {
			t.Fatalf("error = %v, want code %s", err, errors.ErrCodeInvalidGraph)
		}
	})

	t.Run("LenientSkipsNonNumericKey", func(t *testing.T) {
		got, err := DecodeIntKeyed[float64]([]byte(`{"1": 2.5, "total": 9}`), true)
		if err != nil {
			t.Fatalf("DecodeIntKeyed: %v", err)
		}
		want := map[int]float64{1: 2.5}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("Strings", func(t *testing.T) {
		got, err := DecodeIntKeyed[string]([]byte(`{"46": "processors"}`), false)
		if err != nil {
			t.Fatalf("DecodeIntKeyed: %v", err)
		}
		if got[46] != "processors" {
			t.Errorf("got %v, want processors at 46", got)
		}
	})
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Document{
		Canvas: Size{Width: 480, Height: 360},
		Positions: PositionMap{
			115: {X: 0, Y: 180},
			46:  {X: 240, Y: 90},
		},
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDocumentFile(doc, path); err != nil {
		t.Fatalf("WriteDocumentFile: %v", err)
	}

	got, err := ReadDocumentFile(path)
	if err != nil {
		t.Fatalf("ReadDocumentFile: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip = %+v, want %+v", got, doc)
	}
}
