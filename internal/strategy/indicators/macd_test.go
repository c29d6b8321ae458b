package indicators

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestEMA(t *testing.T) {
	tests := []struct {
		name        string
		values      []float64
		period      int
		expectLast  float64
		expectError bool
	}{
		{
			name:       "Rising series",
			values:     []float64{1, 2, 3, 4, 5},
			period:     3,
			expectLast: 4.0, // seed SMA(1,2,3)=2, then (4-2)*0.5+2=3, (5-3)*0.5+3=4
		},
		{
			name:       "Flat series",
			values:     []float64{10, 10, 10, 10},
			period:     2,
			expectLast: 10.0,
		},
		{
			name:        "Insufficient data",
			values:      []float64{1, 2},
			period:      5,
			expectError: true,
		},
		{
			name:        "Invalid period",
			values:      []float64{1, 2, 3},
			period:      0,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := EMA(tt.values, tt.period)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out) != len(tt.values) {
				t.Fatalf("expected %d values, got %d", len(tt.values), len(out))
			}
			if !almostEqual(out[len(out)-1], tt.expectLast) {
				t.Errorf("expected last EMA %.6f, got %.6f", tt.expectLast, out[len(out)-1])
			}
		})
	}
}

func TestMACD(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}

	line, signal, err := MACD(closes, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(line) != len(closes) || len(signal) != len(closes) {
		t.Fatalf("series length mismatch: line=%d signal=%d closes=%d", len(line), len(signal), len(closes))
	}

	// The MACD line must equal EMA(fast) - EMA(slow) at every index.
	fast, err := EMA(closes, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slow, err := EMA(closes, 26)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range closes {
		if !almostEqual(line[i], fast[i]-slow[i]) {
			t.Fatalf("line[%d] = %.6f, expected %.6f", i, line[i], fast[i]-slow[i])
		}
	}

	// A steadily rising series keeps the MACD line positive once converged.
	if line[len(line)-1] <= 0 {
		t.Errorf("expected positive MACD line on a rising series, got %.6f", line[len(line)-1])
	}
}

func TestMACD_Validation(t *testing.T) {
	short := []float64{1, 2, 3}
	if _, _, err := MACD(short, 12, 26, 9); err == nil {
		t.Error("expected error for insufficient data")
	}
	long := make([]float64, 100)
	if _, _, err := MACD(long, 26, 12, 9); err == nil {
		t.Error("expected error for fast period >= slow period")
	}
}
