package indicators

import "testing"

func TestRSI(t *testing.T) {
	tests := []struct {
		name        string
		closes      []float64
		period      int
		expectLast  float64
		expectError bool
	}{
		{
			name:       "Mixed gains and losses",
			closes:     []float64{100, 102, 101, 103, 102, 104},
			period:     3,
			expectLast: 77.272727, // Wilder's smoothing over +2,-1,+2,-1,+2
		},
		{
			name:       "All gains",
			closes:     []float64{100, 102, 104, 106},
			period:     3,
			expectLast: 100.0,
		},
		{
			name:       "All losses",
			closes:     []float64{106, 104, 102, 100},
			period:     3,
			expectLast: 0.0,
		},
		{
			name:       "No change",
			closes:     []float64{100, 100, 100, 100},
			period:     3,
			expectLast: 50.0,
		},
		{
			name:        "Insufficient data",
			closes:      []float64{100, 101},
			period:      7,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RSI(tt.closes, tt.period)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out) != len(tt.closes) {
				t.Fatalf("expected %d values, got %d", len(tt.closes), len(out))
			}
			last := out[len(out)-1]
			if !almostEqual(last, tt.expectLast) {
				t.Errorf("expected last RSI %.6f, got %.6f", tt.expectLast, last)
			}
			for i, v := range out {
				if v < 0 || v > 100 {
					t.Errorf("RSI[%d] = %.6f out of bounds", i, v)
				}
			}
		})
	}
}
