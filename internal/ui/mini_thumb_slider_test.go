package ui

import (
	"math"
	"testing"
)

func TestNormalizeSliderValue(t *testing.T) {
	tests := []struct {
		name  string
		min   float64
		max   float64
		step  float64
		value float64
		want  float64
	}{
		{name: "below min clamps", min: 0, max: 100, step: 0, value: -3, want: 0},
		{name: "above max clamps", min: 0, max: 100, step: 0, value: 140, want: 100},
		{name: "degenerate range", min: 50, max: 50, step: 0, value: 60, want: 50},
		{name: "rounds to step grid", min: 0, max: 100, step: 5, value: 42.4, want: 40},
		{name: "rounds up to step grid", min: 0, max: 100, step: 5, value: 43, want: 45},
		{name: "clamps after rounding", min: 0, max: 10, step: 4, value: 11, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeSliderValue(tt.min, tt.max, tt.step, tt.value)
			if math.Abs(got-tt.want) > 0.0001 {
				t.Fatalf("normalizeSliderValue(%v, %v, %v, %v) = %v, want %v",
					tt.min, tt.max, tt.step, tt.value, got, tt.want)
			}
		})
	}
}
