package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantNaN bool
	}{
		{in: "4.50", want: 4.5},
		{in: "  12 ", want: 12},
		{in: "0", want: 0},
		{in: "-3.25", want: -3.25},
		{in: "1e3", want: 1000},
		{in: "", wantNaN: true},
		{in: "   ", wantNaN: true},
		{in: "four", wantNaN: true},
		{in: "4,50", wantNaN: true},
		{in: "12abc", wantNaN: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParsePrice(tt.in)
			if tt.wantNaN {
				assert.True(t, math.IsNaN(got), "ParsePrice(%q) = %v, want NaN", tt.in, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordPriceValid(t *testing.T) {
	assert.True(t, (&Record{Price: 4.5}).PriceValid())
	assert.False(t, (&Record{Price: math.NaN()}).PriceValid())
	assert.False(t, (&Record{Price: math.Inf(1)}).PriceValid())
}

func TestRecordHasFile(t *testing.T) {
	name := "latte_1.png"
	assert.True(t, (&Record{Filename: &name}).HasFile())
	assert.False(t, (&Record{}).HasFile())
}
