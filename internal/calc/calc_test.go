package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		op   string
		x, y float64
		want float64
	}{
		{"add", 2, 3, 5},
		{"min", 2, 3, -1},
		{"mul", 2, 3, 6},
		{"div", 3, 2, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got, err := Apply(tt.op, tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyDivideByZero(t *testing.T) {
	got, err := Apply("div", 1, 0)
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))
}

func TestApplyUnknown(t *testing.T) {
	_, err := Apply("pow", 2, 3)
	assert.ErrorIs(t, err, ErrUnknownOp)
}
