package equivalency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		kg         float64
		wantMiles  float64
		wantPhones float64
		wantEmpty  bool
	}{
		{name: "150kg reference value", kg: 150, wantMiles: 781.25, wantPhones: 18248.18},
		{name: "exactly at threshold", kg: 1, wantMiles: 5.208333, wantPhones: 121.65},
		{name: "below threshold", kg: 0.5, wantEmpty: true},
		{name: "zero", kg: 0, wantEmpty: true},
		{name: "negative", kg: -10, wantEmpty: true},
		{name: "infinite", kg: math.Inf(1), wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.kg)
			if tt.wantEmpty {
				assert.True(t, got.IsEmpty)
				assert.Empty(t, got.Results)
				return
			}

			require.False(t, got.IsEmpty)
			require.Len(t, got.Results, 3)
			assert.InEpsilon(t, tt.wantMiles, got.Results[0].Value, 0.01)
			assert.InEpsilon(t, tt.wantPhones, got.Results[1].Value, 0.01)
			assert.Contains(t, got.DisplayText, "driving")
			assert.Contains(t, got.DisplayText, "smartphones")
		})
	}
}

func TestCalculateDisplayText(t *testing.T) {
	got := Calculate(150)
	assert.Equal(t, "Equivalent to driving ~781 miles or charging ~18,248 smartphones", got.DisplayText)
}

func TestFormatLarge(t *testing.T) {
	assert.Equal(t, "999,999", FormatLarge(999_999))
	assert.Equal(t, "~1.5 million", FormatLarge(1_500_000))
	assert.Equal(t, "~2.0 billion", FormatLarge(2_000_000_000))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1,234.57", FormatFloat(1234.567, 2))
	assert.Equal(t, "-1,234.50", FormatFloat(-1234.5, 2))
	assert.Equal(t, "620.00", FormatFloat(620, 2))
	assert.Equal(t, "1,000,000", FormatFloat(1_000_000, 0))
}
