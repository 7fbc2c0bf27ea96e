package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/pkg/logger"
)

func series(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{
			name:   "too short is neutral",
			closes: series(14, func(i int) float64 { return float64(10 + i) }),
			want:   50,
		},
		{
			name:   "only gains",
			closes: series(15, func(i int) float64 { return float64(10 + i) }),
			want:   100,
		},
		{
			name:   "flat series",
			closes: series(20, func(int) float64 { return 42 }),
			want:   50,
		},
		{
			name:   "only losses",
			closes: series(15, func(i int) float64 { return float64(100 - i) }),
			want:   0,
		},
		{
			name: "balanced gains and losses",
			closes: series(15, func(i int) float64 {
				if i%2 == 0 {
					return 10
				}
				return 11
			}),
			want: 50,
		},
		{
			// the crash before the window is ignored
			name:   "uses trailing window only",
			closes: append([]float64{100}, series(15, func(i int) float64 { return float64(1 + i) })...),
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RSI(tt.closes, DefaultRSIPeriod)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRSI_Bounds(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1, 45.9, 46.3, 46.2, 46.0, 46.4, 46.2}
	got := RSI(closes, DefaultRSIPeriod)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 100.0)
	assert.Greater(t, got, 50.0, "mostly rising series")
}

func TestAnnualizedVolatility(t *testing.T) {
	t.Run("less than a year", func(t *testing.T) {
		_, ok := AnnualizedVolatility(series(251, func(int) float64 { return 100 }))
		assert.False(t, ok)
	})

	t.Run("constant price", func(t *testing.T) {
		vol, ok := AnnualizedVolatility(series(252, func(int) float64 { return 100 }))
		require.True(t, ok)
		assert.InDelta(t, 0, vol, 1e-12)
	})

	t.Run("alternating one percent moves", func(t *testing.T) {
		closes := make([]float64, 252)
		closes[0] = 100
		for i := 1; i < len(closes); i++ {
			if i%2 == 1 {
				closes[i] = closes[i-1] * 1.01
			} else {
				closes[i] = closes[i-1] * 0.99
			}
		}
		vol, ok := AnnualizedVolatility(closes)
		require.True(t, ok)
		assert.InDelta(t, 0.159, vol, 0.001)
	})

	t.Run("only trailing year counts", func(t *testing.T) {
		closes := series(400, func(i int) float64 {
			if i < 147 && i%2 == 0 {
				return 50
			}
			if i < 147 {
				return 150
			}
			return 100
		})
		vol, ok := AnnualizedVolatility(closes)
		require.True(t, ok)
		assert.InDelta(t, 0, vol, 1e-12)
	})
}

func TestMomentum(t *testing.T) {
	t.Run("strict needs a full year", func(t *testing.T) {
		_, ok := Momentum(series(251, func(int) float64 { return 100 }), MomentumStrict)
		assert.False(t, ok)
	})

	t.Run("strict uses close 252 samples back", func(t *testing.T) {
		closes := series(300, func(int) float64 { return 100 })
		closes[48] = 80
		closes[299] = 120
		mom, ok := Momentum(closes, MomentumStrict)
		require.True(t, ok)
		assert.InDelta(t, 50, mom, 1e-9)
	})

	t.Run("strict exactly one year", func(t *testing.T) {
		closes := series(252, func(int) float64 { return 100 })
		closes[251] = 125
		mom, ok := Momentum(closes, MomentumStrict)
		require.True(t, ok)
		assert.InDelta(t, 25, mom, 1e-9)
	})

	t.Run("window uses first and last", func(t *testing.T) {
		mom, ok := Momentum([]float64{50, 60, 75}, MomentumWindow)
		require.True(t, ok)
		assert.InDelta(t, 50, mom, 1e-9)
	})

	t.Run("window needs two closes", func(t *testing.T) {
		_, ok := Momentum([]float64{50}, MomentumWindow)
		assert.False(t, ok)
	})

	t.Run("non-positive base", func(t *testing.T) {
		_, ok := Momentum([]float64{0, 10}, MomentumWindow)
		assert.False(t, ok)
	})
}

func TestParseMomentumMode(t *testing.T) {
	tests := []struct {
		input   string
		want    MomentumMode
		wantErr bool
	}{
		{"", MomentumStrict, false},
		{"strict", MomentumStrict, false},
		{" Window ", MomentumWindow, false},
		{"rolling", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMomentumMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculator_Apply(t *testing.T) {
	calc := NewCalculator(MomentumStrict, logger.NewNop())

	t.Run("full history", func(t *testing.T) {
		q := contracts.NewQuote("AAPL")
		q.CurrentPrice = 120
		q.PERatio = contracts.Float(18)

		closes := series(300, func(i int) float64 { return 100 + float64(i)*0.1 })
		out := calc.Apply(q, closes)

		require.NotNil(t, out.Volatility)
		require.NotNil(t, out.Momentum1Y)
		assert.Equal(t, 100.0, out.RSI)
		assert.Greater(t, *out.Momentum1Y, 0.0)

		// provider fields and the input copy stay untouched
		assert.Equal(t, 18.0, *out.PERatio)
		assert.Equal(t, 120.0, out.CurrentPrice)
		assert.Equal(t, contracts.DefaultRSI, q.RSI)
		assert.Nil(t, q.Volatility)
	})

	t.Run("short history falls back to neutral", func(t *testing.T) {
		q := contracts.NewQuote("PETR4.SA")
		q.CurrentPrice = 38
		q.Volatility = contracts.Float(0.3)

		out := calc.Apply(q, series(10, func(i int) float64 { return 30 + float64(i) }))

		assert.Equal(t, contracts.DefaultRSI, out.RSI)
		assert.Nil(t, out.Volatility)
		assert.Nil(t, out.Momentum1Y)
	})

	t.Run("window mode on short history", func(t *testing.T) {
		windowCalc := NewCalculator(MomentumWindow, logger.NewNop())
		q := contracts.NewQuote("VALE3.SA")
		out := windowCalc.Apply(q, []float64{60, 66})

		require.NotNil(t, out.Momentum1Y)
		assert.InDelta(t, 10, *out.Momentum1Y, 1e-9)
	})
}

// b3Sessions builds n closes alternating +2.2% / -1.8%: roughly +57% a year
// with annualized volatility near 0.32
func b3Sessions(n int) []float64 {
	closes := make([]float64, n)
	closes[0] = 100
	for i := 1; i < n; i++ {
		r := 0.022
		if i%2 == 0 {
			r = -0.018
		}
		closes[i] = closes[i-1] * (1 + r)
	}
	return closes
}

func TestCalculator_Apply_B3SessionYears(t *testing.T) {
	calc := NewCalculator(MomentumStrict, logger.NewNop())
	q := contracts.NewQuote("PETR4.SA")
	q.CurrentPrice = 38

	// one calendar year on B3 is about 248 sessions, short of the 252 floor
	oneYear := calc.Apply(q, b3Sessions(248))
	assert.Nil(t, oneYear.Volatility)
	assert.Nil(t, oneYear.Momentum1Y)

	// two calendar years clear it
	twoYears := calc.Apply(q, b3Sessions(2*248))
	require.NotNil(t, twoYears.Volatility)
	require.NotNil(t, twoYears.Momentum1Y)
	assert.InDelta(t, 0.32, *twoYears.Volatility, 0.02)
	assert.Greater(t, *twoYears.Momentum1Y, 20.0)
}
