// Package indicators derives technical analysis series from daily price
// candles: moving averages, RSI, MACD, Bollinger bands, the stochastic
// oscillator, ATR and OBV. All series are computed over the full window
// and align index-for-index with the input candles.
package indicators

import (
	"math"

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
)

// Standard parameter choices. These match common charting defaults and
// are fixed so that formatted documents stay deterministic.
const (
	rsiPeriod        = 14
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
	bollingerPeriod  = 20
	bollingerStdDev  = 2.0
	stochasticPeriod = 14
	stochasticSmooth = 3
	atrPeriod        = 14
)

// BuildSnapshots computes the full indicator set over the candle window
// and returns one snapshot per candle, oldest first. Values that cannot
// be computed yet (e.g. MA60 on day 10) are zero; this is the deliberate
// best-effort policy, not an error.
func BuildSnapshots(candles []domain.Candle) []domain.TechnicalSnapshot {
	n := len(candles)
	if n == 0 {
		return nil
	}

	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = float64(c.Volume)
	}

	ma5 := SMA(closes, 5)
	ma10 := SMA(closes, 10)
	ma20 := SMA(closes, 20)
	ma60 := SMA(closes, 60)
	ema12 := EMA(closes, macdFastPeriod)
	ema26 := EMA(closes, macdSlowPeriod)
	rsi := RSI(closes, rsiPeriod)
	macd, signal, hist := MACD(closes)
	bbUpper, bbMiddle, bbLower := Bollinger(closes, bollingerPeriod, bollingerStdDev)
	k, d := Stochastic(highs, lows, closes, stochasticPeriod, stochasticSmooth)
	atr := ATR(highs, lows, closes, atrPeriod)
	obv := OBV(closes, volumes)

	snapshots := make([]domain.TechnicalSnapshot, n)
	for i, c := range candles {
		var change float64
		if i > 0 && candles[i-1].Close != 0 {
			change = (c.Close/candles[i-1].Close - 1) * 100
		}

		snapshots[i] = domain.TechnicalSnapshot{
			Date:        c.Date,
			Close:       c.Close,
			Volume:      c.Volume,
			PriceChange: change,
			MA5:         ma5[i],
			MA10:        ma10[i],
			MA20:        ma20[i],
			MA60:        ma60[i],
			EMA12:       ema12[i],
			EMA26:       ema26[i],
			RSI:         rsi[i],
			MACD:        macd[i],
			MACDSignal:  signal[i],
			MACDHist:    hist[i],
			BBUpper:     bbUpper[i],
			BBMiddle:    bbMiddle[i],
			BBLower:     bbLower[i],
			K:           k[i],
			D:           d[i],
			ATR:         atr[i],
			OBV:         obv[i],
		}
	}

	return snapshots
}

// SMA computes the simple moving average over the given period. Entries
// before the window fills are zero.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes the exponential moving average, seeded with the first
// value and smoothed with alpha = 2/(period+1).
func EMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 || period <= 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI computes the relative strength index with Wilder smoothing.
// Entries before the first full period are zero.
func RSI(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) <= period || period <= 0 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		diff := values[i] - values[i-1]
		if diff > 0 {
			avgGain += diff
		} else {
			avgLoss -= diff
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		diff := values[i] - values[i-1]
		var gain, loss float64
		if diff > 0 {
			gain = diff
		} else {
			loss = -diff
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD computes the moving average convergence divergence line, its
// signal line and the histogram.
func MACD(values []float64) (macd, signal, hist []float64) {
	fast := EMA(values, macdFastPeriod)
	slow := EMA(values, macdSlowPeriod)

	macd = make([]float64, len(values))
	for i := range values {
		macd[i] = fast[i] - slow[i]
	}
	signal = EMA(macd, macdSignalPeriod)

	hist = make([]float64, len(values))
	for i := range values {
		hist[i] = macd[i] - signal[i]
	}
	return macd, signal, hist
}

// Bollinger computes the upper, middle and lower bands over the period.
// The middle band is the SMA; the bands sit stdDev population standard
// deviations away. Entries before the window fills are zero.
func Bollinger(values []float64, period int, stdDev float64) (upper, middle, lower []float64) {
	n := len(values)
	upper = make([]float64, n)
	middle = SMA(values, period)
	lower = make([]float64, n)

	for i := period - 1; i < n; i++ {
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - middle[i]
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		upper[i] = middle[i] + stdDev*sd
		lower[i] = middle[i] - stdDev*sd
	}
	return upper, middle, lower
}

// Stochastic computes the %K and %D lines of the stochastic oscillator.
// %K is the raw position of the close within the period's range; %D is
// its smooth-period SMA. A flat range yields zero.
func Stochastic(highs, lows, closes []float64, period, smooth int) (k, d []float64) {
	n := len(closes)
	k = make([]float64, n)

	for i := period - 1; i < n; i++ {
		hi := highs[i]
		lo := lows[i]
		for j := i - period + 1; j <= i; j++ {
			hi = math.Max(hi, highs[j])
			lo = math.Min(lo, lows[j])
		}
		if hi > lo {
			k[i] = (closes[i] - lo) / (hi - lo) * 100
		}
	}

	d = SMA(k, smooth)
	return k, d
}

// ATR computes the average true range with Wilder smoothing. Entries
// before the first full period are zero.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if n <= period || period <= 0 {
		return out
	}

	tr := make([]float64, n)
	tr[0] = highs[0] - lows[0]
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	var sum float64
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	out[period] = sum / float64(period)
	for i := period + 1; i < n; i++ {
		out[i] = (out[i-1]*float64(period-1) + tr[i]) / float64(period)
	}
	return out
}

// OBV computes cumulative on-balance volume.
func OBV(closes, volumes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volumes[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}
