package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(ts int64, kv ...interface{}) Sample {
	s := Sample{Timestamp: ts, Values: make(map[string]float64)}
	for i := 0; i+1 < len(kv); i += 2 {
		s.Values[kv[i].(string)] = kv[i+1].(float64)
	}
	return s
}

func TestDeltas(t *testing.T) {
	t.Run("MonotonicCounter", func(t *testing.T) {
		assert.Equal(t, []float64{0, 5, 7, 0, 8}, Deltas([]float64{0, 5, 12, 12, 20}))
	})

	t.Run("ClampsCounterReset", func(t *testing.T) {
		assert.Equal(t, []float64{0, 0}, Deltas([]float64{100, 20}))
	})

	t.Run("ResetInTheMiddle", func(t *testing.T) {
		assert.Equal(t, []float64{0, 10, 0, 5}, Deltas([]float64{10, 20, 3, 8}))
	})

	t.Run("EmptyAndSingle", func(t *testing.T) {
		assert.Empty(t, Deltas(nil))
		assert.Equal(t, []float64{0}, Deltas([]float64{42}))
	})
}

func TestNewSource_SortsByTimestamp(t *testing.T) {
	src := NewSource("w1", Client, []string{"active"}, []Sample{
		sample(3, "active", 3.0),
		sample(1, "active", 1.0),
		sample(2, "active", 2.0),
		sample(1, "active", 10.0),
	})

	require.Equal(t, 4, src.Len())
	assert.Equal(t, int64(1), src.Samples[0].Timestamp)
	assert.Equal(t, 1.0, src.Samples[0].Values["active"])
	assert.Equal(t, 10.0, src.Samples[1].Values["active"], "equal timestamps keep file order")
	assert.Equal(t, int64(3), src.Samples[3].Timestamp)
}

func TestDeriveRates(t *testing.T) {
	t.Run("AddsRateColumn", func(t *testing.T) {
		var rows []Sample
		for i, v := range []float64{0, 5, 12, 12, 20} {
			rows = append(rows, sample(int64(100+i), ColTxPixels, v))
		}
		src := NewSource("w1", Client, []string{ColTxPixels}, rows)

		added := DeriveRates(src, []string{ColTxPixels})
		require.Equal(t, []string{"tx_pixels_s"}, added)
		assert.True(t, src.HasColumn("tx_pixels_s"))

		var got []float64
		for _, s := range src.Samples {
			got = append(got, s.Values["tx_pixels_s"])
		}
		assert.Equal(t, []float64{0, 5, 7, 0, 8}, got)
	})

	t.Run("DerivesAfterSorting", func(t *testing.T) {
		src := NewSource("w1", Client, []string{ColTxPixels}, []Sample{
			sample(2, ColTxPixels, 20.0),
			sample(1, ColTxPixels, 100.0),
		})
		DeriveRates(src, []string{ColTxPixels})
		assert.Equal(t, 0.0, src.Samples[0].Values["tx_pixels_s"])
		assert.Equal(t, 0.0, src.Samples[1].Values["tx_pixels_s"], "reset is clamped")
	})

	t.Run("MissingCellYieldsZero", func(t *testing.T) {
		src := NewSource("w1", Client, []string{ColTxPixels}, []Sample{
			sample(1, ColTxPixels, 10.0),
			sample(2),
			sample(3, ColTxPixels, 30.0),
		})
		DeriveRates(src, []string{ColTxPixels})
		assert.Equal(t, 0.0, src.Samples[1].Values["tx_pixels_s"])
		assert.Equal(t, 0.0, src.Samples[2].Values["tx_pixels_s"])
	})

	t.Run("SkipsAbsentCounter", func(t *testing.T) {
		src := NewSource("w1", Client, []string{ColActive}, []Sample{sample(1, ColActive, 1.0)})
		assert.Empty(t, DeriveRates(src, []string{ColTxPixels}))
		assert.False(t, src.HasColumn("tx_pixels_s"))
	})
}

func TestAggregate(t *testing.T) {
	t.Run("SumsContemporaneousSamples", func(t *testing.T) {
		a := NewSource("a", Client, []string{ColActive, ColFailed}, []Sample{
			sample(10, ColActive, 1.0, ColFailed, 0.0),
			sample(11, ColActive, 2.0, ColFailed, 1.0),
		})
		b := NewSource("b", Client, []string{ColActive}, []Sample{
			sample(11, ColActive, 5.0),
			sample(12, ColActive, 7.0),
		})

		f := Aggregate(Client, []*Source{a, b})
		require.Equal(t, 3, f.Len())
		assert.Equal(t, []int64{10, 11, 12}, f.Timestamps)
		assert.Equal(t, []float64{0, 1, 2}, f.Elapsed)
		assert.Equal(t, []string{ColActive, ColFailed}, f.Columns)
		assert.Equal(t, 2, f.Sources)

		active, ok := f.Column(ColActive)
		require.True(t, ok)
		assert.Equal(t, []float64{1, 7, 7}, active)

		failed, ok := f.Column(ColFailed)
		require.True(t, ok)
		assert.Equal(t, []float64{0, 1, 0}, failed)
	})

	t.Run("DuplicateTimestampsWithinSourceAreSummed", func(t *testing.T) {
		a := NewSource("a", Server, []string{ColServerRSSKB}, []Sample{
			sample(5, ColServerRSSKB, 100.0),
			sample(5, ColServerRSSKB, 50.0),
		})
		f := Aggregate(Server, []*Source{a})
		require.Equal(t, 1, f.Len())
		col, _ := f.Column(ColServerRSSKB)
		assert.Equal(t, []float64{150}, col)
	})

	t.Run("OneRowPerDistinctTimestamp", func(t *testing.T) {
		var sources []*Source
		for w := 0; w < 4; w++ {
			var rows []Sample
			for ts := int64(0); ts < 10; ts += int64(w + 1) {
				rows = append(rows, sample(1000+ts, ColActive, float64(w+1)))
			}
			sources = append(sources, NewSource("w", Client, []string{ColActive}, rows))
		}

		f := Aggregate(Client, sources)
		assert.Equal(t, 10, f.Len())
		active, _ := f.Column(ColActive)
		for i, ts := range f.Timestamps {
			want := 0.0
			for w := 0; w < 4; w++ {
				if (ts-1000)%int64(w+1) == 0 {
					want += float64(w + 1)
				}
			}
			assert.Equal(t, want, active[i], "timestamp %d", ts)
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		f := Aggregate(Client, nil)
		assert.Equal(t, 0, f.Len())
		assert.False(t, f.Has(ColActive))
	})
}

func TestSteadyStateMean(t *testing.T) {
	t.Run("UsesLastSixtyPercent", func(t *testing.T) {
		values := []float64{100, 100, 100, 100, 2, 4, 6, 8, 10, 12}
		avg, ok := SteadyStateMean(values, 0.4)
		require.True(t, ok)
		assert.InDelta(t, 7.0, avg, 1e-9)
	})

	t.Run("TruncatesStartIndex", func(t *testing.T) {
		// int(3*0.4) == 1
		avg, ok := SteadyStateMean([]float64{50, 2, 4}, 0.4)
		require.True(t, ok)
		assert.InDelta(t, 3.0, avg, 1e-9)
	})

	t.Run("EmptyHasNoMean", func(t *testing.T) {
		_, ok := SteadyStateMean(nil, 0.4)
		assert.False(t, ok)
	})
}

func TestPeak(t *testing.T) {
	i, v, ok := Peak([]float64{1, 9, 3, 9})
	require.True(t, ok)
	assert.Equal(t, 1, i, "first maximum wins")
	assert.Equal(t, 9.0, v)

	_, _, ok = Peak(nil)
	assert.False(t, ok)
}

func TestClientFrame_TxSource(t *testing.T) {
	t.Run("PrefersSampledRate", func(t *testing.T) {
		src := NewSource("w", Client, []string{ColTxPixels, ColTxPPS}, []Sample{
			sample(1, ColTxPixels, 0.0, ColTxPPS, 11.0),
			sample(2, ColTxPixels, 10.0, ColTxPPS, 12.0),
		})
		DeriveRates(src, []string{ColTxPixels})
		cf := NewClientFrame(Aggregate(Client, []*Source{src}))
		assert.Equal(t, TxSampled, cf.TxSource)
		assert.Equal(t, []float64{11, 12}, cf.Tx)
	})

	t.Run("FallsBackToDerivedRate", func(t *testing.T) {
		src := NewSource("w", Client, []string{ColTxPixels}, []Sample{
			sample(1, ColTxPixels, 0.0),
			sample(2, ColTxPixels, 10.0),
		})
		DeriveRates(src, []string{ColTxPixels})
		cf := NewClientFrame(Aggregate(Client, []*Source{src}))
		assert.Equal(t, TxDerived, cf.TxSource)
		assert.Equal(t, []float64{0, 10}, cf.Tx)
	})

	t.Run("NoTransmitColumns", func(t *testing.T) {
		src := NewSource("w", Client, []string{ColActive}, []Sample{sample(1, ColActive, 1.0)})
		cf := NewClientFrame(Aggregate(Client, []*Source{src}))
		assert.Equal(t, TxNone, cf.TxSource)
		assert.Nil(t, cf.Tx)
		assert.Nil(t, cf.Failed)
		assert.Equal(t, []float64{1}, cf.Active)
	})
}

func TestServerFrame_HasBufferErrors(t *testing.T) {
	clean := NewSource("s", Server, []string{ColUDPRcvbufErrors, ColUDPSndbufErrors}, []Sample{
		sample(1, ColUDPRcvbufErrors, 0.0, ColUDPSndbufErrors, 0.0),
		sample(2, ColUDPRcvbufErrors, 0.0, ColUDPSndbufErrors, 0.0),
	})
	assert.False(t, NewServerFrame(Aggregate(Server, []*Source{clean})).HasBufferErrors())

	clean.Samples[1].Values[ColUDPSndbufErrors] = 3
	assert.True(t, NewServerFrame(Aggregate(Server, []*Source{clean})).HasBufferErrors())
}
