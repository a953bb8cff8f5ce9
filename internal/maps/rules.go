package maps

import "geochart/internal/signal"

// autoStyles are the palette states re-pushed to series.
const autoStyles = signal.MapPalette | signal.MapMarkerPalette | signal.MapHatchFillPalette

// SeriesRule maps series signals to map states.
func SeriesRule(sig signal.Signal) (signal.State, signal.Signal) {
	var st signal.State
	if sig.Has(signal.NeedsRedraw) {
		st |= signal.MapSeries | signal.Appearance
	}
	if sig.Has(signal.DataChanged) {
		st |= signal.MapSeries | signal.ChartLegend | autoStyles
	}
	if sig.Has(signal.NeedUpdateLegend) {
		st |= signal.ChartLegend
		if sig.Has(signal.BoundsChanged) {
			st |= signal.Bounds
		}
	}
	if sig.Has(signal.NeedUpdateColorRange) {
		st |= signal.MapColorRange
	}
	if st == signal.NoState {
		return signal.NoState, signal.NoSignal
	}
	return st, signal.NeedsRedraw
}

// GeoScaleRule reprojects on extent, zoom or offset changes.
func GeoScaleRule(sig signal.Signal) (signal.State, signal.Signal) {
	if sig.Has(signal.NeedsRecalculation | signal.NeedsReapplication) {
		return signal.MapScale | signal.Bounds, signal.NeedsRedraw
	}
	return signal.NoState, signal.NoSignal
}

func paletteRule(state signal.State) signal.Rule {
	return func(sig signal.Signal) (signal.State, signal.Signal) {
		if sig.Has(signal.NeedsReapplication) {
			return state | signal.MapSeries | signal.ChartLegend, signal.NeedsRedraw | signal.NeedUpdateLegend
		}
		return signal.NoState, signal.NoSignal
	}
}

var (
	PaletteRule          = paletteRule(signal.MapPalette)
	MarkerPaletteRule    = paletteRule(signal.MapMarkerPalette)
	HatchFillPaletteRule = paletteRule(signal.MapHatchFillPalette)
)

// ColorRangeRule redraws the color range, reserving new bounds when its size
// changed.
func ColorRangeRule(sig signal.Signal) (signal.State, signal.Signal) {
	var st signal.State
	if sig.Has(signal.NeedsRedraw) {
		st |= signal.MapColorRange
	}
	if sig.Has(signal.BoundsChanged) {
		st |= signal.Bounds | signal.MapColorRange
	}
	if st == signal.NoState {
		return signal.NoState, signal.NoSignal
	}
	return st, signal.NeedsRedraw
}

// UnboundRule restyles unbound regions.
func UnboundRule(sig signal.Signal) (signal.State, signal.Signal) {
	if sig.Has(signal.NeedsRedraw) {
		return signal.Appearance, signal.NeedsRedraw
	}
	return signal.NoState, signal.NoSignal
}
