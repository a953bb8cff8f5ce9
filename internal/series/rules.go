package series

import "geochart/internal/signal"

// ScaleRule maps a scale signal to a series invalidation. A recalculation
// request passes through; a reapplication only needs a redraw.
func ScaleRule(sig signal.Signal) (signal.State, signal.Signal) {
	out := sig &^ signal.NeedsReapplication
	if sig&signal.NeedsReapplication != 0 {
		out |= signal.NeedsRedraw
	}
	return signal.Appearance, out
}

// DataRule maps a data view signal.
func DataRule(sig signal.Signal) (signal.State, signal.Signal) {
	if sig&signal.DataChanged == 0 {
		return signal.NoState, signal.NoSignal
	}
	return signal.NoState, signal.NeedsRecalculation | signal.DataChanged
}

// LabelsRule maps a label settings signal.
func LabelsRule(sig signal.Signal) (signal.State, signal.Signal) {
	if sig&signal.NeedsRedraw == 0 {
		return signal.NoState, signal.NoSignal
	}
	return signal.SeriesLabels, signal.NeedsRedraw
}

// LegendItemRule maps a legend item settings signal.
func LegendItemRule(sig signal.Signal) (signal.State, signal.Signal) {
	out := signal.NeedUpdateLegend
	if sig&signal.BoundsChanged != 0 {
		out |= signal.BoundsChanged
	}
	return signal.NoState, out
}
