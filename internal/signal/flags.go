package signal

import "strings"

// State is a set of consistency flags. A set bit means that aspect of a
// component is stale and must be resynchronized by the next draw.
type State uint32

const (
	Bounds State = 1 << iota
	Appearance
	Container
	ZIndex
	SeriesData
	SeriesHatchFill
	SeriesLabels
	MapSeries
	MapScale
	MapGeoData
	MapPalette
	MapMarkerPalette
	MapHatchFillPalette
	MapColorRange
	ChartLegend

	NoState  State = 0
	AllState State = ChartLegend<<1 - 1
)

var stateNames = []string{
	"BOUNDS", "APPEARANCE", "CONTAINER", "Z_INDEX",
	"SERIES_DATA", "SERIES_HATCH_FILL", "SERIES_LABELS",
	"MAP_SERIES", "MAP_SCALE", "MAP_GEO_DATA", "MAP_PALETTE",
	"MAP_MARKER_PALETTE", "MAP_HATCH_FILL_PALETTE", "MAP_COLOR_RANGE",
	"CHART_LEGEND",
}

// Has reports whether any bit of mask is set.
func (s State) Has(mask State) bool { return s&mask != 0 }

func (s State) String() string { return flagString(uint32(s), stateNames) }

// Signal is a set of change notifications broadcast to listeners.
type Signal uint32

const (
	NeedsRedraw Signal = 1 << iota
	NeedsRecalculation
	NeedsReapplication
	DataChanged
	BoundsChanged
	EnabledStateChanged
	NeedUpdateLegend
	NeedUpdateColorRange

	NoSignal  Signal = 0
	AllSignal Signal = NeedUpdateColorRange<<1 - 1
)

var signalNames = []string{
	"NEEDS_REDRAW", "NEEDS_RECALCULATION", "NEEDS_REAPPLICATION",
	"DATA_CHANGED", "BOUNDS_CHANGED", "ENABLED_STATE_CHANGED",
	"NEED_UPDATE_LEGEND", "NEED_UPDATE_COLOR_RANGE",
}

// Has reports whether any bit of mask is set.
func (s Signal) Has(mask Signal) bool { return s&mask != 0 }

func (s Signal) String() string { return flagString(uint32(s), signalNames) }

func flagString(v uint32, names []string) string {
	if v == 0 {
		return "0"
	}
	var parts []string
	for i, n := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}
