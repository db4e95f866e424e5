package dri

// SpecialValue classifies a sentinel reading that is not a real
// measurement. The discontinuity sentinel and any other value at or
// below invalidLimit that isn't one of the named sentinels below
// collapses to Invalid — the only distinguishable kinds are Invalid,
// NotUpdated, UnderRange, OverRange and NotCalibrated; discontinuity is
// recognized on the wire but has no separate typed outcome.
type SpecialValue int

const (
	Invalid SpecialValue = iota
	NotUpdated
	UnderRange
	OverRange
	NotCalibrated
)

func (s SpecialValue) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case NotUpdated:
		return "NotUpdated"
	case UnderRange:
		return "UnderRange"
	case OverRange:
		return "OverRange"
	case NotCalibrated:
		return "NotCalibrated"
	default:
		return "Invalid"
	}
}

const (
	invalidLimit       int16 = -32001
	dataInvalid        int16 = -32767
	dataNotUpdated     int16 = -32766
	dataDiscontinuity  int16 = -32765
	dataUnderRange     int16 = -32764
	dataOverRange      int16 = -32763
	dataNotCalibrated  int16 = -32762
)

// Reading is the decoded outcome of one i16 wire field: either a real,
// scaled measurement or an absent value with its sentinel kind.
type Reading struct {
	OK    bool
	Value float64
	Kind  SpecialValue
}

// classifyRaw decodes a raw i16 against the sentinel table and, for real
// values, applies scale.
func classifyRaw(raw int16, scale float64) Reading {
	if raw > invalidLimit {
		return Reading{OK: true, Value: scaled(raw, scale)}
	}
	switch raw {
	case dataNotUpdated:
		return Reading{Kind: NotUpdated}
	case dataUnderRange:
		return Reading{Kind: UnderRange}
	case dataOverRange:
		return Reading{Kind: OverRange}
	case dataNotCalibrated:
		return Reading{Kind: NotCalibrated}
	case dataInvalid, dataDiscontinuity:
		return Reading{Kind: Invalid}
	default:
		return Reading{Kind: Invalid}
	}
}
