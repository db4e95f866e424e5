package dri

import "testing"

func TestClassifyRaw_RealValue(t *testing.T) {
	r := classifyRaw(7200, scaleRate)
	if !r.OK {
		t.Fatal("expected OK reading")
	}
	if r.Value != 7200 {
		t.Errorf("Value = %v, want 7200", r.Value)
	}
}

func TestClassifyRaw_Sentinels(t *testing.T) {
	// Invariant 4: a raw value at or below invalidLimit decodes to one of
	// exactly {Invalid, NotUpdated, UnderRange, OverRange, NotCalibrated},
	// never a real value.
	tests := []struct {
		name string
		raw  int16
		want SpecialValue
	}{
		{"invalid", dataInvalid, Invalid},
		{"not updated", dataNotUpdated, NotUpdated},
		{"discontinuity collapses to invalid", dataDiscontinuity, Invalid},
		{"under range", dataUnderRange, UnderRange},
		{"over range", dataOverRange, OverRange},
		{"not calibrated", dataNotCalibrated, NotCalibrated},
		{"unmatched low value also invalid", -32100, Invalid},
		{"at invalidLimit exactly", invalidLimit, Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := classifyRaw(tt.raw, scaleRate)
			if r.OK {
				t.Fatalf("raw %d: OK = true, want a sentinel reading", tt.raw)
			}
			if r.Kind != tt.want {
				t.Errorf("raw %d: Kind = %v, want %v", tt.raw, r.Kind, tt.want)
			}
		})
	}
}

func TestClassifyRaw_BoundaryIsValid(t *testing.T) {
	r := classifyRaw(invalidLimit+1, scalePressure)
	if !r.OK {
		t.Fatal("invalidLimit+1 should still decode as a real (if extreme) value under this scheme")
	}
}
