// Package jsonwriter emits decoded DRI records as newline-delimited
// JSON, one object per record.
package jsonwriter

import (
	"encoding/json"
	"io"

	"github.com/ge-dri/go-dri"
)

// Writer emits one JSON object per record, newline-delimited.
type Writer struct {
	enc *json.Encoder
}

// New wraps w as a newline-delimited JSON writer.
func New(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

type record struct {
	Kind          string                  `json:"kind"`
	MainType      *dri.MainType           `json:"main_type,omitempty"`
	Physiological *dri.PhysiologicalData  `json:"physiological,omitempty"`
	Waveforms     []dri.WaveformData      `json:"waveforms,omitempty"`
}

// WriteRecord encodes one decoded record as a single JSON line.
func (w *Writer) WriteRecord(rec *dri.DecodedRecord) error {
	out := record{}
	switch rec.Kind {
	case dri.RecordPhysiological:
		out.Kind = "physiological"
		out.Physiological = rec.Physiological
	case dri.RecordWaveform:
		out.Kind = "waveform"
		out.Waveforms = rec.Waveforms
	default:
		out.Kind = "unsupported"
		mt := rec.MainType
		out.MainType = &mt
	}
	return w.enc.Encode(out)
}
