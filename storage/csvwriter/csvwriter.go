// Package csvwriter flattens decoded DRI records to CSV, one row per
// physiological reading.
package csvwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ge-dri/go-dri"
)

var header = []string{"timestamp", "parameter", "value", "kind"}

// Writer flattens DecodedRecord values to CSV rows.
type Writer struct {
	w     *csv.Writer
	wrote bool
}

// New wraps w as a CSV writer. The header row is written on first use.
func New(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// WriteRecord flattens one physiological record's groups into rows.
// Waveform and unsupported records are skipped: CSV output targets
// scalar trend data, not sample arrays.
func (c *Writer) WriteRecord(rec *dri.DecodedRecord) error {
	if !c.wrote {
		if err := c.w.Write(header); err != nil {
			return err
		}
		c.wrote = true
	}
	if rec.Kind != dri.RecordPhysiological || rec.Physiological == nil {
		return nil
	}
	p := rec.Physiological
	ts := p.Timestamp.UTC().Format("2006-01-02T15:04:05Z")

	rows := []struct {
		name    string
		reading dri.Reading
	}{
		{"ecg_hr", p.ECG.HR},
		{"spo2_saturation", p.SpO2.Saturation},
		{"spo2_pulse_rate", p.SpO2.PulseRate},
		{"nibp_systolic", p.NIBP.Systolic},
		{"nibp_diastolic", p.NIBP.Diastolic},
		{"nibp_mean", p.NIBP.Mean},
		{"co2_etco2", p.CO2.EtCO2},
		{"co2_rr", p.CO2.RR},
	}
	for _, row := range rows {
		if err := c.w.Write([]string{ts, row.name, readingValue(row.reading), readingKind(row.reading)}); err != nil {
			return err
		}
	}
	c.w.Flush()
	return c.w.Error()
}

func readingValue(r dri.Reading) string {
	if !r.OK {
		return ""
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

func readingKind(r dri.Reading) string {
	if r.OK {
		return ""
	}
	return r.Kind.String()
}
