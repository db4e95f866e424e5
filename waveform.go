package dri

import "time"

const waveformHeaderSize = 6

// WaveformData is one decoded waveform subrecord. Timestamp is the
// enclosing record header's timestamp — waveform subrecords, unlike
// physiological ones, carry no timestamp of their own.
type WaveformData struct {
	Timestamp     time.Time
	Type          WaveformType
	SampleRate    int
	Unit          string
	Samples       []int16
	Gap           bool
	PacerDetected bool
	LeadOff       bool
}

func statusBit16(status uint16, bit uint) bool {
	return status&(1<<bit) != 0
}

// decodeWaveformSubrecord decodes one subrecord's 6-byte header plus its
// sample run. If fewer bytes are available than the declared count
// promises, it decodes as many whole samples as fit and forces Gap true
// even if the status word's own gap bit was clear.
func decodeWaveformSubrecord(t WaveformType, info WaveformInfo, data []byte, timestamp time.Time) (WaveformData, bool) {
	if len(data) < waveformHeaderSize {
		return WaveformData{}, false
	}
	declaredCount := int(parseLittleEndianUint16(data[0:2]))
	status := parseLittleEndianUint16(data[2:4])

	available := data[waveformHeaderSize:]
	maxSamples := len(available) / 2
	n := declaredCount
	truncated := false
	if n > maxSamples {
		n = maxSamples
		truncated = true
	}
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = parseLittleEndianInt16(available[i*2 : i*2+2])
	}

	return WaveformData{
		Timestamp:     timestamp,
		Type:          t,
		SampleRate:    info.SamplesPerSecond,
		Unit:          info.Unit,
		Samples:       samples,
		Gap:           truncated || statusBit16(status, 0),
		PacerDetected: statusBit16(status, 2),
		LeadOff:       statusBit16(status, 3),
	}, true
}

// DecodeWaveforms decodes every subrecord in a waveform record (main type
// MainWaveform), in descriptor-table order. The command subtype (WaveCmd)
// carries no samples and is skipped; a subtype absent from the codebook
// is skipped with a warning rather than failing the record.
func DecodeWaveforms(header *Header, sink Sink) []WaveformData {
	sink = sinkOrNop(sink)
	timestamp := header.Timestamp()

	var out []WaveformData
	for i, desc := range header.Descriptors {
		t := WaveformType(desc.Type)
		if t == WaveCmd {
			continue
		}
		info, ok := LookupWaveformInfo(t)
		if !ok {
			sink.Warnf("dri: %v: subrecord type %d", newError(UnknownSubrecordType, nil), desc.Type)
			continue
		}
		data, ok := header.SubrecordData(i)
		if !ok {
			sink.Warnf("dri: %v: waveform subrecord %d has no data", newError(ShortSubrecord, nil), i)
			continue
		}
		wf, ok := decodeWaveformSubrecord(t, info, data, timestamp)
		if !ok {
			sink.Warnf("dri: %v: waveform subrecord %d shorter than its own header", newError(ShortSubrecord, nil), i)
			continue
		}
		out = append(out, wf)
	}
	return out
}
