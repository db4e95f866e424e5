package dri

import "fmt"

// Phdb request subtypes for the displayed/trend request shape.
const (
	phdbReqDispl    uint8 = 1
	phdbReqTrend10s uint8 = 2
	phdbReqTrend60s uint8 = 3
)

// Waveform request types for the waveform request shape.
const (
	waveformReqStart uint16 = 0
	waveformReqStop  uint16 = 1
)

const (
	phdbPayloadSize     = 9
	waveformPayloadSize = 32
	maxWaveformTypes    = 8
)

// buildHeaderBytes lays out the 40-byte header shared by every request
// shape: a single real subrecord descriptor (offset 0, the given type)
// followed by a terminator slot, with the remaining descriptor-table
// capacity left zeroed. Level, plug id and timestamp carry no meaning
// for an outbound request and are left at zero.
func buildHeaderBytes(totalLength uint16, mainType MainType, descriptorType uint8) []byte {
	h := make([]byte, HeaderSize)
	copy(h[0:2], serializeLittleEndianUint16(totalLength))
	copy(h[16:18], serializeLittleEndianUint16(uint16(mainType)))
	copy(h[18:20], serializeLittleEndianUint16(0))
	h[20] = descriptorType
	copy(h[21:23], serializeLittleEndianUint16(0))
	h[23] = terminatorType
	return h
}

// buildPhdbRequest is the shared implementation behind the displayed-
// values and trend request builders.
func buildPhdbRequest(subtype uint8, interval uint16, classMask uint32) []byte {
	payload := make([]byte, phdbPayloadSize)
	payload[0] = subtype
	copy(payload[1:3], serializeLittleEndianUint16(interval))
	copy(payload[3:7], serializeLittleEndianUint32(classMask))

	out := buildHeaderBytes(uint16(HeaderSize+phdbPayloadSize), MainPhysiological, 0)
	out = append(out, payload...)
	return out
}

// BuildPhdbRequest is the general displayed/trend request builder:
// subtype selects displayed values (PhdbDispl), 10s trend (PhdbTrend10s)
// or 60s trend
// (PhdbTrend60s). interval of 0 always means stop; a nonzero interval for
// PhdbDispl is clamped to a minimum of 5 seconds (the reference device
// driver clamps only the display refresh rate, not trend intervals).
func BuildPhdbRequest(subtype PhdbSubrecordType, interval uint16, classMask uint32) []byte {
	if subtype == PhdbDispl && interval != 0 && interval < 5 {
		interval = 5
	}
	return buildPhdbRequest(uint8(subtype), interval, classMask)
}

// BuildDisplayedValuesRequest builds the header+payload for a displayed-
// values request. interval is clamped to a minimum of 5 seconds unless it
// is 0 (stop). classMask is typically PhdbclReqAll.
func BuildDisplayedValuesRequest(interval uint16, classMask uint32) []byte {
	return BuildPhdbRequest(PhdbDispl, interval, classMask)
}

// BuildTrend60sRequest builds the header+payload for a 60-second trend
// request. The interval is not clamped: it is not a display refresh rate,
// any positive value starts trending (matching the reference device
// driver, which always passes 1).
func BuildTrend60sRequest(interval uint16, classMask uint32) []byte {
	return BuildPhdbRequest(PhdbTrend60s, interval, classMask)
}

// BuildWaveformRequest builds the header+payload for a waveform start or
// stop request. types must hold at most 8 entries; for a start request
// their summed sample rate must not exceed MaxTotalSampleRate.
func BuildWaveformRequest(types []WaveformType, requestType uint16) ([]byte, error) {
	if len(types) > maxWaveformTypes {
		return nil, fmt.Errorf("dri: waveform request holds %d types, max %d", len(types), maxWaveformTypes)
	}
	if requestType == waveformReqStart {
		if err := validateWaveformSet(types); err != nil {
			return nil, err
		}
	}

	payload := make([]byte, waveformPayloadSize)
	copy(payload[0:2], serializeLittleEndianUint16(requestType))
	copy(payload[2:4], serializeLittleEndianUint16(0))
	for i, t := range types {
		payload[4+i] = uint8(t)
	}
	if len(types) < maxWaveformTypes {
		payload[4+len(types)] = terminatorType
	}

	out := buildHeaderBytes(uint16(HeaderSize+waveformPayloadSize), MainWaveform, 0)
	out = append(out, payload...)
	return out, nil
}

// validateWaveformSet rejects a waveform set whose total sample rate
// exceeds MaxTotalSampleRate.
func validateWaveformSet(types []WaveformType) error {
	total := 0
	for _, t := range types {
		info, ok := LookupWaveformInfo(t)
		if !ok {
			continue
		}
		total += info.SamplesPerSecond
	}
	if total > MaxTotalSampleRate {
		return fmt.Errorf("dri: waveform set totals %d Hz, exceeds cap of %d Hz", total, MaxTotalSampleRate)
	}
	return nil
}

// BuildStopAll returns the three requests that together halt all
// transmission, in the order the reference device driver issues them:
// displayed-values stop, trend stop, waveform stop.
func BuildStopAll() [][]byte {
	waveformStop, _ := BuildWaveformRequest(nil, waveformReqStop)
	return [][]byte{
		BuildDisplayedValuesRequest(0, 0),
		buildPhdbRequest(phdbReqTrend60s, 0, 0),
		waveformStop,
	}
}
