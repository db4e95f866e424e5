package dri

// ByteSource is the external byte-source contract: on demand it yields
// zero or more bytes, or an error signaling end-of-stream or a transport
// failure. The orchestrator calls it at most once per Next call and
// never blocks on its own — any blocking happens inside the source
// itself.
type ByteSource func() ([]byte, error)

// RecordKind discriminates the DecodedRecord sum type.
type RecordKind int

const (
	RecordPhysiological RecordKind = iota
	RecordWaveform
	RecordUnsupported
)

// DecodedRecord is one fully dispatched record: exactly one of
// Physiological or Waveforms is meaningful, per Kind. Unsupported records
// (alarm/network/event, recognized but not interpreted) carry only
// MainType.
type DecodedRecord struct {
	Kind          RecordKind
	Physiological *PhysiologicalData
	Waveforms     []WaveformData
	MainType      MainType
}

// Orchestrator ties the byte stream to frames to headers to decoded
// records. It is single-threaded and cooperative: it owns no goroutines,
// performs no I/O of its own, and is driven entirely by repeated calls to
// Next.
type Orchestrator struct {
	parser  *FrameParser
	sink    Sink
	pending []pendingResult
}

type pendingResult struct {
	record *DecodedRecord
	err    error
}

// NewOrchestrator returns an orchestrator with a fresh framing engine.
func NewOrchestrator(sink Sink) *Orchestrator {
	sink = sinkOrNop(sink)
	return &Orchestrator{parser: NewFrameParser(sink), sink: sink}
}

// Next pulls the next decoded record. It distinguishes three outcomes:
//   - (nil, nil): no record is ready yet ("cannot yet") — call again.
//   - (record, nil): a record was decoded, possibly Unsupported
//     ("will not" interpret this main type, not a failure).
//   - (nil, err): a structural failure occurred for one frame ("failed");
//     the engine has already resynchronized and later frames are
//     unaffected.
//
// A previously buffered result (from a source read that produced more
// than one complete frame) is drained before source is consulted again,
// preserving "at most once per call" against the byte source.
func (o *Orchestrator) Next(source ByteSource) (*DecodedRecord, error) {
	if len(o.pending) > 0 {
		r := o.pending[0]
		o.pending = o.pending[1:]
		return r.record, r.err
	}

	data, err := source()
	if err != nil {
		return nil, err
	}

	for _, f := range o.parser.ProcessBytes(data) {
		o.pending = append(o.pending, o.dispatch(f))
	}

	if len(o.pending) == 0 {
		return nil, nil
	}
	r := o.pending[0]
	o.pending = o.pending[1:]
	return r.record, r.err
}

// Reset forgets any in-progress frame and buffered results, returning the
// orchestrator to a freshly constructed state.
func (o *Orchestrator) Reset() {
	o.parser.Reset()
	o.pending = nil
}

func (o *Orchestrator) dispatch(f Frame) pendingResult {
	header, err := ParseHeader(f.Payload)
	if err != nil {
		return pendingResult{err: err}
	}

	switch header.MainType {
	case MainPhysiological:
		if len(header.Descriptors) == 0 {
			return pendingResult{err: newError(ShortSubrecord, nil)}
		}
		data, ok := header.SubrecordData(0)
		if !ok {
			return pendingResult{err: newError(ShortSubrecord, nil)}
		}
		phys, err := DecodePhysiological(data, header.Descriptors[0].Type)
		if err != nil {
			return pendingResult{err: err}
		}
		return pendingResult{record: &DecodedRecord{Kind: RecordPhysiological, Physiological: phys}}

	case MainWaveform:
		waves := DecodeWaveforms(header, o.sink)
		return pendingResult{record: &DecodedRecord{Kind: RecordWaveform, Waveforms: waves}}

	default: // MainAlarm, MainNetwork, MainEvent: recognized, not interpreted.
		return pendingResult{record: &DecodedRecord{Kind: RecordUnsupported, MainType: header.MainType}}
	}
}
