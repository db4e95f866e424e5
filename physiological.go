package dri

import "time"

// Basic-class layout: byte offsets and sizes measured from byte 4 of the
// subrecord, i.e. relative to the start of the 1082-byte class-specific
// region that follows the subrecord's own 4-byte timestamp. This table,
// not any decoder's internal running offset, is the canonical layout.
const (
	ecgOffset        = 0
	ecgSize          = 16
	invpOffset       = 16
	invpChannelSize  = 14
	invpChannels     = 4
	nibpOffset       = 72
	nibpSize         = 14
	tempOffset       = 86
	tempChannelSize  = 8
	tempChannels     = 4
	spo2Offset       = 118
	spo2Size         = 14
	co2Offset        = 132
	co2Size          = 14
	o2Offset         = 146
	o2Size           = 10
	n2oOffset        = 156
	n2oSize          = 10
	aaOffset         = 166
	aaSize           = 12
	flowVolOffset    = 178
	flowVolSize      = 22

	classDataSize       = 1082
	subrecordHeaderSize = 4 // leading timestamp
	classifierWordSize  = 2
	basicSubrecordSize  = subrecordHeaderSize + classDataSize + classifierWordSize // 1088
)

// groupHeader is the 6-byte status+label prefix shared by every
// parameter group, modeled as a flag-qualified struct rather than a
// pointer/interface sum type: OK false means "absent", without a
// staircase of nullable scalar fields.
type groupHeader struct {
	OK     bool
	Status uint32
	Label  uint16
}

// Exists reports status bit 0 ("module exists"). This bit does not gate
// field decoding — callers read fields regardless and let sentinels
// speak for validity — but it is exposed for callers that want it.
func (g groupHeader) Exists() bool { return g.OK && g.Status&0x1 != 0 }

// Active reports status bit 1 ("module active").
func (g groupHeader) Active() bool { return g.OK && g.Status&0x2 != 0 }

func statusBit(status uint32, bit uint) bool {
	return status&(1<<bit) != 0
}

// bitsInclusive extracts the [start,end] inclusive bit range of v as an
// unsigned value, matching the label/status bit-field convention used
// throughout the parameter groups (e.g. ECG's packed lead triple, HR
// source).
func bitsInclusive(v uint32, start, end uint) uint32 {
	width := end - start + 1
	mask := uint32(1)<<width - 1
	return (v >> start) & mask
}

// reader walks the class-specific region group by group. Once a slice
// request runs past the available bytes, every later request also fails
// (truncated is sticky), so a truncation cascades to every subsequent
// group in table order and all subsequent groups decode as absent — it
// is intentionally not possible for a later group to recover after an
// earlier one truncates.
type reader struct {
	data      []byte
	truncated bool
}

func (r *reader) slice(offset, size int) ([]byte, bool) {
	if r.truncated {
		return nil, false
	}
	if offset+size > len(r.data) {
		r.truncated = true
		return nil, false
	}
	return r.data[offset : offset+size], true
}

func readGroupHeader(s []byte) groupHeader {
	return groupHeader{
		OK:     true,
		Status: parseLittleEndianUint32(s[0:4]),
		Label:  parseLittleEndianUint16(s[4:6]),
	}
}

func readField(s []byte, offset int, scale float64) Reading {
	raw := parseLittleEndianInt16(s[offset : offset+2])
	return classifyRaw(raw, scale)
}

// ECGGroup is the Basic class's ECG parameter group.
type ECGGroup struct {
	groupHeader
	HRSource                 HrSource
	Lead1, Lead2, Lead3      EcgLeadType
	HR, ST1, ST2, ST3        Reading
	ImpedanceRR              Reading
}

func decodeECG(r *reader) ECGGroup {
	s, ok := r.slice(ecgOffset, ecgSize)
	if !ok {
		return ECGGroup{}
	}
	h := readGroupHeader(s)
	// HR source occupies status bits 3-6. The label packs three 4-bit
	// lead fields in an order that does not match their own numbering:
	// bits [4:7] give lead1, [0:3] give lead2, [8:11] give lead3.
	body := s[6:]
	return ECGGroup{
		groupHeader: h,
		HRSource:    hrSource(uint8(bitsInclusive(h.Status, 3, 6))),
		Lead1:       ecgLeadType(uint8(bitsInclusive(uint32(h.Label), 4, 7))),
		Lead2:       ecgLeadType(uint8(bitsInclusive(uint32(h.Label), 0, 3))),
		Lead3:       ecgLeadType(uint8(bitsInclusive(uint32(h.Label), 8, 11))),
		HR:          readField(body, 0, scaleRate),
		ST1:         readField(body, 2, scaleST),
		ST2:         readField(body, 4, scaleST),
		ST3:         readField(body, 6, scaleST),
		ImpedanceRR: readField(body, 8, scaleRate),
	}
}

// InvasivePressureGroup is one of the four IP channels.
type InvasivePressureGroup struct {
	groupHeader
	Label                     InvasivePressureLabel
	Systolic, Diastolic, Mean Reading
	HR                        Reading
}

func decodeInvasivePressure(r *reader, channel int) InvasivePressureGroup {
	s, ok := r.slice(invpOffset+channel*invpChannelSize, invpChannelSize)
	if !ok {
		return InvasivePressureGroup{}
	}
	h := readGroupHeader(s)
	body := s[6:]
	return InvasivePressureGroup{
		groupHeader: h,
		Label:       invasivePressureLabel(h.Label),
		Systolic:    readField(body, 0, scalePressure),
		Diastolic:   readField(body, 2, scalePressure),
		Mean:        readField(body, 4, scalePressure),
		HR:          readField(body, 6, scaleRate),
	}
}

// NIBPGroup is the Basic class's non-invasive blood pressure group. Its
// label field is reused for mode flags rather than an enumerated site,
// so it exposes named predicates instead of a Label enum value.
type NIBPGroup struct {
	groupHeader
	Systolic, Diastolic, Mean, HR Reading
}

func (g NIBPGroup) AutoMode() bool          { return g.OK && statusBit(uint32(g.Label), 3) }
func (g NIBPGroup) StatMode() bool          { return g.OK && statusBit(uint32(g.Label), 4) }
func (g NIBPGroup) Measuring() bool         { return g.OK && statusBit(uint32(g.Label), 5) }
func (g NIBPGroup) StasisOn() bool          { return g.OK && statusBit(uint32(g.Label), 6) }
func (g NIBPGroup) Calibrating() bool       { return g.OK && statusBit(uint32(g.Label), 7) }
func (g NIBPGroup) DataOlderThan60s() bool  { return g.OK && statusBit(uint32(g.Label), 8) }

func decodeNIBP(r *reader) NIBPGroup {
	s, ok := r.slice(nibpOffset, nibpSize)
	if !ok {
		return NIBPGroup{}
	}
	h := readGroupHeader(s)
	body := s[6:]
	return NIBPGroup{
		groupHeader: h,
		Systolic:    readField(body, 0, scalePressure),
		Diastolic:   readField(body, 2, scalePressure),
		Mean:        readField(body, 4, scalePressure),
		HR:          readField(body, 6, scaleRate),
	}
}

// TemperatureGroup is one of the four temperature channels.
type TemperatureGroup struct {
	groupHeader
	Label TemperatureLabel
	Value Reading
}

func decodeTemperature(r *reader, channel int) TemperatureGroup {
	s, ok := r.slice(tempOffset+channel*tempChannelSize, tempChannelSize)
	if !ok {
		return TemperatureGroup{}
	}
	h := readGroupHeader(s)
	body := s[6:]
	return TemperatureGroup{
		groupHeader: h,
		Label:       temperatureLabel(h.Label),
		Value:       readField(body, 0, scaleTemperature),
	}
}

// SpO2Group is the Basic class's pulse oximetry group. The group spans
// 14 bytes (6 header + 8 payload) but only 6 of those 8 payload bytes
// carry named quantities (three are named); the remaining 2 bytes are
// unused padding, left unread.
type SpO2Group struct {
	groupHeader
	Saturation, PulseRate, IRAmplitude Reading
}

func decodeSpO2(r *reader) SpO2Group {
	s, ok := r.slice(spo2Offset, spo2Size)
	if !ok {
		return SpO2Group{}
	}
	h := readGroupHeader(s)
	body := s[6:]
	return SpO2Group{
		groupHeader: h,
		Saturation:  readField(body, 0, scalePercent),
		PulseRate:   readField(body, 2, scaleRate),
		IRAmplitude: readField(body, 4, scaleIRAmplitude),
	}
}

// CO2Group is the Basic class's capnography group. AmbientPressure's
// presence varies by firmware level; it is read from the group's fixed
// 14-byte range like the other fields, and if that range runs past the
// available bytes the whole group, AmbientPressure included, decodes as
// absent.
type CO2Group struct {
	groupHeader
	EtCO2, FiCO2, RR, AmbientPressure Reading
}

func decodeCO2(r *reader) CO2Group {
	s, ok := r.slice(co2Offset, co2Size)
	if !ok {
		return CO2Group{}
	}
	h := readGroupHeader(s)
	body := s[6:]
	return CO2Group{
		groupHeader:      h,
		EtCO2:            readField(body, 0, scalePercent),
		FiCO2:            readField(body, 2, scalePercent),
		RR:               readField(body, 4, scaleRate),
		AmbientPressure:  readField(body, 6, scalePressure),
	}
}

// GasGroup covers O2 and N2O, which share an Et/Fi layout.
type GasGroup struct {
	groupHeader
	Et, Fi Reading
}

func decodeGas(r *reader, offset, size int) GasGroup {
	s, ok := r.slice(offset, size)
	if !ok {
		return GasGroup{}
	}
	h := readGroupHeader(s)
	body := s[6:]
	return GasGroup{
		groupHeader: h,
		Et:          readField(body, 0, scalePercent),
		Fi:          readField(body, 2, scalePercent),
	}
}

// AnesthesiaAgentGroup is the Basic class's agent group.
type AnesthesiaAgentGroup struct {
	groupHeader
	Agent      AnesthesiaAgent
	Et, Fi, MAC Reading
}

func decodeAnesthesiaAgent(r *reader) AnesthesiaAgentGroup {
	s, ok := r.slice(aaOffset, aaSize)
	if !ok {
		return AnesthesiaAgentGroup{}
	}
	h := readGroupHeader(s)
	body := s[6:]
	return AnesthesiaAgentGroup{
		groupHeader: h,
		Agent:       anesthesiaAgent(h.Label),
		Et:          readField(body, 0, scalePercent),
		Fi:          readField(body, 2, scalePercent),
		MAC:         readField(body, 4, scalePercent),
	}
}

// TidalVolumeBase is the tidal-volume measurement convention carried in
// status bits 8-9 of the Flow & Volume group.
type TidalVolumeBase uint8

const (
	TidalVolumeATPD TidalVolumeBase = 0
	TidalVolumeNTPD TidalVolumeBase = 1
	TidalVolumeBTPS TidalVolumeBase = 2
	TidalVolumeSTPD TidalVolumeBase = 3
)

// FlowVolumeGroup is the Basic class's ventilation mechanics group.
type FlowVolumeGroup struct {
	groupHeader
	RR, Ppeak, PEEP, Pplat      Reading
	TVInsp, TVExp               Reading
	Compliance, MVExp           Reading
}

func (g FlowVolumeGroup) Base() TidalVolumeBase {
	return TidalVolumeBase(bitsInclusive(g.Status, 8, 9))
}
func (g FlowVolumeGroup) Disconnected() bool { return g.OK && statusBit(g.Status, 2) }
func (g FlowVolumeGroup) Calibrating() bool  { return g.OK && statusBit(g.Status, 3) }
func (g FlowVolumeGroup) Zeroing() bool      { return g.OK && statusBit(g.Status, 4) }
func (g FlowVolumeGroup) Obstruction() bool  { return g.OK && statusBit(g.Status, 5) }
func (g FlowVolumeGroup) Leak() bool         { return g.OK && statusBit(g.Status, 6) }
func (g FlowVolumeGroup) MeasurementOff() bool { return g.OK && statusBit(g.Status, 7) }

func decodeFlowVolume(r *reader) FlowVolumeGroup {
	s, ok := r.slice(flowVolOffset, flowVolSize)
	if !ok {
		return FlowVolumeGroup{}
	}
	h := readGroupHeader(s)
	body := s[6:]
	return FlowVolumeGroup{
		groupHeader: h,
		RR:          readField(body, 0, scaleRate),
		Ppeak:       readField(body, 2, scalePressure),
		PEEP:        readField(body, 4, scalePressure),
		Pplat:       readField(body, 6, scalePressure),
		TVInsp:      readField(body, 8, scaleTidalVolume),
		TVExp:       readField(body, 10, scaleTidalVolume),
		Compliance:  readField(body, 12, scalePercent),
		MVExp:       readField(body, 14, scaleMinuteVolume),
	}
}

// PhysiologicalData is the decoded Basic-class physiological subrecord
// a timestamp, subtype, class, and one typed group per layout row.
type PhysiologicalData struct {
	Timestamp time.Time
	Subtype   PhdbSubrecordType
	Class     PhdbClass

	ECG     ECGGroup
	InvP    [invpChannels]InvasivePressureGroup
	NIBP    NIBPGroup
	Temp    [tempChannels]TemperatureGroup
	SpO2    SpO2Group
	CO2     CO2Group
	O2      GasGroup
	N2O     GasGroup
	AA      AnesthesiaAgentGroup
	FlowVol FlowVolumeGroup
}

// DecodePhysiological decodes subrecordData (the physiological record's
// first subrecord, as returned by Header.SubrecordData) against
// descriptorType, the same subrecord's type byte from the header's
// descriptor table. Only the Basic class is decoded; Ext1-3
// data, if present past byte 200 of the class region, is left unread.
func DecodePhysiological(subrecordData []byte, descriptorType uint8) (*PhysiologicalData, error) {
	if len(subrecordData) < subrecordHeaderSize {
		return nil, newError(ShortSubrecord, nil)
	}

	timestamp := time.Unix(int64(parseLittleEndianUint32(subrecordData[0:4])), 0).UTC()

	classData := subrecordData[subrecordHeaderSize:]
	if len(classData) > classDataSize {
		classData = classData[:classDataSize]
	}

	subtype := PhdbSubrecordType(descriptorType)
	class := PhdbBasic
	if len(subrecordData) >= basicSubrecordSize {
		classifier := parseLittleEndianUint16(subrecordData[subrecordHeaderSize+classDataSize : basicSubrecordSize])
		highByte := byte(classifier >> 8)
		lowByte := byte(classifier)
		class = PhdbClass(highByte >> 4)
		subtype = PhdbSubrecordType(lowByte)
	}

	// Decoded strictly in ascending table-offset order so the
	// reader's sticky truncation flag cascades correctly: a group must
	// never be attempted before an earlier-offset group has had its
	// chance to succeed or trigger truncation.
	r := &reader{data: classData}
	data := &PhysiologicalData{
		Timestamp: timestamp,
		Subtype:   subtype,
		Class:     class,
		ECG:       decodeECG(r),
	}
	for i := 0; i < invpChannels; i++ {
		data.InvP[i] = decodeInvasivePressure(r, i)
	}
	data.NIBP = decodeNIBP(r)
	for i := 0; i < tempChannels; i++ {
		data.Temp[i] = decodeTemperature(r, i)
	}
	data.SpO2 = decodeSpO2(r)
	data.CO2 = decodeCO2(r)
	data.O2 = decodeGas(r, o2Offset, o2Size)
	data.N2O = decodeGas(r, n2oOffset, n2oSize)
	data.AA = decodeAnesthesiaAgent(r)
	data.FlowVol = decodeFlowVolume(r)
	return data, nil
}
