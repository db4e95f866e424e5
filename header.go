package dri

import "time"

// HeaderSize is the fixed length of a record header: everything up
// through the subrecord descriptor table, padded to a constant size
// regardless of how many descriptors are actually meaningful.
const HeaderSize = 40

// descriptorTableOffset is where the subrecord descriptor table begins:
// total length(2) + sequence(1) + level(1) + plug id(2) + timestamp(4) +
// reserved(6) + main type(2) = 18.
const descriptorTableOffset = 18

// maxDescriptors bounds the descriptor scan at 8 slots. Only 7 whole
// slots fit between descriptorTableOffset and HeaderSize, and the scan
// stops at HeaderSize, so at most 7 descriptors are read.
const maxDescriptors = 8

// descriptorSize is one descriptor's wire size: offset (u16) + type (u8).
const descriptorSize = 3

// terminatorType marks an unused descriptor slot / end of the table.
const terminatorType = 0xFF

// SubrecordDescriptor locates one subrecord within the data region that
// follows the header.
type SubrecordDescriptor struct {
	Offset uint16
	Type   uint8
}

// Header is a parsed 40-byte record header plus a reference to the data
// region that follows it in the same frame payload.
type Header struct {
	TotalLength     uint16
	SequenceNumber  uint8
	Level           DriLevel
	PlugID          uint16
	UnixTimestamp   uint32
	MainType        MainType
	Descriptors     []SubrecordDescriptor
	data            []byte
}

// ParseHeader reads a 40-byte header from the front of payload and keeps
// a reference to the remainder as the record's data region. It validates
// the DRI level and main type; subrecord descriptors are collected but
// not themselves validated beyond the terminator scan.
func ParseHeader(payload []byte) (*Header, error) {
	if len(payload) < HeaderSize {
		// A frame that validated its checksum but doesn't hold a full
		// header is the same underlying defect as a closed frame with
		// too few bytes: the transport handed us less than the wire
		// format requires.
		return nil, newError(IncompleteFrame, nil)
	}

	level := DriLevel(payload[3])
	if !validDriLevel(payload[3]) {
		return nil, newError(UnsupportedLevel, nil)
	}

	mainType := MainType(parseLittleEndianUint16(payload[16:18]))
	if !mainType.known() {
		return nil, newError(UnknownMainType, nil)
	}

	h := &Header{
		TotalLength:    parseLittleEndianUint16(payload[0:2]),
		SequenceNumber: payload[2],
		Level:          level,
		PlugID:         parseLittleEndianUint16(payload[4:6]),
		UnixTimestamp:  parseLittleEndianUint32(payload[6:10]),
		MainType:       mainType,
		data:           payload[HeaderSize:],
	}

	tableEnd := HeaderSize
	if tableEnd > len(payload) {
		tableEnd = len(payload)
	}
	for i := 0; i < maxDescriptors; i++ {
		start := descriptorTableOffset + i*descriptorSize
		if start+descriptorSize > tableEnd {
			break
		}
		typ := payload[start+2]
		if typ == terminatorType {
			break
		}
		h.Descriptors = append(h.Descriptors, SubrecordDescriptor{
			Offset: parseLittleEndianUint16(payload[start : start+2]),
			Type:   typ,
		})
	}

	return h, nil
}

// Timestamp converts the header's Unix timestamp to UTC.
func (h *Header) Timestamp() time.Time {
	return time.Unix(int64(h.UnixTimestamp), 0).UTC()
}

// Data is the payload region following the 40-byte header.
func (h *Header) Data() []byte { return h.data }

// SubrecordData returns the i-th descriptor's data slice: from its
// offset to the next descriptor's offset, or the end of the data region
// for the last descriptor. Returns (nil, false) for an out-of-range
// index or an offset beyond the data region (a malformed/truncated
// record — callers treat this as "no data for this subrecord" rather
// than a hard error).
func (h *Header) SubrecordData(i int) ([]byte, bool) {
	if i < 0 || i >= len(h.Descriptors) {
		return nil, false
	}
	start := int(h.Descriptors[i].Offset)
	if start > len(h.data) {
		return nil, false
	}
	end := len(h.data)
	if i+1 < len(h.Descriptors) {
		next := int(h.Descriptors[i+1].Offset)
		if next >= start && next <= len(h.data) {
			end = next
		}
	}
	return h.data[start:end], true
}
