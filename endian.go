package dri

import "encoding/binary"

// DRI fields are little-endian throughout.

func parseLittleEndianUint16(x []byte) uint16 {
	return binary.LittleEndian.Uint16(x)
}

func parseLittleEndianInt16(x []byte) int16 {
	return int16(parseLittleEndianUint16(x))
}

func serializeLittleEndianUint16(i uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, i)
	return b
}

func parseLittleEndianUint32(x []byte) uint32 {
	return binary.LittleEndian.Uint32(x)
}

func serializeLittleEndianUint32(i uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, i)
	return b
}
