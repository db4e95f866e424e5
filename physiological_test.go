package dri

import "testing"

func putU32(b []byte, off int, v uint32) { copy(b[off:], serializeLittleEndianUint32(v)) }
func putU16(b []byte, off int, v uint16) { copy(b[off:], serializeLittleEndianUint16(v)) }
func putI16(b []byte, off int, v int16)  { putU16(b, off, uint16(v)) }

// newClassData builds a full 1082-byte class-data region, ready to have
// individual groups' bytes poked into it at their table offsets.
func newClassData() []byte {
	return make([]byte, classDataSize)
}

func writeGroupHeader(class []byte, groupOffset int, status uint32, label uint16) {
	putU32(class, groupOffset, status)
	putU16(class, groupOffset+4, label)
}

func TestDecodePhysiological_ECG_S4(t *testing.T) {
	// label 0x0021 -> Lead1 = LeadII, Lead2 = LeadI, Lead3 = NotSelected
	// (bits [4:7] -> lead1, [0:3] -> lead2, [8:11] -> lead3).
	class := newClassData()
	writeGroupHeader(class, ecgOffset, 0, 0x0021)
	body := ecgOffset + 6
	putI16(class, body+0, 720) // HR
	putI16(class, body+2, 10)  // ST1
	putI16(class, body+4, 0)   // ST2
	putI16(class, body+6, 0)   // ST3
	putI16(class, body+8, 720) // ImpedanceRR

	subrecord := make([]byte, subrecordHeaderSize+classDataSize+classifierWordSize)
	putU32(subrecord, 0, 1700000000)
	copy(subrecord[subrecordHeaderSize:], class)

	data, err := DecodePhysiological(subrecord, uint8(PhdbDispl))
	if err != nil {
		t.Fatalf("DecodePhysiological: %v", err)
	}
	if data.ECG.Lead1 != LeadII {
		t.Errorf("Lead1 = %v, want LeadII", data.ECG.Lead1)
	}
	if data.ECG.Lead2 != LeadI {
		t.Errorf("Lead2 = %v, want LeadI", data.ECG.Lead2)
	}
	if data.ECG.Lead3 != LeadNotSelected {
		t.Errorf("Lead3 = %v, want LeadNotSelected", data.ECG.Lead3)
	}
	if !data.ECG.HR.OK || data.ECG.HR.Value != 720 {
		t.Errorf("HR = %+v, want OK 720", data.ECG.HR)
	}
}

func TestDecodePhysiological_SpO2_S5(t *testing.T) {
	// An SpO2 group whose saturation field carries the under-range
	// sentinel decodes as an absent reading, not a bogus real value.
	class := newClassData()
	writeGroupHeader(class, spo2Offset, 0x3, 0)
	body := spo2Offset + 6
	putI16(class, body+0, dataUnderRange) // Saturation
	putI16(class, body+2, 600)            // PulseRate
	putI16(class, body+4, 10)             // IRAmplitude

	subrecord := make([]byte, subrecordHeaderSize+classDataSize+classifierWordSize)
	copy(subrecord[subrecordHeaderSize:], class)

	data, err := DecodePhysiological(subrecord, uint8(PhdbDispl))
	if err != nil {
		t.Fatalf("DecodePhysiological: %v", err)
	}
	if data.SpO2.Saturation.OK {
		t.Fatalf("Saturation = %+v, want an absent reading", data.SpO2.Saturation)
	}
	if data.SpO2.Saturation.Kind != UnderRange {
		t.Errorf("Saturation.Kind = %v, want UnderRange", data.SpO2.Saturation.Kind)
	}
	if !data.SpO2.PulseRate.OK || data.SpO2.PulseRate.Value != 600 {
		t.Errorf("PulseRate = %+v, want OK 600", data.SpO2.PulseRate)
	}
}

func TestDecodePhysiological_TruncationCascades(t *testing.T) {
	// A class region that ends partway through the table means the
	// group that runs past the end, and every later group in table-offset
	// order, decodes as absent.
	class := newClassData()
	writeGroupHeader(class, ecgOffset, 0, 0)
	// Truncate right after the ECG group but before invasive pressure.
	truncated := class[:ecgOffset+ecgSize]

	subrecord := make([]byte, subrecordHeaderSize+len(truncated))
	copy(subrecord[subrecordHeaderSize:], truncated)

	data, err := DecodePhysiological(subrecord, uint8(PhdbDispl))
	if err != nil {
		t.Fatalf("DecodePhysiological: %v", err)
	}
	if !data.ECG.OK {
		t.Error("ECG should have decoded before the truncation point")
	}
	if data.InvP[0].OK {
		t.Error("InvP[0] should be absent: it lies past the truncation point")
	}
	if data.NIBP.OK {
		t.Error("NIBP should be absent: it lies past the truncation point")
	}
	if data.FlowVol.OK {
		t.Error("FlowVol should be absent: it lies past the truncation point")
	}
}

func TestDecodePhysiological_ShortSubrecord(t *testing.T) {
	_, err := DecodePhysiological([]byte{1, 2, 3}, uint8(PhdbDispl))
	if err == nil {
		t.Fatal("expected an error for a subrecord shorter than its own timestamp")
	}
}

func TestDecodePhysiological_ClassifierWord(t *testing.T) {
	// With a full 1088-byte subrecord the classifier word overrides the
	// caller-supplied descriptor type.
	subrecord := make([]byte, basicSubrecordSize)
	putU32(subrecord, 0, 1700000000)
	classifier := uint16(PhdbTrend60s) | uint16(PhdbBasic)<<12
	putU16(subrecord, subrecordHeaderSize+classDataSize, classifier)

	data, err := DecodePhysiological(subrecord, uint8(PhdbDispl))
	if err != nil {
		t.Fatalf("DecodePhysiological: %v", err)
	}
	if data.Subtype != PhdbTrend60s {
		t.Errorf("Subtype = %v, want PhdbTrend60s (from classifier word)", data.Subtype)
	}
	if data.Class != PhdbBasic {
		t.Errorf("Class = %v, want PhdbBasic", data.Class)
	}
}
