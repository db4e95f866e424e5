package dri

import (
	"bytes"
	"testing"
)

func TestBuildPhdbRequest_S7(t *testing.T) {
	// build_phdb_request(subtype=1, interval=5, class_mask=0x000E)
	// yields a 49-byte payload; bytes 0-1 = 31 00 (total length),
	// 16-17 = 00 00 (main type), 40 = 01, 41-42 = 05 00, 43-46 = 0E 00 00 00.
	got := BuildPhdbRequest(PhdbDispl, 5, 0x000E)

	if len(got) != 49 {
		t.Fatalf("len = %d, want 49", len(got))
	}
	if !bytes.Equal(got[0:2], []byte{0x31, 0x00}) {
		t.Errorf("total length = % X, want 31 00", got[0:2])
	}
	if !bytes.Equal(got[16:18], []byte{0x00, 0x00}) {
		t.Errorf("main type = % X, want 00 00", got[16:18])
	}
	if got[40] != 0x01 {
		t.Errorf("subtype byte = %#x, want 0x01", got[40])
	}
	if !bytes.Equal(got[41:43], []byte{0x05, 0x00}) {
		t.Errorf("interval = % X, want 05 00", got[41:43])
	}
	if !bytes.Equal(got[43:47], []byte{0x0E, 0x00, 0x00, 0x00}) {
		t.Errorf("class mask = % X, want 0E 00 00 00", got[43:47])
	}
}

func TestBuildPhdbRequest_ClampsDisplayInterval(t *testing.T) {
	got := BuildPhdbRequest(PhdbDispl, 2, PhdbclReqAll)
	interval := parseLittleEndianUint16(got[41:43])
	if interval != 5 {
		t.Errorf("interval = %d, want clamped to 5", interval)
	}
}

func TestBuildPhdbRequest_ZeroIntervalNotClamped(t *testing.T) {
	got := BuildPhdbRequest(PhdbDispl, 0, 0)
	interval := parseLittleEndianUint16(got[41:43])
	if interval != 0 {
		t.Errorf("interval = %d, want 0 (stop request unclamped)", interval)
	}
}

func TestBuildTrend60sRequest_NotClamped(t *testing.T) {
	got := BuildTrend60sRequest(1, PhdbclReqAll)
	interval := parseLittleEndianUint16(got[41:43])
	if interval != 1 {
		t.Errorf("interval = %d, want 1 (trend interval not clamped)", interval)
	}
}

func TestBuildWaveformRequest_Shape(t *testing.T) {
	got, err := BuildWaveformRequest([]WaveformType{WaveEcg1, WavePleth}, 0)
	if err != nil {
		t.Fatalf("BuildWaveformRequest: %v", err)
	}
	if len(got) != HeaderSize+32 {
		t.Fatalf("len = %d, want %d", len(got), HeaderSize+32)
	}
	payload := got[HeaderSize:]
	if rt := parseLittleEndianUint16(payload[0:2]); rt != waveformReqStart {
		t.Errorf("request type = %d, want start", rt)
	}
	if payload[4] != uint8(WaveEcg1) || payload[5] != uint8(WavePleth) {
		t.Errorf("types = % X, want ECG1, Pleth", payload[4:6])
	}
	if payload[6] != terminatorType {
		t.Errorf("terminator byte = %#x, want 0xFF", payload[6])
	}
}

func TestBuildWaveformRequest_RejectsOverCap(t *testing.T) {
	// Invariant 6: ECG1(300) + ECG2(300) + Pleth(100) = 700 > 600.
	_, err := BuildWaveformRequest([]WaveformType{WaveEcg1, WaveEcg2, WavePleth}, 0)
	if err == nil {
		t.Fatal("expected an error for a waveform set exceeding 600 Hz")
	}
}

func TestBuildWaveformRequest_AllowsAtCap(t *testing.T) {
	_, err := BuildWaveformRequest([]WaveformType{WaveEcg1, WaveEcg2}, 0)
	if err != nil {
		t.Errorf("600 Hz exactly should be allowed, got %v", err)
	}
}

func TestBuildStopAll_ThreeFramesInOrder(t *testing.T) {
	reqs := BuildStopAll()
	if len(reqs) != 3 {
		t.Fatalf("got %d requests, want 3", len(reqs))
	}
	// displayed stop
	if reqs[0][40] != phdbReqDispl || parseLittleEndianUint16(reqs[0][41:43]) != 0 {
		t.Errorf("request 0 should be displayed-values stop")
	}
	// trend stop
	if reqs[1][40] != phdbReqTrend60s || parseLittleEndianUint16(reqs[1][41:43]) != 0 {
		t.Errorf("request 1 should be trend stop")
	}
	// waveform stop
	waveformPayload := reqs[2][HeaderSize:]
	if parseLittleEndianUint16(waveformPayload[0:2]) != waveformReqStop {
		t.Errorf("request 2 should be waveform stop")
	}
}
