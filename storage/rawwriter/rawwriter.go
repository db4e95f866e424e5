// Package rawwriter logs raw wire frames to a gzip-compressed file, one
// length-prefixed record per frame with an xxhash64 digest for
// integrity checking on replay.
package rawwriter

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
)

// Writer appends raw frames to a gzip-compressed log.
//
// Record layout: 4-byte little-endian length, the frame bytes, 8-byte
// little-endian xxhash64 digest of the frame bytes.
type Writer struct {
	f  *os.File
	gz *gzip.Writer
	bw *bufio.Writer
}

// Create opens path for writing, truncating any existing file.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("rawwriter: create %s: %w", path, err)
	}
	gz := gzip.NewWriter(f)
	return &Writer{f: f, gz: gz, bw: bufio.NewWriter(gz)}, nil
}

// WriteFrame appends one raw frame to the log. frame must be the
// delimited, byte-stuffed bytes exactly as they appeared on the wire
// (opening and closing 0x7E included): that is what replay feeds back
// into a dri.FrameParser.
func (w *Writer) WriteFrame(frame []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(frame)))
	if _, err := w.bw.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := w.bw.Write(frame); err != nil {
		return err
	}
	var sumBuf [8]byte
	binary.LittleEndian.PutUint64(sumBuf[:], xxhash.Sum64(frame))
	_, err := w.bw.Write(sumBuf[:])
	return err
}

// Close flushes and closes the underlying gzip stream and file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.gz.Close()
		w.f.Close()
		return err
	}
	if err := w.gz.Close(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// Reader replays a raw frame log written by Writer, verifying each
// frame's digest.
type Reader struct {
	gz *gzip.Reader
	f  *os.File
}

// Open opens path for replay.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rawwriter: open %s: %w", path, err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("rawwriter: %s is not a gzip log: %w", path, err)
	}
	return &Reader{gz: gz, f: f}, nil
}

// ErrDigestMismatch is returned by ReadFrame when a frame's stored
// digest does not match its bytes.
var ErrDigestMismatch = fmt.Errorf("rawwriter: frame digest mismatch")

// ReadFrame reads the next frame, or io.EOF when the log is exhausted.
func (r *Reader) ReadFrame() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.gz, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	frame := make([]byte, n)
	if _, err := io.ReadFull(r.gz, frame); err != nil {
		return nil, err
	}
	var sumBuf [8]byte
	if _, err := io.ReadFull(r.gz, sumBuf[:]); err != nil {
		return nil, err
	}
	want := binary.LittleEndian.Uint64(sumBuf[:])
	if xxhash.Sum64(frame) != want {
		return nil, ErrDigestMismatch
	}
	return frame, nil
}

// Close closes the underlying gzip stream and file.
func (r *Reader) Close() error {
	if err := r.gz.Close(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

// AsByteSource adapts a Reader to dri.ByteSource: each call returns one
// whole frame's bytes, still delimited and stuffed exactly as WriteFrame
// received them, so they can be fed straight into a dri.FrameParser
// without any re-stuffing step.
func AsByteSource(r *Reader) func() ([]byte, error) {
	return r.ReadFrame
}
