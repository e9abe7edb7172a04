package playback

import (
	"io"
	"testing"
)

func framePCM(frames ...int16) []byte {
	b := make([]byte, len(frames)*4)
	for i, f := range frames {
		b[i*4] = byte(f)
		b[i*4+1] = byte(uint16(f) >> 8)
		b[i*4+2] = byte(f)
		b[i*4+3] = byte(uint16(f) >> 8)
	}
	return b
}

func TestPCMReaderSequential(t *testing.T) {
	r := &pcmReader{pcm: framePCM(1, 2, 3), pos: 0, step: 1}
	out := make([]byte, 12)
	n, err := r.Read(out)
	if err != nil || n != 12 {
		t.Fatalf("Read = (%d, %v), want (12, nil)", n, err)
	}
	if out[0] != 1 || out[4] != 2 || out[8] != 3 {
		t.Fatalf("frames out of order: % x", out)
	}
	if _, err := r.Read(out); err != io.EOF {
		t.Fatalf("second Read err = %v, want EOF", err)
	}
}

func TestPCMReaderDoubleRateSkipsFrames(t *testing.T) {
	r := &pcmReader{pcm: framePCM(1, 2, 3, 4), pos: 0, step: 2}
	out := make([]byte, 16)
	n, err := r.Read(out)
	if err != nil || n != 8 {
		t.Fatalf("Read = (%d, %v), want (8, nil)", n, err)
	}
	if out[0] != 1 || out[4] != 3 {
		t.Fatalf("rate 2 should emit frames 1,3; got % x", out[:8])
	}
}

func TestPCMReaderOffsetStart(t *testing.T) {
	r := &pcmReader{pcm: framePCM(1, 2, 3), pos: 2, step: 1}
	out := make([]byte, 4)
	n, err := r.Read(out)
	if err != nil || n != 4 {
		t.Fatalf("Read = (%d, %v), want (4, nil)", n, err)
	}
	if out[0] != 3 {
		t.Fatalf("offset read got frame %d, want 3", out[0])
	}
}

func TestPCMReaderShortBufferIsNotEOF(t *testing.T) {
	r := &pcmReader{pcm: framePCM(1, 2), pos: 0, step: 1}

	// A buffer smaller than one frame must not end the stream while frames
	// remain.
	tiny := make([]byte, 2)
	n, err := r.Read(tiny)
	if n != 0 || err != nil {
		t.Fatalf("short-buffer Read = (%d, %v), want (0, nil)", n, err)
	}

	out := make([]byte, 8)
	n, err = r.Read(out)
	if err != nil || n != 8 {
		t.Fatalf("full Read after short buffer = (%d, %v), want (8, nil)", n, err)
	}
	if out[0] != 1 || out[4] != 2 {
		t.Fatalf("frames lost after short-buffer read: % x", out)
	}

	if n, err := r.Read(tiny); n != 0 || err != io.EOF {
		t.Fatalf("drained short-buffer Read = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestPutSampleClamps(t *testing.T) {
	b := make([]byte, 2)
	putSample(b, 2.0)
	if v := int16(uint16(b[0]) | uint16(b[1])<<8); v != 32767 {
		t.Errorf("putSample(2.0) = %d, want 32767", v)
	}
	putSample(b, -2.0)
	if v := int16(uint16(b[0]) | uint16(b[1])<<8); v != -32767 {
		t.Errorf("putSample(-2.0) = %d, want -32767", v)
	}
	putSample(b, 0)
	if v := int16(uint16(b[0]) | uint16(b[1])<<8); v != 0 {
		t.Errorf("putSample(0) = %d, want 0", v)
	}
}
