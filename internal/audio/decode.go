package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"
	riff "github.com/youpy/go-riff"
	wav "github.com/youpy/go-wav"
)

// DecodeFile reads the file at path fully into memory and decodes it. MP3 is
// attempted first, then WAV; whichever decoder accepts the stream wins.
func DecodeFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	if src, err := decodeMP3(bytes.NewReader(data)); err == nil {
		return src, nil
	}
	if src, err := decodeWAV(bytes.NewReader(data)); err == nil {
		return src, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	return nil, fmt.Errorf("unsupported or corrupt audio file (%s)", ext)
}

// decodeMP3 decodes the stream with go-mp3, which always emits interleaved
// 16-bit little-endian stereo at the source sample rate.
func decodeMP3(rs io.ReadSeeker) (*Source, error) {
	dec, err := mp3.NewDecoder(rs)
	if err != nil {
		return nil, err
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}

	frames := len(pcm) / 4 // 2 channels x 2 bytes
	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := 0; i < frames; i++ {
		left[i] = int16ToFloat(pcm[i*4], pcm[i*4+1])
		right[i] = int16ToFloat(pcm[i*4+2], pcm[i*4+3])
	}
	if frames == 0 {
		return nil, fmt.Errorf("mp3 stream contains no samples")
	}
	return &Source{SampleRate: dec.SampleRate(), Channels: [][]float32{left, right}}, nil
}

// decodeWAV decodes the stream with youpy/go-wav, normalizing whatever sample
// width the file uses into float32 per channel.
func decodeWAV(in riff.RIFFReader) (*Source, error) {
	r := wav.NewReader(in)
	format, err := r.Format()
	if err != nil {
		return nil, err
	}
	ch := int(format.NumChannels)
	if ch < 1 {
		return nil, fmt.Errorf("wav reports %d channels", ch)
	}

	channels := make([][]float32, ch)
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, s := range samples {
			for c := 0; c < ch; c++ {
				channels[c] = append(channels[c], float32(r.FloatValue(s, uint(c))))
			}
		}
	}
	if len(channels[0]) == 0 {
		return nil, fmt.Errorf("wav stream contains no samples")
	}
	return &Source{SampleRate: int(format.SampleRate), Channels: channels}, nil
}

func int16ToFloat(lo, hi byte) float32 {
	v := int16(uint16(lo) | uint16(hi)<<8)
	return float32(v) / 32768
}
