// Package audio loads an audio file into the in-memory sample buffer the
// editor works on. MP3 and WAV are supported; the format is detected from the
// stream content, not the file extension.
package audio

// Source is the decoded audio a session edits. It is immutable after
// decoding; every other component treats it as read-only.
type Source struct {
	SampleRate int
	Channels   [][]float32
}

// Duration is the track length in seconds, derived from the first channel.
func (s *Source) Duration() float64 {
	if s == nil || s.SampleRate <= 0 || len(s.Channels) == 0 {
		return 0
	}
	return float64(len(s.Channels[0])) / float64(s.SampleRate)
}

// Valid reports whether the source can be visualized and played.
func (s *Source) Valid() bool {
	return s != nil && s.SampleRate > 0 && len(s.Channels) > 0 && len(s.Channels[0]) > 0
}

// VisualChannel returns the single channel used for waveform rendering.
// Only one channel is ever visualized.
func (s *Source) VisualChannel() []float32 {
	if !s.Valid() {
		return nil
	}
	return s.Channels[0]
}
