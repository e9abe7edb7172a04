// Package waveform reduces raw audio samples to per-pixel peak data and maps
// between track time and canvas pixel coordinates.
package waveform

// Peak holds the amplitude extremes of the samples covered by one pixel
// column. Values stay within [-1, 1].
type Peak struct {
	Min float32
	Max float32
}

// Downsample reduces samples to width (min, max) pairs, one per pixel column.
// A single O(N) pass; callers recompute on every zoom or resize since that is
// cheap next to the repaint itself. Columns past the end of the sample data
// keep the degenerate +1/-1 init, which draws as a flat center line.
func Downsample(samples []float32, width int) []Peak {
	if width < 1 {
		return nil
	}
	peaks := make([]Peak, width)
	for i := range peaks {
		peaks[i] = Peak{Min: 1, Max: -1}
	}
	n := len(samples)
	if n == 0 {
		return peaks
	}
	step := (n + width - 1) / width
	if step < 1 {
		step = 1
	}
	for i := 0; i < width; i++ {
		lo := i * step
		hi := lo + step
		if hi > n {
			hi = n
		}
		for j := lo; j < hi; j++ {
			s := samples[j]
			if s < peaks[i].Min {
				peaks[i].Min = s
			}
			if s > peaks[i].Max {
				peaks[i].Max = s
			}
		}
	}
	return peaks
}

// AmplitudeToY maps an amplitude in [-1, 1] onto a pixel row: -1 at the
// bottom, +1 at the top, 0 on the vertical center line.
func AmplitudeToY(amplitude float32, height int) float64 {
	return (1 + float64(amplitude)) * float64(height) / 2
}
