// Package cuts owns the set of time-coded cut points placed on the track and
// the hit-testing used to toggle them from pointer clicks.
package cuts

import (
	"fmt"
	"math"
	"sort"
)

// DefaultHitThreshold is the pixel tolerance used when a caller does not
// supply its own.
const DefaultHitThreshold = 10

// Point is a single cut marker. ID is opaque, unique for the lifetime of the
// store, and never reused; only Time may change after creation.
type Point struct {
	ID   string
	Time float64
}

// Store keeps cut points for one audio source. Insertion order is the
// canonical order; presentation sorting always happens on a copy. Not safe
// for concurrent use — all access runs on the UI thread.
type Store struct {
	duration float64
	points   []Point
	nextID   int

	// OnChanged fires after every successful mutation.
	OnChanged func()
}

// NewStore creates a store for a track of the given duration in seconds.
func NewStore(duration float64) *Store {
	return &Store{duration: duration}
}

func (s *Store) clamp(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > s.duration {
		return s.duration
	}
	return t
}

func (s *Store) notify() {
	if s.OnChanged != nil {
		s.OnChanged()
	}
}

// Add creates a cut point at the given time, clamped to the track bounds.
// Multiple points may share a time value; duplicates are not rejected.
func (s *Store) Add(t float64) Point {
	s.nextID++
	p := Point{ID: fmt.Sprintf("cut-%d", s.nextID), Time: s.clamp(t)}
	s.points = append(s.points, p)
	s.notify()
	return p
}

// Remove deletes the point with the given id. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	for i, p := range s.points {
		if p.ID == id {
			s.points = append(s.points[:i], s.points[i+1:]...)
			s.notify()
			return
		}
	}
}

// Update moves the point with the given id to a new time, clamped to the
// track bounds. Unknown ids are ignored.
func (s *Store) Update(id string, t float64) {
	for i := range s.points {
		if s.points[i].ID == id {
			s.points[i].Time = s.clamp(t)
			s.notify()
			return
		}
	}
}

// Len reports the number of cut points.
func (s *Store) Len() int { return len(s.points) }

// Sorted returns the points ordered ascending by time. The canonical slice is
// never reordered; ties keep their insertion order so repeated renders are
// stable.
func (s *Store) Sorted() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// HitTest returns the first point in presentation order whose pixel position
// (under timeToX) lies within threshold of x.
func (s *Store) HitTest(x, threshold float64, timeToX func(float64) float64) (Point, bool) {
	for _, p := range s.Sorted() {
		if math.Abs(timeToX(p.Time)-x) <= threshold {
			return p, true
		}
	}
	return Point{}, false
}

// ToggleAt implements the single-gesture click policy: a click within
// threshold of an existing marker removes it, a click anywhere else adds a
// marker at that pixel's time. The affected point and whether it was removed
// are returned.
func (s *Store) ToggleAt(x, threshold float64, timeToX func(float64) float64, xToTime func(float64) float64) (Point, bool) {
	if p, ok := s.HitTest(x, threshold, timeToX); ok {
		s.Remove(p.ID)
		return p, true
	}
	return s.Add(xToTime(x)), false
}
