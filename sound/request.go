// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"
	"math"
)

// Request describes what to play and how. Build one with NewRequest so the
// defaults are sane; the zero value fails validation.
type Request struct {
	Sound    SoundID
	Category Category
	Preset   Preset

	// Pitch is sampled log-uniformly between MinPitch and MaxPitch.
	MinPitch float64
	MaxPitch float64

	// Volume is the per-call factor in [0,1].
	Volume float64
	Loop   bool

	// Is3D enables Position and SpatialBlend. Flat requests play at the
	// origin with no spatialisation.
	Is3D         bool
	Position     Vec3
	MinDistance  float64
	MaxDistance  float64
	Spread       float64
	SpatialBlend float64
}

// NewRequest returns a flat request for id at full volume and unit pitch.
// Its SpatialBlend is 1, which only matters once the request is made 3D.
func NewRequest(id SoundID) Request {
	return Request{
		Sound:        id,
		Category:     CategoryDefault,
		Preset:       PresetDefault,
		MinPitch:     1,
		MaxPitch:     1,
		Volume:       1,
		MaxDistance:  math.Inf(1),
		SpatialBlend: 1,
	}
}

// WithPitch sets a fixed pitch.
func (r Request) WithPitch(p float64) Request {
	r.MinPitch, r.MaxPitch = p, p
	return r
}

// WithPitchRange sets the range pitch is sampled from.
func (r Request) WithPitchRange(minPitch, maxPitch float64) Request {
	r.MinPitch, r.MaxPitch = minPitch, maxPitch
	return r
}

// At turns the request into a 3D request at pos.
func (r Request) At(pos Vec3) Request {
	r.Is3D = true
	r.Position = pos
	return r
}

// Validate reports why the request cannot be played. Every failure wraps
// ErrInvalidRequest.
func (r Request) Validate() error {
	switch {
	case math.IsNaN(r.MinPitch) || math.IsNaN(r.MaxPitch):
		return fmt.Errorf("%w: pitch is NaN", ErrInvalidRequest)
	case r.MinPitch <= 0:
		return fmt.Errorf("%w: min pitch %v must be positive", ErrInvalidRequest, r.MinPitch)
	case r.MaxPitch < r.MinPitch:
		return fmt.Errorf("%w: max pitch %v below min pitch %v", ErrInvalidRequest, r.MaxPitch, r.MinPitch)
	case math.IsInf(r.MaxPitch, 1):
		return fmt.Errorf("%w: max pitch is infinite", ErrInvalidRequest)
	case !r.Category.Valid():
		return fmt.Errorf("%w: %s", ErrInvalidRequest, r.Category)
	case !r.Preset.Valid():
		return fmt.Errorf("%w: %s", ErrInvalidRequest, r.Preset)
	}

	if r.Is3D {
		switch {
		case r.MinDistance < 0 || math.IsNaN(r.MinDistance):
			return fmt.Errorf("%w: min distance %v", ErrInvalidRequest, r.MinDistance)
		case r.MaxDistance < r.MinDistance || math.IsNaN(r.MaxDistance):
			return fmt.Errorf("%w: max distance %v below min distance %v", ErrInvalidRequest, r.MaxDistance, r.MinDistance)
		}
	}

	return nil
}

// WorldPosition is Position for 3D requests and the origin otherwise.
func (r Request) WorldPosition() Vec3 {
	if !r.Is3D {
		return Vec3{}
	}

	return r.Position
}

// Spatial is SpatialBlend for 3D requests and 0 otherwise.
func (r Request) Spatial() float64 {
	if !r.Is3D {
		return 0
	}

	return r.SpatialBlend
}

// SamplePitch maps u in [0,1) onto [minPitch,maxPitch] geometrically, so
// that the log of the result is uniform. The result is clamped into the
// range to absorb rounding.
func SamplePitch(minPitch, maxPitch, u float64) float64 {
	if maxPitch <= minPitch {
		return minPitch
	}

	p := minPitch * math.Exp(u*math.Log(maxPitch/minPitch))

	return min(max(p, minPitch), maxPitch)
}
