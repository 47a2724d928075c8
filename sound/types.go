// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"
	"math"
	"strings"
)

// SoundID names a catalogue entry.
type SoundID uint32

// Category is a mixing bus. Every category except Default carries its own
// volume on top of the global volume.
type Category int

const (
	CategoryDefault Category = iota
	CategoryMusic
	CategoryEffect
	CategoryUI
	CategoryAmbient

	numCategories
)

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{CategoryDefault, CategoryMusic, CategoryEffect, CategoryUI, CategoryAmbient}
}

func (c Category) Valid() bool { return c >= 0 && c < numCategories }

// IsGlobal reports whether the category is mixed by the global volume only.
func (c Category) IsGlobal() bool { return c == CategoryDefault }

func (c Category) String() string {
	switch c {
	case CategoryDefault:
		return "default"
	case CategoryMusic:
		return "music"
	case CategoryEffect:
		return "effect"
	case CategoryUI:
		return "ui"
	case CategoryAmbient:
		return "ambient"
	}

	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory is the inverse of Category.String. Matching is case
// insensitive.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}

	return CategoryDefault, fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, s)
}

// Preset selects the post-processing chain of a channel and the pool
// partition it lives in.
type Preset int

const (
	PresetDefault Preset = iota
	PresetFiltered
	PresetAmbient

	numPresets
)

// AllPresets lists every preset in declaration order.
func AllPresets() []Preset {
	return []Preset{PresetDefault, PresetFiltered, PresetAmbient}
}

func (p Preset) Valid() bool { return p >= 0 && p < numPresets }

func (p Preset) String() string {
	switch p {
	case PresetDefault:
		return "default"
	case PresetFiltered:
		return "filtered"
	case PresetAmbient:
		return "ambient"
	}

	return fmt.Sprintf("preset(%d)", int(p))
}

// ParsePreset is the inverse of Preset.String. Matching is case insensitive.
func ParsePreset(s string) (Preset, error) {
	for _, p := range AllPresets() {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}

	return PresetDefault, fmt.Errorf("%w: unknown preset %q", ErrInvalidRequest, s)
}

// Vec3 is a world space position.
type Vec3 struct {
	X, Y, Z float64
}

// Distance returns the euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
