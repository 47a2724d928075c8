// SPDX-License-Identifier: EPL-2.0

package sound

// Pool keeps one append-only partition of channels per preset. It never
// shrinks and never refuses: when a partition has no free channel it grows
// by one. Simultaneous sound counts are small, so unbounded growth is the
// price for never dropping a play request.
//
// A Pool is not safe for concurrent use; the Manager owns it.
type Pool struct {
	factory    func(Preset) *Channel
	partitions [numPresets][]*Channel
}

// NewPool returns an empty pool that builds channels with factory.
func NewPool(factory func(Preset) *Channel) *Pool {
	return &Pool{factory: factory}
}

// Acquire returns the first free, unreserved channel of preset, growing the
// partition when there is none. preset must be valid.
func (p *Pool) Acquire(preset Preset) *Channel {
	for _, ch := range p.partitions[preset] {
		if ch.state == StateFree && !ch.reserved {
			return ch
		}
	}

	ch := p.factory(preset)
	p.partitions[preset] = append(p.partitions[preset], ch)

	return ch
}

// Len returns the partition size of preset.
func (p *Pool) Len(preset Preset) int {
	if !preset.Valid() {
		return 0
	}

	return len(p.partitions[preset])
}

// Channels returns a copy of the partition of preset.
func (p *Pool) Channels(preset Preset) []*Channel {
	if !preset.Valid() {
		return nil
	}

	return append([]*Channel(nil), p.partitions[preset]...)
}

// Each calls fn for every channel, partition by partition in creation order.
func (p *Pool) Each(fn func(*Channel)) {
	for _, part := range p.partitions {
		for _, ch := range part {
			fn(ch)
		}
	}
}
