// Package audio holds the system output level used to animate the media
// visualizer. It plays no part in deciding what the island shows.
package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"
)

// Meter stores the latest peak level. Writers are audio capture callbacks on
// their own threads; the frame tick reads it.
type Meter struct {
	bits atomic.Uint64
}

// Set records a level, clamped to [0, 1].
func (m *Meter) Set(level float64) {
	if math.IsNaN(level) || level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	m.bits.Store(math.Float64bits(level))
}

// Level returns the last recorded level.
func (m *Meter) Level() float64 {
	return math.Float64frombits(m.bits.Load())
}

// PeakLevel returns the peak absolute amplitude of little-endian signed 16-bit
// PCM, reading one sample every stride bytes (stride 4 reads the left channel
// of interleaved stereo).
func PeakLevel(pcm []byte, stride int) float64 {
	if stride < 2 {
		stride = 2
	}
	peak := 0.0
	for i := 0; i+1 < len(pcm); i += stride {
		sample := int16(binary.LittleEndian.Uint16(pcm[i:]))
		v := math.Abs(float64(sample) / 32768.0)
		if v > peak {
			peak = v
		}
	}
	return peak
}

// BarCount is the number of visualizer bars.
const BarCount = 5

// MinBarHeight is the resting height of a bar.
const MinBarHeight = 4.0

// bar shape: relative weight, swing, angular speed, phase, and whether the
// swing follows cosine instead of sine. The middle bar is tallest.
var bars = [BarCount]struct {
	base, swing, speed, phase float64
	cosine                    bool
}{
	{0.5, 0.2, 14, 3, false},
	{0.7, 0.25, 18, 1, true},
	{0.9, 0.3, 20, 0, false},
	{0.7, 0.25, 16, 2, true},
	{0.5, 0.2, 12, 4, false},
}

// Bars computes visualizer bar heights for level at time t.
func Bars(level float64, t time.Time) [BarCount]float64 {
	secs := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
	baseH := MinBarHeight + level*40

	var out [BarCount]float64
	for i, b := range bars {
		wave := math.Sin(secs*b.speed + b.phase)
		if b.cosine {
			wave = math.Cos(secs*b.speed + b.phase)
		}
		out[i] = math.Max(MinBarHeight, baseH*(b.base+b.swing*wave))
	}
	return out
}
