package audio

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pcm(samples ...int16) []byte {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}

func TestPeakLevel(t *testing.T) {
	assert.InDelta(t, 0.5, PeakLevel(pcm(100, -16384, 200), 2), 1e-9)
	assert.InDelta(t, 1.0, PeakLevel(pcm(-32768), 2), 1e-9)
	assert.Equal(t, 0.0, PeakLevel(nil, 2))

	// stride 4 only reads the even samples
	assert.InDelta(t, 100.0/32768.0, PeakLevel(pcm(100, 30000, 50, 30000), 4), 1e-9)
}

func TestMeter_Clamps(t *testing.T) {
	var m Meter
	assert.Equal(t, 0.0, m.Level())

	m.Set(0.42)
	assert.Equal(t, 0.42, m.Level())
	m.Set(3)
	assert.Equal(t, 1.0, m.Level())
	m.Set(-1)
	assert.Equal(t, 0.0, m.Level())
}

func TestBars(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	silent := Bars(0, now)
	for _, h := range silent {
		assert.GreaterOrEqual(t, h, MinBarHeight)
		assert.LessOrEqual(t, h, MinBarHeight*1.2)
	}

	loud := Bars(1, now)
	for _, h := range loud {
		assert.GreaterOrEqual(t, h, MinBarHeight)
		assert.LessOrEqual(t, h, 44*1.2)
	}
	assert.Greater(t, loud[2], MinBarHeight)
}
