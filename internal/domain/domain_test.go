package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStyleResolve(t *testing.T) {
	cases := map[Style]Style{
		"romantic":   StyleRomantic,
		"cartoon":    StyleCartoon,
		" Elegant ":  StyleElegant,
		"WHIMSICAL":  StyleWhimsical,
		"":           StyleRomantic,
		"cyberpunk":  StyleRomantic,
		"watercolor": StyleRomantic,
	}
	for input, want := range cases {
		assert.Equal(t, want, input.Resolve(), "style %q", input)
	}
}

func TestImageDataURL(t *testing.T) {
	img := Image{MIMEType: "image/png", Base64: "iVBORw0KGgo="}
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", img.DataURL())
}

func TestNewCountdown(t *testing.T) {
	target := time.Date(2026, 12, 12, 10, 0, 0, 0, time.UTC)
	now := target.Add(-(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second))

	c := NewCountdown(target, now)
	assert.Equal(t, 2, c.Days)
	assert.Equal(t, 3, c.Hours)
	assert.Equal(t, 4, c.Minutes)
	assert.Equal(t, 5, c.Seconds)
	assert.False(t, c.Started)
}

func TestNewCountdownAfterTarget(t *testing.T) {
	target := time.Date(2026, 12, 12, 10, 0, 0, 0, time.UTC)

	c := NewCountdown(target, target.Add(time.Minute))
	assert.True(t, c.Started)
	assert.Zero(t, c.Days)
	assert.Zero(t, c.Seconds)
}
