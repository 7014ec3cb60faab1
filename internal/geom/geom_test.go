package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want LengthValue
	}{
		{in: "20px", want: Px(20)},
		{in: "-5%", want: Percent(-5)},
		{in: "12", want: Px(12)},
		{in: " 7.5% ", want: Percent(7.5)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLength(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLength("abc")
	assert.Error(t, err)
	_, err = ParseLength("")
	assert.Error(t, err)
}

func TestLengthValue_ToPx(t *testing.T) {
	assert.Equal(t, 20, Px(20).ToPx(1000))
	assert.Equal(t, 50, Percent(5).ToPx(1000))
	assert.InDelta(t, 0.1, Px(100).ToFraction(1000), 1e-9)
	assert.InDelta(t, 0.05, Percent(5).ToFraction(1000), 1e-9)
	assert.Zero(t, Px(100).ToFraction(0))
}

func TestRect_ApplyDelta(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 200, Height: 100}

	grown := r.ApplyDelta(UniformDelta(Px(10)))
	assert.Equal(t, Rect{X: 90, Y: 90, Width: 220, Height: 120}, grown)

	shrunk := r.ApplyInverseDelta(UniformDelta(Px(10)))
	assert.Equal(t, Rect{X: 110, Y: 110, Width: 180, Height: 80}, shrunk)
}

func TestRect_CenterAndContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	assert.Equal(t, Point{X: 960, Y: 540}, r.Center())
	assert.True(t, r.ContainsPoint(Point{X: 0, Y: 0}))
	assert.False(t, r.ContainsPoint(Point{X: 1920, Y: 10}))
}

func TestLengthValue_TextRoundTrip(t *testing.T) {
	var l LengthValue
	require.NoError(t, l.UnmarshalText([]byte("15%")))
	text, err := l.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "15%", string(text))
}
