package canvas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoomAtKeepsCursorAnchored(t *testing.T) {
	before := DefaultViewport()
	cursor := Pt(100, 100)

	after := before.ZoomAt(cursor, 1)

	assert.InDelta(t, 1.1, after.Zoom, 1e-9)
	assert.InDelta(t, -10, after.Offset.X, 1e-9)
	assert.InDelta(t, -10, after.Offset.Y, 1e-9)

	b0 := ToBoardSpace(cursor, Point{}, before)
	b1 := ToBoardSpace(cursor, Point{}, after)
	assert.InDelta(t, b0.X, b1.X, 1e-9)
	assert.InDelta(t, b0.Y, b1.Y, 1e-9)
}

func TestZoomAtAnchorHoldsAcrossSteps(t *testing.T) {
	v := Viewport{Offset: Pt(37, -12), Zoom: 0.8}
	cursor := Pt(412, 95)
	anchor := ToBoardSpace(cursor, Point{}, v)

	for _, dir := range []int{1, 1, -1, 1, -1, -1, -1, 1} {
		v = v.ZoomAt(cursor, dir)
		got := ToBoardSpace(cursor, Point{}, v)
		assert.InDelta(t, anchor.X, got.X, 1e-9)
		assert.InDelta(t, anchor.Y, got.Y, 1e-9)
	}
}

func TestZoomStaysClamped(t *testing.T) {
	v := DefaultViewport()
	for i := 0; i < 50; i++ {
		v = v.ZoomAt(Pt(float64(i), 10), 1)
		assert.LessOrEqual(t, v.Zoom, MaxZoom)
	}
	assert.Equal(t, MaxZoom, v.Zoom)

	for i := 0; i < 50; i++ {
		v = v.ZoomAt(Pt(5, float64(i)), -1)
		assert.GreaterOrEqual(t, v.Zoom, MinZoom)
	}
	assert.Equal(t, MinZoom, v.Zoom)
}

func TestZoomAtAtBoundIsNoop(t *testing.T) {
	v := Viewport{Offset: Pt(3, 4), Zoom: MaxZoom}
	assert.Equal(t, v, v.ZoomAt(Pt(100, 100), 1))
	assert.Equal(t, v, v.ZoomAt(Pt(100, 100), 0))
}

func TestZoomAtNormalizesDirection(t *testing.T) {
	v := DefaultViewport()
	assert.Equal(t, v.ZoomAt(Pt(1, 1), 1), v.ZoomAt(Pt(1, 1), 7))
	assert.Equal(t, v.ZoomAt(Pt(1, 1), -1), v.ZoomAt(Pt(1, 1), -3))
}

func TestSetZoomClampsAndKeepsOffset(t *testing.T) {
	v := Viewport{Offset: Pt(10, 20), Zoom: 1}

	tests := []struct {
		in   float64
		want float64
	}{
		{in: 2, want: 2},
		{in: 10, want: MaxZoom},
		{in: 0, want: MinZoom},
		{in: -4, want: MinZoom},
		{in: math.NaN(), want: DefaultZoom},
	}
	for _, tt := range tests {
		got := v.SetZoom(tt.in)
		assert.Equal(t, tt.want, got.Zoom)
		assert.Equal(t, v.Offset, got.Offset)
	}
}

func TestResetZoom(t *testing.T) {
	v := Viewport{Offset: Pt(-4, 9), Zoom: 2.3}.ResetZoom()
	assert.Equal(t, Viewport{Offset: Pt(-4, 9), Zoom: 1}, v)
}

func TestPanIgnoresZoom(t *testing.T) {
	v := Viewport{Offset: Pt(1, 2), Zoom: 3}.Pan(10, -5)
	assert.Equal(t, Pt(11, -3), v.Offset)
	assert.Equal(t, 3.0, v.Zoom)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, DefaultViewport(), Viewport{}.Normalize())
	assert.Equal(t, MaxZoom, Viewport{Zoom: 12}.Normalize().Zoom)
	assert.Equal(t, Point{}, Viewport{Offset: Pt(math.Inf(1), math.NaN()), Zoom: 1}.Normalize().Offset)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 110, DefaultViewport().ZoomAt(Pt(0, 0), 1).Percent())
}
