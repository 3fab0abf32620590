package core

import "testing"

func TestOrientationOf(t *testing.T) {
	tests := []struct {
		d    Point
		want Orientation
	}{
		{Point{0, 0}, OrientNone},
		{Point{5, 0}, OrientRight},
		{Point{-5, 2}, OrientLeft},
		{Point{1, -7}, OrientUp},
		{Point{-2, 9}, OrientDown},
		{Point{3, 3}, OrientRight},
		{Point{-3, -3}, OrientLeft},
	}
	for _, tt := range tests {
		if got := OrientationOf(tt.d); got != tt.want {
			t.Errorf("OrientationOf(%v): expected %v, got %v", tt.d, tt.want, got)
		}
	}
}

func TestRectOverlapsTouching(t *testing.T) {
	a := RectAt(0, 0, 10, 10)
	b := RectAt(10, 0, 10, 10)
	c := RectAt(21, 0, 5, 5)

	if !a.Overlaps(b) {
		t.Error("Expected touching rects to overlap")
	}
	if a.Overlaps(c) {
		t.Error("Expected separated rects not to overlap")
	}
	if !a.Contains(Point{9, 9}) || a.Contains(Point{10, 10}) {
		t.Error("Expected Max to be exclusive")
	}
}

func TestParseOrientationRoundTrip(t *testing.T) {
	for _, o := range []Orientation{OrientUp, OrientDown, OrientLeft, OrientRight} {
		if got := ParseOrientation(o.String()); got != o {
			t.Errorf("Expected %v, got %v", o, got)
		}
	}
	if got := ParseOrientation("sideways"); got != OrientNone {
		t.Errorf("Expected none for unknown name, got %v", got)
	}
}
