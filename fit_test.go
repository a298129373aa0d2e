package annotext

import "testing"

// TestFitRect covers every content mode against one asymmetric bounds.
func TestFitRect(t *testing.T) {
	bounds := Rect{X: 10, Y: 20, W: 100, H: 50}
	content := Sz(40, 10) // 4:1, wider than the 2:1 bounds

	tests := []struct {
		name string
		mode ContentMode
		want Rect
	}{
		{"fill", ModeFill, bounds},
		// min scale 2.5 comes from the width axis.
		{"aspectFit", ModeAspectFit, Rect{X: 10, Y: 32.5, W: 100, H: 25}},
		// max scale 5 comes from the height axis.
		{"aspectFill", ModeAspectFill, Rect{X: -40, Y: 20, W: 200, H: 50}},
		{"center", ModeCenter, Rect{X: 40, Y: 40, W: 40, H: 10}},
		{"top", ModeTop, Rect{X: 40, Y: 20, W: 40, H: 10}},
		{"bottom", ModeBottom, Rect{X: 40, Y: 60, W: 40, H: 10}},
		{"left", ModeLeft, Rect{X: 10, Y: 40, W: 40, H: 10}},
		{"right", ModeRight, Rect{X: 70, Y: 40, W: 40, H: 10}},
		{"topLeft", ModeTopLeft, Rect{X: 10, Y: 20, W: 40, H: 10}},
		{"topRight", ModeTopRight, Rect{X: 70, Y: 20, W: 40, H: 10}},
		{"bottomLeft", ModeBottomLeft, Rect{X: 10, Y: 60, W: 40, H: 10}},
		{"bottomRight", ModeBottomRight, Rect{X: 70, Y: 60, W: 40, H: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitRect(tt.mode, content, bounds)
			if got != tt.want {
				t.Errorf("FitRect(%v) = %+v, want %+v", tt.mode, got, tt.want)
			}
		})
	}
}

// TestFitRect_TallContent tests the aspect modes with content narrower
// than the bounds, flipping which axis constrains the scale.
func TestFitRect_TallContent(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, W: 100, H: 50}
	content := Sz(10, 40)

	got := FitRect(ModeAspectFit, content, bounds)
	want := Rect{X: 43.75, Y: 0, W: 12.5, H: 50}
	if got != want {
		t.Errorf("aspect fit = %+v, want %+v", got, want)
	}

	got = FitRect(ModeAspectFill, content, bounds)
	want = Rect{X: 0, Y: -175, W: 100, H: 400}
	if got != want {
		t.Errorf("aspect fill = %+v, want %+v", got, want)
	}
}

// TestFitRect_EmptyContent tests that degenerate content collapses to
// the bounds center under the aspect modes but still fills under Fill.
func TestFitRect_EmptyContent(t *testing.T) {
	bounds := Rect{X: 10, Y: 10, W: 20, H: 20}

	got := FitRect(ModeAspectFit, Sz(0, 0), bounds)
	if got.W != 0 || got.H != 0 || got.X != 20 || got.Y != 20 {
		t.Errorf("empty content aspect fit = %+v, want centered zero-size rect", got)
	}

	if got := FitRect(ModeFill, Sz(0, 0), bounds); got != bounds {
		t.Errorf("empty content fill = %+v, want bounds", got)
	}
}
