package walk

// ZoomHorizon scales sprite size and speed linearly with screen y
// Scale is MinScale at HorizonY and MaxScale at BaseY, clamped outside
type ZoomHorizon struct {
	HorizonY int     `yaml:"horizon_y"`
	BaseY    int     `yaml:"base_y"`
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
}

// Scale returns the zoom factor at y, 1.0 for an unset horizon
func (z ZoomHorizon) Scale(y int) float64 {
	if z.MinScale == 0 && z.MaxScale == 0 {
		return 1.0
	}
	if z.BaseY == z.HorizonY {
		return z.MaxScale
	}
	t := float64(y-z.HorizonY) / float64(z.BaseY-z.HorizonY)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return z.MinScale + t*(z.MaxScale-z.MinScale)
}

// ScaleInt scales a pixel quantity at y, never below floor
func (z ZoomHorizon) ScaleInt(v, y, floor int) int {
	s := int(float64(v)*z.Scale(y) + 0.5)
	return max(s, floor)
}
