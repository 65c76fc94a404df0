package boundary

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/config"
	"github.com/san-kum/rigidmc/internal/forcefield"
	"github.com/san-kum/rigidmc/internal/interaction"
	"github.com/san-kum/rigidmc/internal/topology"
)

func TestFromConfig(t *testing.T) {
	tests := []struct {
		cfg  config.BoxConfig
		name string
		area float64
	}{
		{config.BoxConfig{Kind: config.BoxPeriodic, Width: 4, Height: 5}, config.BoxPeriodic, 20},
		{config.BoxConfig{Kind: config.BoxWalls, Width: 2, Height: 3}, config.BoxWalls, 6},
		{config.BoxConfig{Kind: config.BoxPolygon, Polygon: [][2]float64{{0, 0}, {4, 0}, {0, 4}}}, config.BoxPolygon, 8},
	}

	for _, tt := range tests {
		b, err := FromConfig(tt.cfg)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if b.Name() != tt.name {
			t.Errorf("Name() = %s, want %s", b.Name(), tt.name)
		}
		if b.Area() != tt.area {
			t.Errorf("%s: Area() = %v, want %v", tt.name, b.Area(), tt.area)
		}
	}

	if _, err := FromConfig(config.BoxConfig{Kind: "torus"}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := FromConfig(config.BoxConfig{Kind: config.BoxPolygon, Polygon: [][2]float64{{0, 0}, {1, 1}, {2, 2}}}); err == nil {
		t.Error("expected error for degenerate polygon")
	}
}

func TestPeriodicConfine(t *testing.T) {
	p := &Periodic{Width: 10, Height: 5}

	tests := []struct {
		x, y   float64
		wx, wy float64
	}{
		{3, 2, 3, 2},
		{-1, 2, 9, 2},
		{12.5, -0.5, 2.5, 4.5},
		{10, 5, 0, 0},
		{-23, 11, 7, 1},
	}

	for _, tt := range tests {
		b := body.New(0, tt.x, tt.y, 0)
		p.Confine(b)
		if math.Abs(b.X()-tt.wx) > 1e-12 || math.Abs(b.Y()-tt.wy) > 1e-12 {
			t.Errorf("Confine(%v,%v) = (%v,%v), want (%v,%v)", tt.x, tt.y, b.X(), b.Y(), tt.wx, tt.wy)
		}
	}
}

func TestWallsConfine(t *testing.T) {
	w := &Walls{Width: 10, Height: 5}

	tests := []struct {
		x, y   float64
		wx, wy float64
	}{
		{3, 2, 3, 2},
		{-1, 2, 1, 2},
		{11, 6, 9, 4},
		{-30, 40, 0, 0},
	}

	for _, tt := range tests {
		b := body.New(0, tt.x, tt.y, 0)
		w.Confine(b)
		if math.Abs(b.X()-tt.wx) > 1e-12 || math.Abs(b.Y()-tt.wy) > 1e-12 {
			t.Errorf("Confine(%v,%v) = (%v,%v), want (%v,%v)", tt.x, tt.y, b.X(), b.Y(), tt.wx, tt.wy)
		}
	}
}

func TestConfineKeepsValidCacheWhenInside(t *testing.T) {
	b := body.New(0, 1, 1, 0)
	b.SetEnergy(2)
	(&Periodic{Width: 10, Height: 10}).Confine(b)
	(&Walls{Width: 10, Height: 10}).Confine(b)
	if b.CacheState() != body.Valid {
		t.Error("confining a body already inside must not invalidate it")
	}
}

func TestEnergy(t *testing.T) {
	ev := interaction.New(forcefield.Default(), topology.Point())
	poly, err := FromConfig(config.BoxConfig{Kind: config.BoxPolygon, Polygon: [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}})
	if err != nil {
		t.Fatal(err)
	}

	bounds := []Boundary{&Periodic{Width: 10, Height: 10}, &Walls{Width: 10, Height: 10}, poly}
	inside := body.New(0, 5, 5, 0)
	edge := body.New(0, 5, 9.8, 0)

	for _, bd := range bounds {
		e, err := bd.Energy(ev, inside)
		if err != nil || e != 0 {
			t.Errorf("%s: inside energy = %v, %v", bd.Name(), e, err)
		}
		e, err = bd.Energy(ev, edge)
		if err != nil {
			t.Fatalf("%s: %v", bd.Name(), err)
		}
		want := forcefield.DefaultBigEnergy
		if bd.Name() == config.BoxPeriodic {
			want = 0
		}
		if e != want {
			t.Errorf("%s: edge energy = %v, want %v", bd.Name(), e, want)
		}
	}
}

func TestDistanceAndScale(t *testing.T) {
	a := body.New(0, 1, 1, 0)
	b := body.New(0, 9, 1, 0)

	p := &Periodic{Width: 10, Height: 10}
	if d := p.Distance(a, b); math.Abs(d-2) > 1e-12 {
		t.Errorf("periodic distance = %v, want 2", d)
	}
	w := &Walls{Width: 10, Height: 10}
	if d := w.Distance(a, b); math.Abs(d-8) > 1e-12 {
		t.Errorf("walls distance = %v, want 8", d)
	}

	p.Scale(2)
	if p.Area() != 400 {
		t.Errorf("scaled area = %v, want 400", p.Area())
	}
	if hi := p.Bounds().Hi(); hi.X != 20 || hi.Y != 20 {
		t.Errorf("scaled bounds hi = %v", hi)
	}
}

func TestPeriodicImages(t *testing.T) {
	p := &Periodic{Width: 10, Height: 10}
	ref := body.New(0, 1, 1, 0)
	near := body.New(0, 3, 2, 0)
	across := body.New(0, 9.5, 1, 0.7)
	corner := body.New(0, 9, 9, 0)

	imgs := p.Images(ref, []*body.Body{ref, near, across, corner}, nil)
	if len(imgs) != 4 {
		t.Fatalf("got %d images", len(imgs))
	}
	if imgs[0] != ref || imgs[1] != near {
		t.Error("bodies already nearest must pass through unchanged")
	}
	if imgs[2] == across || imgs[2].X() != -0.5 || imgs[2].Y() != 1 || imgs[2].Orientation() != 0.7 {
		t.Errorf("across-edge image = %+v", imgs[2])
	}
	if imgs[3].X() != -1 || imgs[3].Y() != -1 {
		t.Errorf("corner image at (%v,%v)", imgs[3].X(), imgs[3].Y())
	}
	if across.X() != 9.5 {
		t.Error("Images must not move the original body")
	}

	w := &Walls{Width: 10, Height: 10}
	if imgs := w.Images(ref, []*body.Body{across}, nil); imgs[0] != across {
		t.Error("walls must not create images")
	}
}

func TestContains(t *testing.T) {
	poly, err := FromConfig(config.BoxConfig{Kind: config.BoxPolygon, Polygon: [][2]float64{{0, 0}, {4, 0}, {0, 4}}})
	if err != nil {
		t.Fatal(err)
	}
	if !poly.Contains(r2.Point{X: 1, Y: 1}) || poly.Contains(r2.Point{X: 3, Y: 3}) {
		t.Error("polygon containment wrong")
	}
	p := &Periodic{Width: 2, Height: 2}
	if !p.Contains(r2.Point{X: 1, Y: 1}) || p.Contains(r2.Point{X: 3, Y: 1}) {
		t.Error("periodic containment wrong")
	}
}

func TestToConfigRoundTrip(t *testing.T) {
	cfgs := []config.BoxConfig{
		{Kind: config.BoxPeriodic, Width: 4, Height: 5},
		{Kind: config.BoxWalls, Width: 2, Height: 3},
		{Kind: config.BoxPolygon, Polygon: [][2]float64{{0, 0}, {4, 0}, {0, 4}}},
	}

	for _, cfg := range cfgs {
		b, err := FromConfig(cfg)
		if err != nil {
			t.Fatalf("%s: %v", cfg.Kind, err)
		}
		b.Scale(2)

		again, err := FromConfig(ToConfig(b))
		if err != nil {
			t.Fatalf("%s: %v", cfg.Kind, err)
		}
		if again.Name() != b.Name() || math.Abs(again.Area()-b.Area()) > 1e-12 {
			t.Errorf("%s: round trip gave %s with area %v, want area %v", cfg.Kind, again.Name(), again.Area(), b.Area())
		}
	}
}
