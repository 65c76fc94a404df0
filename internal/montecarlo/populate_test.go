package montecarlo

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/boundary"
	"github.com/san-kum/rigidmc/internal/config"
	"github.com/san-kum/rigidmc/internal/topology"
)

func TestPopulate_Order(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "start.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, body.WriteConfiguration(f, []*body.Body{body.New(0, 1, 2, 0.5)}))
	require.NoError(t, f.Close())

	cfg := config.DefaultConfig()
	cfg.Configuration = path
	cfg.Bodies = []config.BodyConfig{{Type: 0, X: 3, Y: 4, Angle: 1}}
	cfg.Population = []config.PopulationConfig{{Type: 0, Count: 5}}

	bd := &boundary.Walls{Width: 10, Height: 10}
	bodies, err := Populate(cfg, topology.Point(), bd, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	require.Len(t, bodies, 7)

	assert.Equal(t, r2.Point{X: 1, Y: 2}, bodies[0].Pos())
	assert.Equal(t, r2.Point{X: 3, Y: 4}, bodies[1].Pos())
	for _, b := range bodies[2:] {
		assert.True(t, bd.Contains(b.Pos()))
		assert.GreaterOrEqual(t, b.Orientation(), 0.0)
		assert.Less(t, b.Orientation(), body.TwoPi)
		assert.Equal(t, body.Stale, b.CacheState())
	}
}

func TestPopulate_PolygonBox(t *testing.T) {
	cfg := config.GetPreset(config.BoxPolygon, "hexagon")
	require.NotNil(t, cfg)

	bd, err := boundary.FromConfig(cfg.Box)
	require.NoError(t, err)

	bodies, err := Populate(cfg, topology.Point(), bd, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Len(t, bodies, cfg.NumBodies())
	for _, b := range bodies {
		assert.True(t, bd.Contains(b.Pos()), "%v outside hexagon", b.Pos())
	}
}

func TestPopulate_UnknownType(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Population = []config.PopulationConfig{{Type: 2, Count: 1}}

	_, err := Populate(cfg, topology.Point(), &boundary.Walls{Width: 5, Height: 5}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPopulate_MissingConfiguration(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Configuration = filepath.Join(t.TempDir(), "missing.txt")

	_, err := Populate(cfg, topology.Point(), &boundary.Walls{Width: 5, Height: 5}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// closedBox rejects every point.
type closedBox struct {
	boundary.Boundary
}

func (closedBox) Bounds() r2.Rect       { return r2.RectFromPoints(r2.Point{}, r2.Point{X: 1, Y: 1}) }
func (closedBox) Contains(r2.Point) bool { return false }

func TestPopulate_PlacementFails(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Population = []config.PopulationConfig{{Type: 0, Count: 1}}

	_, err := Populate(cfg, topology.Point(), closedBox{}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrPlacement)
}
