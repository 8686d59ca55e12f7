package sam

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/internal/geo"
	"github.com/skybreak/forcepool/pkg/core"
)

func TestGepardGenerator_Metadata(t *testing.T) {
	g := NewGepardGenerator(nil)

	assert.Equal(t, "Gepard Group", g.Name())
	assert.Equal(t, 50.0, g.Price())
	assert.Equal(t, Short, g.Range())
	assert.Equal(t, "short", g.Range().String())
}

func TestGepardGenerator_Composition(t *testing.T) {
	g := NewGepardGenerator(rand.New(rand.NewPCG(1, 2)))
	pos := core.Position3D{X: 1000, Y: 2000, Z: 15}

	seenOne, seenTwo := false, false
	for i := 0; i < 200; i++ {
		group := g.Generate(pos, 90)

		guns := group.Count(catalog.Gepard)
		require.True(t, guns == 1 || guns == 2, "got %d guns", guns)
		seenOne = seenOne || guns == 1
		seenTwo = seenTwo || guns == 2

		require.Equal(t, 1, group.Count(catalog.M818))
		assert.Equal(t, "SPAAA", group.Units[0].Name)
		assert.Equal(t, pos, group.Units[0].Position)

		truck := group.Units[len(group.Units)-1]
		assert.Equal(t, "TRUCK", truck.Name)
		assert.Equal(t, core.Position3D{X: 1080, Y: 2000, Z: 15}, truck.Position)

		for _, u := range group.Units {
			assert.Equal(t, 90.0, u.Heading)
		}
	}
	assert.True(t, seenOne, "single gun group never generated")
	assert.True(t, seenTwo, "two gun group never generated")
}

func TestGepardGenerator_SeededIsReproducible(t *testing.T) {
	a := NewGepardGenerator(rand.New(rand.NewPCG(7, 7)))
	b := NewGepardGenerator(rand.New(rand.NewPCG(7, 7)))

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(core.Position3D{}, 0), b.Generate(core.Position3D{}, 0))
	}
}

func TestGroup_Footprint(t *testing.T) {
	group := NewGepardGenerator(nil).Generate(core.Position3D{X: 5, Y: 5}, 0)
	mp, err := group.Footprint()
	require.NoError(t, err)
	assert.Equal(t, len(group.Units), mp.NumPoints())
}

func TestGroup_FootprintInvalidPosition(t *testing.T) {
	group := NewGepardGenerator(nil).Generate(core.Position3D{X: math.Inf(1)}, 0)
	_, err := group.Footprint()
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinates)
}

func TestParseRange(t *testing.T) {
	for _, r := range []Range{Short, Medium, Long} {
		got, err := ParseRange(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRange("orbital")
	assert.ErrorIs(t, err, ErrUnknownRange)
}

func TestByRange(t *testing.T) {
	gens := []Generator{NewGepardGenerator(nil)}

	assert.Len(t, ByRange(gens, Short), 1)
	assert.Empty(t, ByRange(gens, Long))
}
