package sam

import (
	"math/rand/v2"

	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/internal/geo"
	"github.com/skybreak/forcepool/pkg/core"
)

// truckOffset is how far east of the guns the supply truck parks, in metres.
const truckOffset = 80

// GepardGenerator builds a Gepard SPAAG group: one or two guns and a truck.
type GepardGenerator struct {
	rng *rand.Rand
}

var _ Generator = (*GepardGenerator)(nil)

// NewGepardGenerator creates a generator. A nil rng uses the global source.
func NewGepardGenerator(rng *rand.Rand) *GepardGenerator {
	return &GepardGenerator{rng: rng}
}

func (g *GepardGenerator) Name() string   { return "Gepard Group" }
func (g *GepardGenerator) Price() float64 { return 50 }
func (g *GepardGenerator) Range() Range   { return Short }

// Generate places the group at position facing heading.
func (g *GepardGenerator) Generate(position core.Position3D, heading float64) Group {
	group := Group{Name: g.Name()}

	group.Units = append(group.Units, Unit{
		Type:     catalog.Gepard,
		Name:     "SPAAA",
		Position: position,
		Heading:  heading,
	})
	if coinFlip(g.rng) {
		group.Units = append(group.Units, Unit{
			Type:     catalog.Gepard,
			Name:     "SPAAA2",
			Position: position,
			Heading:  heading,
		})
	}
	group.Units = append(group.Units, Unit{
		Type:     catalog.M818,
		Name:     "TRUCK",
		Position: geo.Offset(position, truckOffset, 0),
		Heading:  heading,
	})

	return group
}
