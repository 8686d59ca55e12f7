package campaign

import (
	"fmt"

	"github.com/skybreak/forcepool/internal/base"
	"github.com/skybreak/forcepool/internal/sam"
	"github.com/skybreak/forcepool/pkg/core"
)

// Step records one executed command and its outcome.
type Step struct {
	Turn    int    `yaml:"turn"`
	Command string `yaml:"command"`
	Target  string `yaml:"target,omitempty"`
	Result  any    `yaml:"result,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

// Status summarises a base.
type Status struct {
	Strength     float64               `yaml:"strength"`
	Aircraft     map[core.UnitType]int `yaml:"aircraft,omitempty"`
	Armor        map[core.UnitType]int `yaml:"armor,omitempty"`
	AirDefense   map[core.UnitType]int `yaml:"airDefense,omitempty"`
	Reservations int                   `yaml:"reservations,omitempty"`
}

func statusOf(b *base.Base) Status {
	return Status{
		Strength:     b.Strength(),
		Aircraft:     b.Inventory(core.Aircraft).Map(),
		Armor:        b.Inventory(core.Armor).Map(),
		AirDefense:   b.Inventory(core.AirDefense).Map(),
		Reservations: b.OpenReservations(),
	}
}

// AllocationResult reports an allocation query.
type AllocationResult struct {
	Task        core.Task             `yaml:"task"`
	Requested   int                   `yaml:"requested"`
	Allocated   int                   `yaml:"allocated"`
	Units       map[core.UnitType]int `yaml:"units,omitempty"`
	Groups      []int                 `yaml:"groups,omitempty"`
	Shortfall   string                `yaml:"shortfall,omitempty"`
	Reservation uint64                `yaml:"reservation,omitempty"`
}

func allocationResult(a base.Allocation) AllocationResult {
	res := AllocationResult{
		Task:      a.Task,
		Requested: a.Requested,
		Allocated: a.Allocated(),
		Units:     a.Units.Map(),
	}
	if err := a.Err(); err != nil {
		res.Shortfall = err.Error()
	}
	return res
}

// GroupResult reports a generated emplacement.
type GroupResult struct {
	Name      string       `yaml:"name"`
	Price     float64      `yaml:"price"`
	Range     string       `yaml:"range"`
	Units     []UnitResult `yaml:"units"`
	Footprint string       `yaml:"footprint"`
}

type UnitResult struct {
	Type     core.UnitType   `yaml:"type"`
	Name     string          `yaml:"name"`
	Position core.Position3D `yaml:"position"`
	Heading  float64         `yaml:"heading"`
}

func groupResult(gen sam.Generator, g sam.Group) (GroupResult, error) {
	footprint, err := g.Footprint()
	if err != nil {
		return GroupResult{}, fmt.Errorf("%s footprint: %w", g.Name, err)
	}
	res := GroupResult{
		Name:      g.Name,
		Price:     gen.Price(),
		Range:     gen.Range().String(),
		Footprint: footprint.AsText(),
	}
	for _, u := range g.Units {
		res.Units = append(res.Units, UnitResult{
			Type:     u.Type,
			Name:     u.Name,
			Position: u.Position,
			Heading:  u.Heading,
		})
	}
	return res, nil
}
