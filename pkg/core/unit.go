// pkg/core/unit.go
package core

// UnitType identifies a kind of unit, e.g. "A-10C" or "Gepard".
// Price and capabilities are looked up in the unit catalog.
type UnitType string

// Task is a mission type a unit can be qualified to perform.
type Task string

const (
	CAS          Task = "CAS"
	FighterSweep Task = "FighterSweep"
	CAP          Task = "CAP"
	AirDefence   Task = "AirDefence"
)

// Tasks lists every known task in a stable order.
var Tasks = []Task{CAS, FighterSweep, CAP, AirDefence}

// Valid reports whether t is one of the known tasks.
func (t Task) Valid() bool {
	for _, known := range Tasks {
		if t == known {
			return true
		}
	}
	return false
}

// Category is one of the three inventories held by a base.
type Category int

const (
	Aircraft Category = iota
	Armor
	AirDefense
)

// Categories lists the inventories in iteration order.
var Categories = []Category{Aircraft, Armor, AirDefense}

func (c Category) String() string {
	switch c {
	case Aircraft:
		return "aircraft"
	case Armor:
		return "armor"
	case AirDefense:
		return "aa"
	default:
		return "unknown"
	}
}
