package catalog

import "github.com/skybreak/forcepool/pkg/core"

// Unit type identifiers used by the builtin catalog and the SAM generators.
const (
	A10C   core.UnitType = "A-10C"
	Su25T  core.UnitType = "Su-25T"
	Su25   core.UnitType = "Su-25"
	F15C   core.UnitType = "F-15C"
	FA18C  core.UnitType = "FA-18C_hornet"
	Su27   core.UnitType = "Su-27"
	MiG29A core.UnitType = "MiG-29A"

	M1Abrams  core.UnitType = "M-1 Abrams"
	M2Bradley core.UnitType = "M-2 Bradley"
	T72B      core.UnitType = "T-72B"
	BMP2      core.UnitType = "BMP-2"

	Gepard  core.UnitType = "Gepard"
	Shilka  core.UnitType = "ZSU-23-4 Shilka"
	Avenger core.UnitType = "M1097 Avenger"

	M818 core.UnitType = "M 818"
)

// Builtin returns the default unit table.
func Builtin() *Catalog {
	return MustNew(
		Entry{Type: A10C, Price: 20, Task: core.CAS},
		Entry{Type: Su25T, Price: 11, Task: core.CAS},
		Entry{Type: Su25, Price: 11, Task: core.CAS},
		Entry{Type: FA18C, Price: 28, Task: core.FighterSweep, Capabilities: []core.Task{core.CAS}},
		Entry{Type: F15C, Price: 24, Task: core.FighterSweep},
		Entry{Type: Su27, Price: 24, Task: core.FighterSweep},
		Entry{Type: MiG29A, Price: 18, Task: core.FighterSweep},

		Entry{Type: M1Abrams, Price: 16, Task: core.CAP},
		Entry{Type: T72B, Price: 18, Task: core.CAP},
		Entry{Type: M2Bradley, Price: 8, Task: core.CAP},
		Entry{Type: BMP2, Price: 6, Task: core.CAP},

		Entry{Type: Gepard, Price: 50, Task: core.AirDefence},
		Entry{Type: Shilka, Price: 12, Task: core.AirDefence},
		Entry{Type: Avenger, Price: 10, Task: core.AirDefence},
	)
}
