package base

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/pkg/core"
)

func testCatalog() *catalog.Catalog {
	return catalog.MustNew(
		catalog.Entry{Type: "A", Price: 10, Task: core.CAS},
		catalog.Entry{Type: "B", Price: 20, Task: core.CAS},
		catalog.Entry{Type: "C", Price: 20, Task: core.CAS},
		catalog.Entry{Type: "F", Price: 30, Task: core.FighterSweep, Capabilities: []core.Task{core.CAS}},
		catalog.Entry{Type: "G", Price: 15, Task: core.FighterSweep},
		catalog.Entry{Type: "T", Price: 18, Task: core.CAP},
		catalog.Entry{Type: "I", Price: 6, Task: core.CAP},
		catalog.Entry{Type: "S", Price: 50, Task: core.AirDefence},
	)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBase(t *testing.T) *Base {
	t.Helper()
	b, err := New(Dependencies{Name: "Batumi", Catalog: testCatalog(), Logger: quietLogger()})
	require.NoError(t, err)
	return b
}

func commission(t *testing.T, b *Base, units map[core.UnitType]int) {
	t.Helper()
	require.NoError(t, b.CommisionUnits(core.MustUnitCounts(units)))
}

// fakeLookup classifies every type under a fixed task.
type fakeLookup struct {
	task core.Task
}

func (f fakeLookup) Capable(core.UnitType, core.Task) bool       { return true }
func (f fakeLookup) PrimaryTask(core.UnitType) (core.Task, error) { return f.task, nil }
func (f fakeLookup) Price(core.UnitType) float64                  { return 1 }

func TestNew_RequiresCatalog(t *testing.T) {
	_, err := New(Dependencies{Name: "Batumi"})
	assert.ErrorIs(t, err, ErrNoCatalog)
}

func TestNew_Defaults(t *testing.T) {
	b := newTestBase(t)

	assert.Equal(t, "Batumi", b.Name())
	assert.Equal(t, 1.0, b.Strength())
	assert.Equal(t, DefaultSizing(), b.Sizing())
	assert.Equal(t, 0, b.TotalPlanes())
	assert.Equal(t, 0, b.TotalArmor())
	assert.Equal(t, 0, b.TotalAA())
	assert.Equal(t, 0, b.OpenReservations())
}

func TestNew_CustomSizing(t *testing.T) {
	sizing := Sizing{PlanesImportanceFactor: 3, ArmorImportanceFactor: 5, PlanesInGroup: 4}
	b, err := New(Dependencies{Catalog: testCatalog(), Sizing: &sizing})
	require.NoError(t, err)
	assert.Equal(t, sizing, b.Sizing())
}

func TestNew_InstancesDoNotShareInventories(t *testing.T) {
	b1 := newTestBase(t)
	b2 := newTestBase(t)

	commission(t, b1, map[core.UnitType]int{"A": 2, "T": 1, "S": 1})
	b1.AppendCommisionPoints(core.CAS, 0.5)
	b1.AffectStrength(-0.5)

	assert.Equal(t, 0, b2.TotalPlanes())
	assert.Equal(t, 0, b2.TotalArmor())
	assert.Equal(t, 0, b2.TotalAA())
	assert.Equal(t, 0.0, b2.CommisionPoints(core.CAS))
	assert.Equal(t, 1.0, b2.Strength())
}
