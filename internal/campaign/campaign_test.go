package campaign

import (
	"bytes"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybreak/forcepool/internal/base"
	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/internal/dispatcher"
	"github.com/skybreak/forcepool/internal/geo"
	"github.com/skybreak/forcepool/internal/sam"
	"github.com/skybreak/forcepool/internal/theater"
	"github.com/skybreak/forcepool/pkg/core"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	cat := catalog.Builtin()
	th := theater.New(theater.Dependencies{Catalog: cat, Logger: quietLogger()})
	for _, cp := range []core.ControlPoint{
		{Name: "Batumi", Importance: 1, Position: core.Position3D{X: 100, Y: 200}},
		{Name: "Kutaisi", Importance: 2},
	} {
		_, err := th.Add(cp)
		require.NoError(t, err)
	}

	r, err := NewRunner(Dependencies{
		Theater: th,
		Catalog: cat,
		Logger:  quietLogger(),
		SAM:     []sam.Generator{sam.NewGepardGenerator(rand.New(rand.NewPCG(1, 1)))},
	})
	require.NoError(t, err)
	return r
}

func exec(t *testing.T, r *Runner, command, target string, args map[string]any) any {
	t.Helper()
	res, err := r.Exec(Command{Command: command, Target: target, Args: args})
	require.NoError(t, err)
	return res
}

func TestNewRunner_RequiresTheaterAndCatalog(t *testing.T) {
	_, err := NewRunner(Dependencies{})
	assert.Error(t, err)
}

func TestRunner_Commands(t *testing.T) {
	r := newTestRunner(t)
	assert.Contains(t, r.Commands(), CmdScramble)
	assert.Contains(t, r.Commands(), CmdNextTurn)
	assert.Len(t, r.Commands(), 13)
}

func TestRunner_CommissionAndLosses(t *testing.T) {
	r := newTestRunner(t)

	res := exec(t, r, CmdCommission, "Batumi", map[string]any{
		"units": map[string]any{"A-10C": 3, "M-1 Abrams": 2, "Gepard": 1},
	})
	st := res.(Status)
	assert.Equal(t, map[core.UnitType]int{catalog.A10C: 3}, st.Aircraft)
	assert.Equal(t, map[core.UnitType]int{catalog.M1Abrams: 2}, st.Armor)
	assert.Equal(t, map[core.UnitType]int{catalog.Gepard: 1}, st.AirDefense)

	res = exec(t, r, CmdLosses, "Batumi", map[string]any{
		"units": map[string]any{"A-10C": 1, "M-1 Abrams": 2},
	})
	st = res.(Status)
	assert.Equal(t, map[core.UnitType]int{catalog.A10C: 2}, st.Aircraft)
	assert.Empty(t, st.Armor)
}

func TestRunner_CommandErrors(t *testing.T) {
	r := newTestRunner(t)

	tests := []struct {
		name    string
		cmd     Command
		wantErr error
	}{
		{
			name:    "unknown target",
			cmd:     Command{Command: CmdStatus, Target: "Senaki"},
			wantErr: theater.ErrUnknownControlPoint,
		},
		{
			name:    "missing units",
			cmd:     Command{Command: CmdCommission, Target: "Batumi"},
			wantErr: dispatcher.ErrMissingArg,
		},
		{
			name:    "missing target",
			cmd:     Command{Command: CmdStatus},
			wantErr: dispatcher.ErrMissingArg,
		},
		{
			name:    "fractional count",
			cmd:     Command{Command: CmdCommission, Target: "Batumi", Args: map[string]any{"units": map[string]any{"A-10C": 1.5}}},
			wantErr: core.ErrNonIntegralCount,
		},
		{
			name:    "unknown unit type",
			cmd:     Command{Command: CmdCommission, Target: "Batumi", Args: map[string]any{"units": map[string]any{"B-52": 1}}},
			wantErr: catalog.ErrUnknownUnitType,
		},
		{
			name:    "unknown mission",
			cmd:     Command{Command: CmdScramble, Target: "Batumi", Args: map[string]any{"mission": "bombing"}},
			wantErr: ErrUnknownMission,
		},
		{
			name:    "unknown reservation",
			cmd:     Command{Command: CmdRelease, Target: "Batumi", Args: map[string]any{"reservation": 9}},
			wantErr: ErrUnknownReservation,
		},
		{
			name:    "non-positive interceptor count",
			cmd:     Command{Command: CmdScramble, Target: "Batumi", Args: map[string]any{"mission": "interceptors", "count": 0}},
			wantErr: core.ErrNonPositiveCount,
		},
		{
			name:    "unknown command",
			cmd:     Command{Command: "launch"},
			wantErr: dispatcher.ErrUnknownCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Exec(tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRunner_ScrambleAndReserve(t *testing.T) {
	r := newTestRunner(t)
	exec(t, r, CmdCommission, "Batumi", map[string]any{
		"units": map[string]any{"A-10C": 3, "Su-25T": 2, "FA-18C_hornet": 1},
	})

	res := exec(t, r, CmdScramble, "Batumi", map[string]any{
		"mission": "cas",
		"against": "Kutaisi",
		"reserve": true,
	}).(AllocationResult)
	assert.Equal(t, core.CAS, res.Task)
	assert.Equal(t, 4, res.Requested)
	assert.Equal(t, map[core.UnitType]int{catalog.FA18C: 1, catalog.A10C: 3}, res.Units)
	assert.Equal(t, []int{2, 2}, res.Groups)
	assert.Empty(t, res.Shortfall)
	require.NotZero(t, res.Reservation)

	// reserved units are not offered again
	next := exec(t, r, CmdScramble, "Batumi", map[string]any{"mission": "cas"}).(AllocationResult)
	assert.Equal(t, map[core.UnitType]int{catalog.Su25T: 2}, next.Units)

	st := exec(t, r, CmdCommit, "Batumi", map[string]any{
		"reservation": int(res.Reservation),
		"losses":      map[string]any{"A-10C": 1},
	}).(Status)
	assert.Equal(t, map[core.UnitType]int{catalog.A10C: 2, catalog.Su25T: 2, catalog.FA18C: 1}, st.Aircraft)
	assert.Zero(t, st.Reservations)

	_, err := r.Exec(Command{Command: CmdCommit, Target: "Batumi", Args: map[string]any{"reservation": int(res.Reservation)}})
	assert.ErrorIs(t, err, ErrUnknownReservation)
}

func TestRunner_ScrambleShortage(t *testing.T) {
	r := newTestRunner(t)
	exec(t, r, CmdCommission, "Batumi", map[string]any{"units": map[string]any{"A-10C": 1}})

	res := exec(t, r, CmdScramble, "Batumi", map[string]any{"mission": "cas", "against": "Kutaisi"}).(AllocationResult)
	assert.Equal(t, 4, res.Requested)
	assert.Equal(t, 1, res.Allocated)
	assert.Contains(t, res.Shortfall, "insufficient inventory")
	assert.Equal(t, []int{1}, res.Groups)
}

func TestRunner_ReleaseReturnsUnits(t *testing.T) {
	r := newTestRunner(t)
	exec(t, r, CmdCommission, "Batumi", map[string]any{"units": map[string]any{"T-72B": 4}})

	res := exec(t, r, CmdScramble, "Batumi", map[string]any{"mission": "defense", "ratio": 0.5, "reserve": true}).(AllocationResult)
	assert.Equal(t, 2, res.Allocated)
	assert.Nil(t, res.Groups, "armor is not split into flights")

	st := exec(t, r, CmdRelease, "Batumi", map[string]any{"reservation": int(res.Reservation)}).(Status)
	assert.Zero(t, st.Reservations)
	assert.Equal(t, map[core.UnitType]int{catalog.T72B: 4}, st.Armor)
}

func TestRunner_Interceptors(t *testing.T) {
	r := newTestRunner(t)
	exec(t, r, CmdCommission, "Batumi", map[string]any{"units": map[string]any{"F-15C": 2, "MiG-29A": 2}})

	res := exec(t, r, CmdScramble, "Batumi", map[string]any{"mission": "interceptors", "count": 3}).(AllocationResult)
	assert.Equal(t, map[core.UnitType]int{catalog.F15C: 2, catalog.MiG29A: 1}, res.Units)

	res = exec(t, r, CmdScramble, "Batumi", map[string]any{"mission": "interceptors", "ratio": 0.5}).(AllocationResult)
	assert.Equal(t, 2, res.Requested)
	assert.Equal(t, map[core.UnitType]int{catalog.F15C: 2}, res.Units)
}

func TestRunner_FilterBySelector(t *testing.T) {
	r := newTestRunner(t)
	exec(t, r, CmdCommission, "Batumi", map[string]any{
		"units": map[string]any{"A-10C": 2, "M-1 Abrams": 2, "Gepard": 1},
	})

	st := exec(t, r, CmdFilter, "Batumi", map[string]any{"select": "Price >= 20"}).(Status)
	assert.Equal(t, map[core.UnitType]int{catalog.A10C: 2}, st.Aircraft)
	assert.Empty(t, st.Armor)
	assert.Equal(t, map[core.UnitType]int{catalog.Gepard: 1}, st.AirDefense)

	st = exec(t, r, CmdFilter, "Batumi", map[string]any{"types": []any{"Gepard"}}).(Status)
	assert.Empty(t, st.Aircraft)
	assert.Equal(t, map[core.UnitType]int{catalog.Gepard: 1}, st.AirDefense)
}

func TestRunner_FilterByTask(t *testing.T) {
	r := newTestRunner(t)
	exec(t, r, CmdCommission, "Batumi", map[string]any{
		"units": map[string]any{"A-10C": 2, "F-15C": 2, "M-1 Abrams": 1},
	})

	st := exec(t, r, CmdFilter, "Batumi", map[string]any{"task": "CAS"}).(Status)
	assert.Equal(t, map[core.UnitType]int{catalog.A10C: 2}, st.Aircraft)
	assert.Empty(t, st.Armor)

	_, err := r.Exec(Command{Command: CmdFilter, Target: "Batumi", Args: map[string]any{"task": "Bombing"}})
	assert.ErrorIs(t, err, base.ErrUnsupportedTask)
}

func TestRunner_PointsAndDeliver(t *testing.T) {
	r := newTestRunner(t)

	res := exec(t, r, CmdPoints, "Batumi", map[string]any{"task": "CAS", "points": 1.5}).(map[string]any)
	assert.Equal(t, 1, res["units"])
	assert.Equal(t, 0.5, res["remaining"])

	_, err := r.Exec(Command{Command: CmdPoints, Target: "Batumi", Args: map[string]any{"task": "Bombing", "points": 1}})
	assert.Error(t, err)

	res = exec(t, r, CmdDeliver, "Kutaisi", map[string]any{"type": "A-10C", "points": 2.5}).(map[string]any)
	assert.Equal(t, 2, res["delivered"])
	assert.Equal(t, map[core.UnitType]int{catalog.A10C: 2}, res["status"].(Status).Aircraft)
}

func TestRunner_StrengthScalesScramble(t *testing.T) {
	r := newTestRunner(t)
	exec(t, r, CmdCommission, "Batumi", map[string]any{"units": map[string]any{"A-10C": 10}})

	res := exec(t, r, CmdStrength, "Batumi", map[string]any{"delta": -0.5}).(map[string]float64)
	assert.Equal(t, 0.5, res["strength"])

	alloc := exec(t, r, CmdScramble, "Batumi", map[string]any{"mission": "cas", "against": "Kutaisi"}).(AllocationResult)
	assert.Equal(t, 2, alloc.Requested)
}

func TestRunner_Groups(t *testing.T) {
	r := newTestRunner(t)
	res := exec(t, r, CmdGroups, "Batumi", map[string]any{"against": "Kutaisi"}).(map[string][]int)
	assert.Equal(t, []int{2, 2}, res["groups"])
}

func TestRunner_SAM(t *testing.T) {
	r := newTestRunner(t)

	g := exec(t, r, CmdSAM, "Batumi", map[string]any{"heading": 270}).(GroupResult)
	assert.Equal(t, "Gepard Group", g.Name)
	assert.Equal(t, 50.0, g.Price)
	assert.Equal(t, "short", g.Range)
	assert.True(t, strings.HasPrefix(g.Footprint, "MULTIPOINT"), g.Footprint)

	truck := g.Units[len(g.Units)-1]
	assert.Equal(t, catalog.M818, truck.Type)
	assert.Equal(t, core.Position3D{X: 180, Y: 200}, truck.Position)
	assert.Equal(t, 270.0, truck.Heading)
}

func TestRunner_SAMAtPosition(t *testing.T) {
	r := newTestRunner(t)

	g := exec(t, r, CmdSAM, "Batumi", map[string]any{"at": "1000,2000,5", "range": "short"}).(GroupResult)
	assert.Equal(t, core.Position3D{X: 1000, Y: 2000, Z: 5}, g.Units[0].Position)
	assert.Equal(t, core.Position3D{X: 1080, Y: 2000, Z: 5}, g.Units[len(g.Units)-1].Position)
}

func TestRunner_SAMErrors(t *testing.T) {
	r := newTestRunner(t)

	tests := []struct {
		name string
		args map[string]any
		want error
	}{
		{"no long range generator", map[string]any{"range": "long"}, ErrNoGenerator},
		{"unknown range", map[string]any{"range": "orbital"}, sam.ErrUnknownRange},
		{"malformed position", map[string]any{"at": "north"}, geo.ErrInvalidCoordinates},
		{"non-finite position", map[string]any{"at": "inf,0"}, geo.ErrInvalidCoordinates},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Exec(Command{Command: CmdSAM, Target: "Batumi", Args: tt.args})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRunner_InfinitePointsIgnored(t *testing.T) {
	r := newTestRunner(t)

	res := exec(t, r, CmdPoints, "Batumi", map[string]any{"task": "CAS", "points": math.Inf(1)}).(map[string]any)
	assert.Equal(t, 0, res["units"])
	assert.Equal(t, 0.0, res["remaining"])

	res = exec(t, r, CmdDeliver, "Batumi", map[string]any{"type": "A-10C", "points": 1.0}).(map[string]any)
	assert.Equal(t, 1, res["delivered"])
}

func TestRunner_NextTurn(t *testing.T) {
	r := newTestRunner(t)
	assert.Equal(t, map[string]int{"turn": 1}, exec(t, r, CmdNextTurn, "", nil))
	assert.Equal(t, map[string]int{"turn": 2}, exec(t, r, CmdNextTurn, "", nil))
}

const testScenario = `
seed: 3
controlPoints:
  - name: Batumi
    importance: 1
  - name: Kutaisi
    importance: 2
    latitude: 42.17
    longitude: 42.48
commands:
  - command: commission
    target: Batumi
    args:
      units: {A-10C: 2, Su-25T: 2}
  - command: next-turn
  - command: scramble
    target: Batumi
    args:
      mission: cas
      against: Kutaisi
  - command: commission
    target: Batumi
    args:
      units: {A-10C: 0}
  - command: filter
    target: Batumi
    args:
      types: [A-10C]
`

func TestDecodeScenario(t *testing.T) {
	s, err := DecodeScenario(strings.NewReader(testScenario))
	require.NoError(t, err)

	require.NotNil(t, s.Seed)
	assert.Equal(t, uint64(3), *s.Seed)
	require.Len(t, s.ControlPoints, 2)
	assert.Equal(t, core.Position3D{}, s.ControlPoints[0].Position)

	kutaisi := s.ControlPoints[1].Position
	assert.InDelta(t, 4.73e6, kutaisi.X, 0.05e6)
	assert.InDelta(t, 5.19e6, kutaisi.Y, 0.05e6)

	require.Len(t, s.Commands, 5)
	assert.Equal(t, "Kutaisi", s.Commands[2].Args["against"])
}

func TestDecodeScenario_Errors(t *testing.T) {
	_, err := DecodeScenario(strings.NewReader("controlPoints: []\n"))
	assert.ErrorIs(t, err, ErrEmptyScenario)

	_, err = DecodeScenario(strings.NewReader("controlPoints:\n  - name: X\n    bogus: 1\n"))
	assert.Error(t, err)

	_, err = DecodeScenario(strings.NewReader("controlPoints:\n  - name: X\n    latitude: 95\n    longitude: 10\n"))
	assert.Error(t, err)
}

func TestRunner_Run(t *testing.T) {
	s, err := DecodeScenario(strings.NewReader(testScenario))
	require.NoError(t, err)

	cat := catalog.Builtin()
	r, err := NewRunner(Dependencies{
		Theater: theater.New(theater.Dependencies{Catalog: cat, Logger: quietLogger()}),
		Catalog: cat,
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	steps, err := r.Run(s)
	require.NoError(t, err)
	require.Len(t, steps, 5)

	assert.Equal(t, 0, steps[0].Turn)
	assert.Equal(t, 1, steps[2].Turn)

	alloc := steps[2].Result.(AllocationResult)
	assert.Equal(t, 4, alloc.Allocated)
	assert.Equal(t, map[core.UnitType]int{catalog.A10C: 2, catalog.Su25T: 2}, alloc.Units)

	assert.Contains(t, steps[3].Error, "must be positive")
	assert.Nil(t, steps[3].Result)

	st := steps[4].Result.(Status)
	assert.Equal(t, map[core.UnitType]int{catalog.A10C: 2}, st.Aircraft)

	_, err = r.Run(s)
	assert.ErrorIs(t, err, theater.ErrDuplicateControlPoint)
}
