package campaign

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/skybreak/forcepool/internal/base"
	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/internal/dispatcher"
	"github.com/skybreak/forcepool/internal/geo"
	"github.com/skybreak/forcepool/internal/sam"
	"github.com/skybreak/forcepool/internal/theater"
	"github.com/skybreak/forcepool/pkg/core"
)

var (
	// ErrUnknownMission is returned by scramble for an unrecognised mission.
	ErrUnknownMission = errors.New("unknown mission")
	// ErrUnknownReservation is returned for reservation ids not held by the target.
	ErrUnknownReservation = errors.New("unknown reservation")
	// ErrNoGenerator is returned when no air-defense generator serves a range class.
	ErrNoGenerator = errors.New("no air-defense generator")
)

// Driver command names.
const (
	CmdCommission = "commission"
	CmdLosses     = "losses"
	CmdFilter     = "filter"
	CmdPoints     = "points"
	CmdDeliver    = "deliver"
	CmdStrength   = "strength"
	CmdScramble   = "scramble"
	CmdCommit     = "commit"
	CmdRelease    = "release"
	CmdSAM        = "sam"
	CmdStatus     = "status"
	CmdGroups     = "groups"
	CmdNextTurn   = "next-turn"
)

// Dependencies holds what a Runner drives.
type Dependencies struct {
	Theater *theater.Theater
	Catalog *catalog.Catalog
	Logger  *slog.Logger
	SAM     []sam.Generator // empty means a Gepard generator on the global source
}

// Runner executes driver commands against a theater, one at a time.
type Runner struct {
	theater *theater.Theater
	catalog *catalog.Catalog
	log     *slog.Logger
	sam     []sam.Generator
	d       *dispatcher.Dispatcher

	reservations map[string]map[uint64]*base.Reservation
}

// NewRunner registers every driver command.
func NewRunner(deps Dependencies) (*Runner, error) {
	if deps.Theater == nil || deps.Catalog == nil {
		return nil, errors.New("runner requires a theater and a catalog")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	gens := deps.SAM
	if len(gens) == 0 {
		gens = []sam.Generator{sam.NewGepardGenerator(nil)}
	}

	d, err := dispatcher.New(log)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	r := &Runner{
		theater:      deps.Theater,
		catalog:      deps.Catalog,
		log:          log,
		sam:          gens,
		d:            d,
		reservations: make(map[string]map[uint64]*base.Reservation),
	}
	r.register()
	return r, nil
}

func (r *Runner) register() {
	r.d.Register(CmdCommission, r.commission, dispatcher.Targeted(), dispatcher.Requires("units"), dispatcher.Logged())
	r.d.Register(CmdLosses, r.losses, dispatcher.Targeted(), dispatcher.Requires("units"), dispatcher.Logged())
	r.d.Register(CmdFilter, r.filter, dispatcher.Targeted(), dispatcher.Logged())
	r.d.Register(CmdPoints, r.points, dispatcher.Targeted(), dispatcher.Requires("task", "points"), dispatcher.Logged())
	r.d.Register(CmdDeliver, r.deliver, dispatcher.Targeted(), dispatcher.Requires("type", "points"), dispatcher.Logged())
	r.d.Register(CmdStrength, r.strength, dispatcher.Targeted(), dispatcher.Requires("delta"), dispatcher.Logged())
	r.d.Register(CmdScramble, r.scramble, dispatcher.Targeted(), dispatcher.Requires("mission"), dispatcher.Logged())
	r.d.Register(CmdCommit, r.commit, dispatcher.Targeted(), dispatcher.Requires("reservation"), dispatcher.Logged())
	r.d.Register(CmdRelease, r.release, dispatcher.Targeted(), dispatcher.Requires("reservation"), dispatcher.Logged())
	r.d.Register(CmdSAM, r.emplace, dispatcher.Targeted(), dispatcher.Logged())
	r.d.Register(CmdStatus, r.status, dispatcher.Targeted())
	r.d.Register(CmdGroups, r.groups, dispatcher.Targeted(), dispatcher.Requires("against"))
	r.d.Register(CmdNextTurn, r.nextTurn, dispatcher.Logged())
}

// Commands returns the names of the supported commands.
func (r *Runner) Commands() []string {
	return r.d.Commands()
}

// Exec runs a single command.
func (r *Runner) Exec(cmd Command) (any, error) {
	return r.d.Dispatch(dispatcher.Event{
		Command: cmd.Command,
		Target:  cmd.Target,
		Args:    cmd.Args,
		Turn:    r.theater.Turn(),
	})
}

// Run adds the scenario's control points and executes its commands in order.
// A failing command is recorded in its step and does not stop the run.
func (r *Runner) Run(s *Scenario) ([]Step, error) {
	for _, cp := range s.ControlPoints {
		if _, err := r.theater.Add(cp); err != nil {
			return nil, fmt.Errorf("adding control point: %w", err)
		}
	}

	steps := make([]Step, 0, len(s.Commands))
	for _, cmd := range s.Commands {
		step := Step{
			Turn:    r.theater.Turn(),
			Command: cmd.Command,
			Target:  cmd.Target,
		}
		result, err := r.Exec(cmd)
		if err != nil {
			step.Error = err.Error()
			r.log.Warn("command rejected", "command", cmd.Command, "target", cmd.Target, "error", err)
		} else {
			step.Result = result
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (r *Runner) station(e dispatcher.Event) (*theater.Station, error) {
	return r.theater.Get(e.Target)
}

func (r *Runner) commission(e dispatcher.Event) (any, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, err
	}
	units, err := argCounts(e, "units")
	if err != nil {
		return nil, err
	}
	if err := s.Base.CommisionUnits(units); err != nil {
		return nil, err
	}
	return statusOf(s.Base), nil
}

func (r *Runner) losses(e dispatcher.Event) (any, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, err
	}
	units, err := argCounts(e, "units")
	if err != nil {
		return nil, err
	}
	s.Base.CommitLosses(units)
	return statusOf(s.Base), nil
}

// filter keeps the unit types listed in "types", matched by the "select"
// expression or able to perform "task".
func (r *Runner) filter(e dispatcher.Event) (any, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, err
	}

	var allowed []core.UnitType
	if _, ok := e.Arg("task"); ok {
		task, err := argString(e, "task")
		if err != nil {
			return nil, err
		}
		if !core.Task(task).Valid() {
			return nil, fmt.Errorf("%s: %w: %s", e.Command, base.ErrUnsupportedTask, task)
		}
		allowed = r.catalog.UnitsByTask(core.Task(task))
	} else if _, ok := e.Arg("select"); ok {
		src, err := argString(e, "select")
		if err != nil {
			return nil, err
		}
		if allowed, err = r.catalog.Select(src); err != nil {
			return nil, err
		}
	} else {
		names, err := argStrings(e, "types")
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			allowed = append(allowed, core.UnitType(n))
		}
	}

	s.Base.FilterUnits(allowed)
	return statusOf(s.Base), nil
}

func (r *Runner) points(e dispatcher.Event) (any, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, err
	}
	task, err := argString(e, "task")
	if err != nil {
		return nil, err
	}
	if !core.Task(task).Valid() {
		return nil, fmt.Errorf("%s: %w: %s", e.Command, base.ErrUnsupportedTask, task)
	}
	pts, err := argFloat(e, "points")
	if err != nil {
		return nil, err
	}
	units := s.Base.AppendCommisionPoints(core.Task(task), pts)
	return map[string]any{
		"units":     units,
		"remaining": s.Base.CommisionPoints(core.Task(task)),
	}, nil
}

func (r *Runner) deliver(e dispatcher.Event) (any, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, err
	}
	t, err := argString(e, "type")
	if err != nil {
		return nil, err
	}
	pts, err := argFloat(e, "points")
	if err != nil {
		return nil, err
	}
	delivered, err := s.Base.Deliver(core.UnitType(t), pts)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"delivered": delivered,
		"status":    statusOf(s.Base),
	}, nil
}

func (r *Runner) strength(e dispatcher.Event) (any, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, err
	}
	delta, err := argFloat(e, "delta")
	if err != nil {
		return nil, err
	}
	s.Base.AffectStrength(delta)
	return map[string]float64{"strength": s.Base.Strength()}, nil
}

// scramble runs an allocation query. Missions against another control point
// name it in "against"; "reserve: true" holds the allocated units.
func (r *Runner) scramble(e dispatcher.Event) (any, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, err
	}
	mission, err := argString(e, "mission")
	if err != nil {
		return nil, err
	}

	against := func() (core.ControlPoint, error) {
		name := e.Target
		if _, ok := e.Arg("against"); ok {
			if name, err = argString(e, "against"); err != nil {
				return core.ControlPoint{}, err
			}
		}
		target, err := r.theater.Get(name)
		if err != nil {
			return core.ControlPoint{}, err
		}
		return target.ControlPoint, nil
	}

	var a base.Allocation
	aircraft := true
	switch mission {
	case "cas":
		cp, err := against()
		if err != nil {
			return nil, err
		}
		a = s.Base.ScrambleCAS(cp)
	case "sweep":
		cp, err := against()
		if err != nil {
			return nil, err
		}
		a = s.Base.ScrambleSweep(cp)
	case "interceptors":
		if _, ok := e.Arg("count"); ok {
			n, err := argInt(e, "count")
			if err != nil {
				return nil, err
			}
			if a, err = s.Base.ScrambleInterceptorsCount(n); err != nil {
				return nil, err
			}
		} else {
			ratio, err := argFloat(e, "ratio")
			if err != nil {
				return nil, err
			}
			a = s.Base.ScrambleInterceptors(ratio)
		}
	case "cap":
		cp, err := against()
		if err != nil {
			return nil, err
		}
		a = s.Base.AssembleCAP(cp)
		aircraft = false
	case "defense":
		ratio, err := argFloat(e, "ratio")
		if err != nil {
			return nil, err
		}
		a = s.Base.AssembleDefense(ratio)
		aircraft = false
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMission, mission)
	}

	res := allocationResult(a)
	if aircraft {
		res.Groups = slices.Collect(s.Base.GroupSizes(res.Allocated))
	}

	if argBool(e, "reserve") && res.Allocated > 0 {
		rsv, err := s.Base.Reserve(a)
		if err != nil {
			return nil, err
		}
		if r.reservations[e.Target] == nil {
			r.reservations[e.Target] = make(map[uint64]*base.Reservation)
		}
		r.reservations[e.Target][rsv.ID()] = rsv
		res.Reservation = rsv.ID()
	}
	return res, nil
}

func (r *Runner) reservation(e dispatcher.Event) (*theater.Station, *base.Reservation, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, nil, err
	}
	id, err := argInt(e, "reservation")
	if err != nil {
		return nil, nil, err
	}
	rsv, ok := r.reservations[e.Target][uint64(id)]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s #%d", ErrUnknownReservation, e.Target, id)
	}
	return s, rsv, nil
}

func (r *Runner) commit(e dispatcher.Event) (any, error) {
	s, rsv, err := r.reservation(e)
	if err != nil {
		return nil, err
	}
	var losses core.UnitCounts
	if _, ok := e.Arg("losses"); ok {
		if losses, err = argCounts(e, "losses"); err != nil {
			return nil, err
		}
	}
	if err := rsv.Commit(losses); err != nil {
		return nil, err
	}
	delete(r.reservations[e.Target], rsv.ID())
	return statusOf(s.Base), nil
}

func (r *Runner) release(e dispatcher.Event) (any, error) {
	s, rsv, err := r.reservation(e)
	if err != nil {
		return nil, err
	}
	if err := rsv.Release(); err != nil {
		return nil, err
	}
	delete(r.reservations[e.Target], rsv.ID())
	return statusOf(s.Base), nil
}

// emplace generates an air-defense group at the control point, or at the map
// position given as "at" ("x,y" or "x,y,z"). The cheapest generator of the
// "range" class is used, short by default.
func (r *Runner) emplace(e dispatcher.Event) (any, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, err
	}

	class := sam.Short
	if _, ok := e.Arg("range"); ok {
		name, err := argString(e, "range")
		if err != nil {
			return nil, err
		}
		if class, err = sam.ParseRange(name); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Command, err)
		}
	}
	candidates := sam.ByRange(r.sam, class)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s range", ErrNoGenerator, class)
	}
	gen := slices.MinFunc(candidates, func(a, b sam.Generator) int {
		return cmp.Compare(a.Price(), b.Price())
	})

	pos := s.ControlPoint.Position
	if _, ok := e.Arg("at"); ok {
		at, err := argString(e, "at")
		if err != nil {
			return nil, err
		}
		if pos, err = geo.Position3DFromString(at); err != nil {
			return nil, fmt.Errorf("%s: at %q: %w", e.Command, at, err)
		}
	}

	var heading float64
	if _, ok := e.Arg("heading"); ok {
		if heading, err = argFloat(e, "heading"); err != nil {
			return nil, err
		}
	}
	res, err := groupResult(gen, gen.Generate(pos, heading))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) status(e dispatcher.Event) (any, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, err
	}
	return statusOf(s.Base), nil
}

func (r *Runner) nextTurn(dispatcher.Event) (any, error) {
	return map[string]int{"turn": r.theater.NextTurn()}, nil
}

// groups reports the flights the target's base would send against another
// control point at full strength.
func (r *Runner) groups(e dispatcher.Event) (any, error) {
	s, err := r.station(e)
	if err != nil {
		return nil, err
	}
	name, err := argString(e, "against")
	if err != nil {
		return nil, err
	}
	target, err := r.theater.Get(name)
	if err != nil {
		return nil, err
	}
	return map[string][]int{"groups": slices.Collect(s.Base.GroupSizesFor(target.ControlPoint))}, nil
}
