// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gdsim implements the simulation driver (spec.md §4.4): the state
// machine, the power-flow voltage/power loops, the three dynamic-simulation
// strategies, and the event-driven power-flow loop, all built on gdcomp's
// component tree and gdevent's event queue. Grounded on fem/fem.go's
// Solution-stepping driver and fem/domain.go's per-domain solver-handle
// ownership, generalized from one fixed-mesh finite-element time loop to a
// multi-mode, multi-strategy power-system driver.
package gdsim

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdevent"
	"github.com/cpmech/griddyn/gdmode"
	"github.com/cpmech/griddyn/network"
)

// State is the driver's monotone progress marker (spec.md §4.4): a
// simulation normally advances left to right and never regresses except
// into the GDError sink.
type State int

const (
	Startup State = iota
	Initialized
	PowerflowComplete
	DynamicInitialized
	DynamicPartial
	DynamicComplete
	GDError
)

func (s State) String() string {
	switch s {
	case Startup:
		return "startup"
	case Initialized:
		return "initialized"
	case PowerflowComplete:
		return "powerflow_complete"
	case DynamicInitialized:
		return "dynamic_initialized"
	case DynamicPartial:
		return "dynamic_partial"
	case DynamicComplete:
		return "dynamic_complete"
	case GDError:
		return "gd_error"
	}
	return "unknown"
}

// DynamicStrategy selects which of the three dynamic-simulation approaches
// StepDynamic uses (spec.md §4.4 "three strategies").
type DynamicStrategy int

const (
	MonolithicDAE DynamicStrategy = iota
	Partitioned
	Decoupled
)

// Tolerances bundles the driver's per-run scalars (spec.md §4.4, §5
// "iteration caps").
type Tolerances struct {
	ResidualTol          float64
	MaxVAdjustIterations int
	MaxPAdjustIterations int
	MaxIterations         int
	PowerAdjustEnabled    bool
	PowerAdjustThreshold  float64
	NoAutoDisconnect      bool
	NoPowerflowErrorRecovery bool
	SmallStepStallLimit   int
	TimeTol               float64
	LinSolName            string
}

// DefaultTolerances returns the defaults named in spec.md §4.4/§5.
func DefaultTolerances() Tolerances {
	return Tolerances{
		ResidualTol:              1e-6,
		MaxVAdjustIterations:     30,
		MaxPAdjustIterations:     15,
		MaxIterations:            30,
		PowerAdjustEnabled:       false,
		PowerAdjustThreshold:     1e-3,
		NoAutoDisconnect:         false,
		NoPowerflowErrorRecovery: false,
		SmallStepStallLimit:      10,
		TimeTol:                  1e-9,
		LinSolName:               "umfpack",
	}
}

// Driver owns the root Area, the event queue, one SolverHandle per
// referenced SolverMode (indexed by Mode.OffsetIndex, spec.md §4.4/§5
// "Solver handles are owned one-per-mode by the driver"), the current
// state, and the run-time tolerances.
type Driver struct {
	Root    *network.Area
	Queue   *gdevent.Queue
	Tol     Tolerances
	Strategy DynamicStrategy

	state   State
	handles map[int]*SolverHandle

	currentTime float64
	alerts      []gdcomp.Alert
	flags       flagSet
}

// flagSet is the small set of recovery/adjustment one-shot flags spec.md
// §4.5 describes as "recorded in a flag so it is not repeated" (e.g.
// pqlowvlimit already applied once).
type flagSet struct {
	pqLowVLimitApplied bool
	lowVDisconnectSet  bool
}

// NewDriver wires a root Area and event queue into a fresh driver at
// Startup, ready for makeReady to advance.
func NewDriver(root *network.Area, tol Tolerances) *Driver {
	d := &Driver{
		Root:    root,
		Queue:   gdevent.NewQueue(tol.TimeTol),
		Tol:     tol,
		handles: make(map[int]*SolverHandle),
		state:   Startup,
	}
	root.SetAlertSink(d)
	return d
}

// PostAlert implements gdcomp.AlertSink: the driver is the root's sink, per
// spec.md §9's replacement for upward pointer-walk propagation.
func (d *Driver) PostAlert(a gdcomp.Alert) { d.alerts = append(d.alerts, a) }

// State returns the driver's current progress marker.
func (d *Driver) State() State { return d.state }

// drainAlerts returns and clears the posted alerts, reducing them to the
// maximum ChangeCode implied (spec.md §5 "Change-code returns are monotonic
// maxima over a step").
func (d *Driver) drainAlerts() gdmode.ChangeCode {
	max := gdmode.NoChange
	for _, a := range d.alerts {
		max = gdmode.Max(max, a.Change)
	}
	d.alerts = d.alerts[:0]
	return max
}

// handleFor returns (allocating if necessary) the SolverHandle for mode,
// keyed by its OffsetIndex (spec.md §5 "Solver handles are owned one-per-
// mode by the driver").
func (d *Driver) handleFor(mode gdmode.Mode) *SolverHandle {
	if h, ok := d.handles[mode.OffsetIndex]; ok {
		return h
	}
	h := NewSolverHandle(d.Root, mode)
	d.handles[mode.OffsetIndex] = h
	return h
}

// reInitHandle discards and reallocates the handle for mode, used after a
// structural change whose ChangeCode is state_count_change or higher.
func (d *Driver) reInitHandle(mode gdmode.Mode) *SolverHandle {
	delete(d.handles, mode.OffsetIndex)
	return d.handleFor(mode)
}

// makeReady walks the state machine forward to desired, running whatever
// init/power-flow/dynamic-init steps are needed (spec.md §4.4
// "makeReady(desired, mode)"). If the driver is already at or past the
// target it only makes sure a solver handle exists for mode; an existing
// handle's offsets and allocations are kept as they are.
func (d *Driver) makeReady(desired State, mode gdmode.Mode) error {
	if d.state == GDError {
		return chk.Err("gdsim: driver is in GD_ERROR state")
	}
	if d.state >= desired {
		d.handleFor(mode) // allocates a handle only if none exists for mode
		return nil
	}
	for d.state < desired {
		switch d.state {
		case Startup:
			if err := d.initialize(); err != nil {
				d.state = GDError
				return err
			}
			d.state = Initialized
		case Initialized:
			if err := d.PowerFlow(); err != nil {
				d.state = GDError
				return err
			}
			d.state = PowerflowComplete
		case PowerflowComplete:
			if err := d.DynamicInitialize(mode); err != nil {
				d.state = GDError
				return err
			}
			d.state = DynamicInitialized
		default:
			return nil
		}
	}
	return nil
}

// initialize runs the pre-power-flow network check (spec.md §4.4
// "Pre-power-flow network check").
func (d *Driver) initialize() error {
	return d.networkCheck()
}

// networkCheck disables buses that cannot participate, partitions the
// remainder into connected components along the link graph, and ensures
// each component has a slack bus — promoting the highest-up-capacity PV bus
// if none exists, or disconnecting the component if auto-disconnect is
// permitted.
func (d *Driver) networkCheck() error {
	components := connectedComponents(d.Root)
	for _, comp := range components {
		if hasSlack(comp) {
			continue
		}
		if p := bestPromotionCandidate(comp); p != nil {
			p.Type = network.Slack
			continue
		}
		if d.Tol.NoAutoDisconnect {
			return &SolverOperationError{Op: "networkCheck", Code: NoSlackBusFound}
		}
		for _, b := range comp {
			b.Flags = b.Flags.Set(gdcomp.FlagDisabled)
		}
	}
	return nil
}

// connectedComponents partitions the area's buses into groups connected by
// non-tripped links (spec.md §4.4 "a connected-components pass follows the
// link graph").
func connectedComponents(a *network.Area) [][]*network.Bus {
	adj := make(map[*network.Bus][]*network.Bus)
	for _, l := range a.Links {
		if l.Tripped {
			continue
		}
		f, t := l.Terminals()
		adj[f] = append(adj[f], t)
		adj[t] = append(adj[t], f)
	}
	seen := make(map[*network.Bus]bool)
	var groups [][]*network.Bus
	for _, b := range a.Buses {
		if seen[b] {
			continue
		}
		var group []*network.Bus
		stack := []*network.Bus{b}
		seen[b] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			group = append(group, cur)
			for _, nb := range adj[cur] {
				if !seen[nb] {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func hasSlack(comp []*network.Bus) bool {
	for _, b := range comp {
		if b.Type == network.Slack {
			return true
		}
	}
	return false
}

// bestPromotionCandidate returns the PV bus with the highest VSetpoint in
// comp (standing in for "highest up-capacity", since this port's Bus has no
// explicit generation-capacity field), or nil if none exists.
func bestPromotionCandidate(comp []*network.Bus) *network.Bus {
	var best *network.Bus
	for _, b := range comp {
		if b.Type != network.PV {
			continue
		}
		if best == nil || b.VSetpoint > best.VSetpoint {
			best = b
		}
	}
	return best
}

// PowerFlow runs the voltage loop (and, if enabled, the power loop) to
// converge the algebraic network state (spec.md §4.4 "Power flow").
func (d *Driver) PowerFlow() error {
	if err := d.networkCheck(); err != nil {
		return err
	}
	h := d.handleFor(gdmode.PowerFlow)
	preSlackGen := d.totalSlackGeneration()

	for p := 0; ; p++ {
		if err := d.voltageLoop(h); err != nil {
			if !d.Tol.NoPowerflowErrorRecovery {
				return d.recoverPowerFlow(h, err)
			}
			return err
		}
		if !d.Tol.PowerAdjustEnabled || p >= d.Tol.MaxPAdjustIterations {
			break
		}
		postSlackGen := d.totalSlackGeneration()
		if math.Abs(postSlackGen-preSlackGen) <= d.Tol.PowerAdjustThreshold {
			break
		}
		d.redistributeSlackGeneration(postSlackGen - preSlackGen)
		preSlackGen = postSlackGen
	}
	return nil
}

// voltageLoop implements the reversible-adjustment voltage loop followed by
// one full_check pass (spec.md §4.4 "Voltage loop").
func (d *Driver) voltageLoop(h *SolverHandle) error {
	sd := &gdmode.StateData{}
	h.GuessState(d.currentTime)
	for i := 0; i < d.Tol.MaxVAdjustIterations; i++ {
		sd.Time = d.currentTime
		sd.State = h.State()
		_, converged, err := h.solveAlgebraic(sd, d.Tol.LinSolName, d.Tol.ResidualTol, d.Tol.MaxIterations)
		if err != nil {
			return err
		}
		if !converged {
			return &SolverOperationError{Op: "powerFlow.voltageLoop", Code: SolverConvergenceError}
		}
		h.SetState(d.currentTime)
		change := d.powerFlowAdjust(true)
		if change < gdmode.NonStateChange {
			break
		}
		if change >= gdmode.StateCountChange {
			h = d.reInitHandle(gdmode.PowerFlow)
		}
	}
	change := d.powerFlowAdjustFullCheck()
	if change >= gdmode.NonStateChange {
		return d.voltageLoop(h)
	}
	return nil
}

// powerFlowAdjust runs the reversible adjustment pass: trip relays whose
// RootTest crosses zero. reversableOnly, kept as a named parameter per
// spec.md's powerFlowAdjust(reversable_only) call, currently has no
// distinct non-reversible-only path beyond the full_check pass below.
func (d *Driver) powerFlowAdjust(reversableOnly bool) gdmode.ChangeCode {
	max := gdmode.NoChange
	for _, r := range d.Root.Relays {
		roots := make([]float64, 1)
		r.RootTest(nil, nil, roots, gdmode.PowerFlow)
		if roots[0] < 0 {
			max = gdmode.Max(max, r.RootTrigger(d.currentTime, nil, []bool{true}, gdmode.PowerFlow))
		}
	}
	return gdmode.Max(max, d.drainAlerts())
}

// powerFlowAdjustFullCheck is spec.md's non-reversible full_check pass: it
// re-applies high-angle-trip (§4.5 stage 5) as the one full-tree structural
// re-check the voltage loop re-tries on.
func (d *Driver) powerFlowAdjustFullCheck() gdmode.ChangeCode {
	return d.tripHighAngleLinks()
}

// tripHighAngleLinks disconnects links whose terminal angle differential
// exceeds pi/2 (spec.md §4.5 stage 5, reused by full_check per §4.4).
func (d *Driver) tripHighAngleLinks() gdmode.ChangeCode {
	max := gdmode.NoChange
	for _, l := range d.Root.Links {
		if l.Tripped {
			continue
		}
		from, to := l.Terminals()
		diff := math.Abs(from.Angle() - to.Angle())
		if diff > math.Pi/2 {
			l.Tripped = true
			max = gdmode.Max(max, gdmode.ObjectChange)
		}
	}
	return max
}

// totalSlackGeneration sums the real-power injection of every slack-bus
// generator, the quantity the power loop tracks for redistribution.
func (d *Driver) totalSlackGeneration() float64 {
	total := 0.0
	for _, g := range d.Root.Generators {
		if g.Bus.Type == network.Slack {
			p, _ := g.Inject(nil, gdmode.PowerFlow)
			total += p
		}
	}
	return total
}

// redistributeSlackGeneration spreads delta across non-slack generators
// proportionally to their present output (spec.md §4.4 "Power loop":
// "redistribute ... proportionally to available up/down capacity"). The
// power loop's own caller (PowerFlow) re-runs voltageLoop right after this,
// which re-seeds every bus's V/A state from VSetpoint/0 via GuessState
// before the Newton solve starts — that is the "reset the slack buses"
// step spec.md §4.4 names, so nothing further needs doing here once the
// participant generators' Pm has been adjusted.
func (d *Driver) redistributeSlackGeneration(delta float64) {
	var participants []*network.Generator
	total := 0.0
	for _, g := range d.Root.Generators {
		if g.Bus.Type == network.Slack {
			continue
		}
		participants = append(participants, g)
		total += g.Pm
	}
	if len(participants) == 0 || total == 0 {
		return
	}
	for _, g := range participants {
		share := g.Pm / total
		g.Pm -= delta * share
	}
}

// recoverPowerFlow runs the staged power-flow error-recovery strategy
// (spec.md §4.5) and retries the voltage loop once more if it reports
// more_options.
func (d *Driver) recoverPowerFlow(h *SolverHandle, cause error) error {
	rec := &PowerFlowRecovery{Driver: d, Handle: h}
	for {
		outcome, err := rec.AttemptFix(cause)
		if err != nil {
			return err
		}
		if outcome == OutOfOptions {
			return cause
		}
		if verr := d.voltageLoop(h); verr == nil {
			return nil
		} else {
			cause = verr
		}
	}
}

// DynamicInitialize computes consistent initial conditions for mode
// (spec.md §4.4 "pre-roll (init -> power flow -> dynamic init)").
func (d *Driver) DynamicInitialize(mode gdmode.Mode) error {
	h := d.handleFor(mode)
	h.GuessState(d.currentTime)
	sd := &gdmode.StateData{Time: d.currentTime, State: h.State(), Cj: 0}
	_, converged, err := h.solveAlgebraic(sd, d.Tol.LinSolName, d.Tol.ResidualTol, d.Tol.MaxIterations)
	if err != nil || !converged {
		rec := &DynamicICRecovery{Driver: d, Handle: h}
		if _, ferr := rec.AttemptFix(err); ferr != nil {
			return ferr
		}
	}
	h.SetState(d.currentTime)
	return nil
}

// StepDynamic advances the dynamic solve from the current time to
// targetTime using the driver's configured DynamicStrategy (spec.md §4.4
// "Dynamic simulation -- three strategies").
func (d *Driver) StepDynamic(targetTime float64) error {
	switch d.Strategy {
	case MonolithicDAE:
		return d.stepMonolithicDAE(targetTime)
	case Partitioned:
		return d.stepPartitioned(targetTime)
	case Decoupled:
		return &FunctionExecutionError{Detail: "decoupled dynamic strategy is reserved, not implemented"}
	}
	return &FunctionExecutionError{Detail: "unknown dynamic strategy"}
}

// stepMonolithicDAE integrates currentTime->targetTime in an inner loop
// that halves the step whenever a relay root fires partway through, so the
// trip is applied close to where it actually crossed instead of being
// silently skipped (spec.md §4.4 "Roots must fire during a dynamic run").
// SmallStepStallLimit bounds how many times one call may halve before
// giving up, the bounded-work guarantee spec.md §5 names for a root that
// keeps re-triggering at the same instant.
func (d *Driver) stepMonolithicDAE(targetTime float64) error {
	h := d.handleFor(gdmode.DAE)
	step := targetTime - d.currentTime
	halvings := 0
	for d.currentTime < targetTime-d.Tol.TimeTol {
		stepEnd := d.currentTime + step
		if stepEnd > targetTime {
			stepEnd = targetTime
		}

		saved := append([]float64(nil), h.State()...)
		sd := &gdmode.StateData{Time: d.currentTime}
		if err := h.integrateDynamic(sd, d.currentTime, stepEnd, d.Tol.ResidualTol, d.Tol.ResidualTol); err != nil {
			if rerr := d.rootCheckLowVoltage(); rerr != nil {
				return rerr
			}
			return err
		}
		h.SetState(stepEnd)

		if change := d.dynamicRootCheck(stepEnd); change >= gdmode.NonStateChange {
			if stepEnd-d.currentTime > d.Tol.TimeTol {
				halvings++
				if halvings >= d.Tol.SmallStepStallLimit {
					return &FunctionExecutionError{Detail: "stepMonolithicDAE: relay root did not settle within SmallStepStallLimit halvings"}
				}
				copy(h.State(), saved)
				h.SetState(d.currentTime)
				step /= 2
				continue
			}
			if change >= gdmode.StateCountChange {
				h = d.reInitHandle(gdmode.DAE)
			}
		}

		d.currentTime = stepEnd
		step = targetTime - d.currentTime
		halvings = 0
	}
	return nil
}

// dynamicRootCheck evaluates every relay's root at time t and fires any
// that have crossed, the dynamic-mode counterpart of powerFlowAdjust's
// relay pass.
func (d *Driver) dynamicRootCheck(t float64) gdmode.ChangeCode {
	max := gdmode.NoChange
	for _, r := range d.Root.Relays {
		roots := make([]float64, 1)
		r.RootTest(nil, nil, roots, gdmode.DAE)
		if roots[0] < 0 {
			max = gdmode.Max(max, r.RootTrigger(t, nil, []bool{true}, gdmode.DAE))
		}
	}
	return max
}

// stepPartitioned integrates the differential half with one handle, then
// hands its post-step state to the algebraic handle's Newton solve via the
// paired-index mechanism (spec.md §4.4 "Partitioned").
func (d *Driver) stepPartitioned(targetTime float64) error {
	diffH := d.handleFor(gdmode.DynDifferential)
	algH := d.handleFor(gdmode.DynAlgebraic)

	sd := &gdmode.StateData{Time: d.currentTime}
	if err := diffH.integrateDynamic(sd, d.currentTime, targetTime, d.Tol.ResidualTol, d.Tol.ResidualTol); err != nil {
		return err
	}
	diffH.SetState(targetTime)

	algSD := &gdmode.StateData{
		Time:                  targetTime,
		ExtraStateInformation: map2slice(diffH.State(), gdmode.DynDifferential.OffsetIndex),
	}
	_, converged, err := algH.solveAlgebraic(algSD, d.Tol.LinSolName, d.Tol.ResidualTol, d.Tol.MaxIterations)
	if err != nil {
		return err
	}
	if !converged {
		return &SolverOperationError{Op: "dynAlgebraicSolve", Code: SolverConvergenceError}
	}
	algH.SetState(targetTime)
	d.currentTime = targetTime
	return nil
}

// map2slice builds the ExtraStateInformation table StateData needs to hand
// one partitioned half's state to the other (spec.md §4.1 "either the
// StateData carries it ... or the driver has prepopulated
// extraStateInformation").
func map2slice(state []float64, atIndex int) [][]float64 {
	out := make([][]float64, atIndex+1)
	out[atIndex] = state
	return out
}

// rootCheckLowVoltage runs RootCheck on every bus, the integrator-failure
// recovery path spec.md §4.4 names for an invalid-state error.
func (d *Driver) rootCheckLowVoltage() error {
	for _, b := range d.Root.Buses {
		if err := b.RootCheck(nil, gdmode.DAE); err != nil {
			return err
		}
	}
	return nil
}

// RunEventDriven executes the event-driven power-flow loop up to endTime,
// arming a periodic null event every tStep so a power flow is re-solved at
// least that often even without events firing (spec.md §4.4 "Event-driven
// power flow").
func (d *Driver) RunEventDriven(endTime, tStep float64) error {
	d.Queue.NullEventTime(d.currentTime+tStep, tStep)
	for d.currentTime < endTime {
		next, ok := d.Queue.NextTime()
		if !ok || next > endTime {
			next = endTime
		}
		d.currentTime = next

		aChange := d.Queue.ExecuteEventsAonly(d.currentTime)
		if aChange >= gdmode.ParameterChange {
			if err := d.PowerFlow(); err != nil {
				return err
			}
		}
		d.Queue.ExecuteEventsBonly(d.currentTime)
		bChange := d.drainAlerts()
		if bChange >= gdmode.ParameterChange {
			if err := d.PowerFlow(); err != nil {
				return err
			}
		}
	}
	return nil
}
