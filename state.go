// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderloop

import (
	"fmt"
	"strings"
)

// RenderMode selects when the thread draws.
type RenderMode int

const (
	// RenderWhenDirty draws only after RequestRender, a resize, a resume
	// or a new surface.
	RenderWhenDirty RenderMode = iota

	// RenderContinuously draws on every pass.
	RenderContinuously
)

func (m RenderMode) valid() bool {
	return m == RenderWhenDirty || m == RenderContinuously
}

func (m RenderMode) String() string {
	switch m {
	case RenderWhenDirty:
		return "when-dirty"
	case RenderContinuously:
		return "continuously"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// ParseRenderMode parses the names produced by RenderMode.String.
func ParseRenderMode(s string) (RenderMode, error) {
	for _, m := range []RenderMode{RenderWhenDirty, RenderContinuously} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return RenderWhenDirty, fmt.Errorf("%w: %q", ErrInvalidRenderMode, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RenderMode) UnmarshalText(text []byte) error {
	v, err := ParseRenderMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m RenderMode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRenderMode, int(m))
	}
	return []byte(m.String()), nil
}

// State is the lifecycle state of a Thread, derived from its flags.
type State int

const (
	// StateIdle is a thread that has not run a scheduling pass yet, or has
	// no host surface and has not noticed it.
	StateIdle State = iota

	// StateWaitingForSurface is a thread waiting for the host to report a
	// surface.
	StateWaitingForSurface

	// StateHasSurfaceNoContext has a host surface but does not own a
	// context, either before the first acquisition or while another thread
	// holds the only one.
	StateHasSurfaceNoContext

	// StateHasContextNoBinding owns a context but has no usable surface
	// binding: it is not created yet, or binding or presenting failed and
	// the thread waits for the host to recreate the surface.
	StateHasContextNoBinding

	// StateReady is bound and sized, waiting for a render request.
	StateReady

	// StateDrawing has a frame in flight.
	StateDrawing

	// StatePaused is paused by the host.
	StatePaused

	// StateExiting was asked to exit or has exited.
	StateExiting
)

var stateNames = [...]string{
	StateIdle:                "idle",
	StateWaitingForSurface:   "waiting-for-surface",
	StateHasSurfaceNoContext: "has-surface-no-context",
	StateHasContextNoBinding: "has-context-no-binding",
	StateReady:               "ready",
	StateDrawing:             "drawing",
	StatePaused:              "paused",
	StateExiting:             "exiting",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// stepEnv is what a scheduling pass needs from outside the flags: the
// arbiter, the host preference and native teardown. All methods run with
// the monitor held, on the render goroutine.
type stepEnv interface {
	tryAcquire() bool
	release()
	shouldReleaseOnPause() bool
	shouldTerminateOnPause() bool
	preserveOnPause() bool

	// destroySurface releases the surface binding.
	destroySurface()

	// finish destroys the context and closes the display connection.
	finish() error

	// terminate closes the display connection.
	terminate()

	notifyAll()
}

type outcomeKind int

const (
	outcomeWait outcomeKind = iota
	outcomeExit
	outcomeEvent
	outcomeDraw
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeWait:
		return "wait"
	case outcomeExit:
		return "exit"
	case outcomeEvent:
		return "event"
	case outcomeDraw:
		return "draw"
	default:
		return fmt.Sprintf("outcomeKind(%d)", int(k))
	}
}

// drawPlan is the native work of one frame, decided under the monitor and
// executed outside it.
type drawPlan struct {
	createContext bool
	createSurface bool

	// sized asks for an OnSurfaceSized delivery at width x height.
	sized         bool
	width, height int

	// resizeSeq is the resize request the frame answers, or zero.
	resizeSeq uint64
}

// merge folds a new plan into work left over from an interrupted frame.
func (p *drawPlan) merge(o drawPlan) {
	p.createContext = p.createContext || o.createContext
	p.createSurface = p.createSurface || o.createSurface
	p.sized = p.sized || o.sized
	p.width, p.height = o.width, o.height
	if o.resizeSeq > p.resizeSeq {
		p.resizeSeq = o.resizeSeq
	}
}

type outcome struct {
	kind  outcomeKind
	event func()
	plan  drawPlan
}

// machine holds the flags of one render thread. Every field is guarded by
// the arbiter monitor.
type machine struct {
	shouldExit bool
	exited     bool

	requestPaused bool
	paused        bool

	// hasSurface is the host's view; haveSurface is ours.
	hasSurface        bool
	surfaceIsBad      bool
	waitingForSurface bool
	finishedCreating  bool

	haveContext bool
	haveSurface bool

	shouldReleaseContext  bool
	askedToReleaseContext bool
	contextLost           bool

	width, height int
	sizeChanged   bool
	renderMode    RenderMode
	requestRender bool

	renderComplete bool

	// resizeSeq counts resize requests; completedResize is the latest one
	// answered by a drawn frame.
	resizeSeq       uint64
	completedResize uint64

	drawing bool
	events  []func()
}

func newMachine(mode RenderMode) *machine {
	return &machine{renderMode: mode, requestRender: true}
}

func (m *machine) readyToDraw() bool {
	return !m.paused && m.hasSurface && !m.surfaceIsBad &&
		m.width > 0 && m.height > 0 &&
		(m.requestRender || m.renderMode == RenderContinuously)
}

func (m *machine) ableToDraw() bool {
	return m.haveContext && m.haveSurface && m.readyToDraw()
}

func (m *machine) state() State {
	switch {
	case m.exited || m.shouldExit:
		return StateExiting
	case m.paused:
		return StatePaused
	case !m.hasSurface && m.waitingForSurface:
		return StateWaitingForSurface
	case !m.hasSurface:
		return StateIdle
	case !m.haveContext:
		return StateHasSurfaceNoContext
	case !m.haveSurface || m.surfaceIsBad:
		return StateHasContextNoBinding
	case m.drawing:
		return StateDrawing
	default:
		return StateReady
	}
}

func (m *machine) stopSurface(env stepEnv) {
	if m.haveSurface {
		m.haveSurface = false
		env.destroySurface()
	}
}

func (m *machine) stopContext(env stepEnv) error {
	if !m.haveContext {
		return nil
	}
	m.haveContext = false
	err := env.finish()
	env.release()
	return err
}

// step runs one scheduling pass. It returns the work to do outside the
// monitor, outcomeWait when there is none, or a fatal teardown error.
func (m *machine) step(env stepEnv) (outcome, error) {
	if m.shouldExit {
		return outcome{kind: outcomeExit}, nil
	}

	if len(m.events) > 0 {
		ev := m.events[0]
		m.events[0] = nil
		m.events = m.events[1:]
		return outcome{kind: outcomeEvent, event: ev}, nil
	}

	pausing := false
	if m.paused != m.requestPaused {
		pausing = m.requestPaused
		m.paused = m.requestPaused
		env.notifyAll()
	}

	if m.shouldReleaseContext {
		m.stopSurface(env)
		if err := m.stopContext(env); err != nil {
			return outcome{}, err
		}
		m.shouldReleaseContext = false
		m.askedToReleaseContext = true
	}

	if m.contextLost {
		m.stopSurface(env)
		if err := m.stopContext(env); err != nil {
			return outcome{}, err
		}
		m.contextLost = false
	}

	if pausing {
		m.stopSurface(env)
		if m.haveContext && (!env.preserveOnPause() || env.shouldReleaseOnPause()) {
			if err := m.stopContext(env); err != nil {
				return outcome{}, err
			}
		}
		if env.shouldTerminateOnPause() {
			if err := m.stopContext(env); err != nil {
				return outcome{}, err
			}
			env.terminate()
		}
	}

	if !m.hasSurface && !m.waitingForSurface {
		m.stopSurface(env)
		m.waitingForSurface = true
		m.surfaceIsBad = false
		env.notifyAll()
	}

	if m.hasSurface && m.waitingForSurface {
		m.waitingForSurface = false
		env.notifyAll()
	}

	if !m.readyToDraw() {
		return outcome{kind: outcomeWait}, nil
	}

	var plan drawPlan
	if !m.haveContext {
		if m.askedToReleaseContext {
			m.askedToReleaseContext = false
		} else if env.tryAcquire() {
			m.haveContext = true
			plan.createContext = true
			env.notifyAll()
		}
	}

	if m.haveContext && !m.haveSurface {
		m.haveSurface = true
		plan.createSurface = true
		plan.sized = true
	}

	if !m.haveSurface {
		return outcome{kind: outcomeWait}, nil
	}

	if m.sizeChanged {
		plan.sized = true
		plan.createSurface = true
		plan.resizeSeq = m.resizeSeq
		m.sizeChanged = false
	}
	plan.width, plan.height = m.width, m.height
	m.requestRender = false
	m.drawing = true
	env.notifyAll()
	return outcome{kind: outcomeDraw, plan: plan}, nil
}

// bindingCreated records the result of a surface binding attempt.
func (m *machine) bindingCreated(ok bool) {
	m.finishedCreating = true
	if !ok {
		m.surfaceIsBad = true
		m.drawing = false
	}
}

// contextFailed rolls back a context reservation whose creation failed.
func (m *machine) contextFailed(env stepEnv) {
	m.haveContext = false
	m.haveSurface = false
	m.drawing = false
	env.release()
}

// frameDone records the swap result and answers a pending resize.
func (m *machine) frameDone(swapped, lost bool, resizeSeq uint64) {
	switch {
	case lost:
		m.contextLost = true
	case !swapped:
		m.surfaceIsBad = true
	}
	if resizeSeq > m.completedResize {
		m.completedResize = resizeSeq
		m.renderComplete = true
	}
	m.drawing = false
}
