// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderloop

import (
	"sync"

	"github.com/gogpu/renderloop/native"
)

// contextHolder is a render thread as seen by the arbiter.
type contextHolder interface {
	// requestReleaseLocked asks the holder to release its context at its
	// next scheduling pass. Called with the monitor held.
	requestReleaseLocked()
}

// Arbiter serializes native context acquisition across render threads and
// owns the monitor that guards every thread's state.
//
// When the platform cannot keep several contexts alive, at most one thread
// owns a context. Another thread that wants one asks the owner to release
// it; the request is advisory, so renderer callbacks must return promptly.
//
// Create one arbiter per process and pass it to every Thread.
type Arbiter struct {
	mu   sync.Mutex
	cond *sync.Cond

	policy CapabilityPolicy
	probe  VersionProbe

	versionChecked  bool
	version         native.Version
	multipleAllowed bool

	driverChecked bool
	limited       bool

	owner contextHolder
}

// ArbiterOption configures an Arbiter.
type ArbiterOption func(*Arbiter)

// WithPolicy replaces the capability policy.
func WithPolicy(p CapabilityPolicy) ArbiterOption {
	return func(a *Arbiter) { a.policy = p }
}

// WithVersionProbe sets the probe for the platform API version. Without a
// probe the version stage runs with the API version of the first driver
// check.
func WithVersionProbe(probe VersionProbe) ArbiterOption {
	return func(a *Arbiter) { a.probe = probe }
}

// NewArbiter returns an arbiter with the default policy.
func NewArbiter(opts ...ArbiterOption) *Arbiter {
	a := &Arbiter{policy: DefaultPolicy()}
	a.cond = sync.NewCond(&a.mu)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Arbiter) notifyAll() { a.cond.Broadcast() }

// threadExiting clears the ownership of an exiting thread.
func (a *Arbiter) threadExiting(h contextHolder) {
	if a.owner == h {
		a.owner = nil
	}
	a.notifyAll()
}

// tryAcquire reports whether h may create a context. A thread becomes the
// owner when nobody else is. Otherwise it may proceed only when multiple
// contexts are allowed; if not, the current owner is asked to release.
func (a *Arbiter) tryAcquire(h contextHolder) bool {
	if a.owner == h || a.owner == nil {
		a.owner = h
		a.notifyAll()
		return true
	}
	a.checkVersion()
	if a.multipleAllowed {
		return true
	}
	// Advisory: the owner releases at its next pass; h retries when woken.
	a.owner.requestReleaseLocked()
	return false
}

// release clears ownership if h is the owner.
func (a *Arbiter) release(h contextHolder) {
	if a.owner == h {
		a.owner = nil
	}
	a.notifyAll()
}

// ShouldReleaseOnPause reports whether a pausing thread must destroy its
// context even if the host asked to preserve it. It is true until the
// driver check ran.
func (a *Arbiter) ShouldReleaseOnPause() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shouldReleaseOnPause()
}

func (a *Arbiter) shouldReleaseOnPause() bool {
	return !a.driverChecked || a.limited
}

// ShouldTerminateOnPause reports whether a pausing thread must also close
// its display connection. It is true unless multiple contexts are known to
// be supported.
func (a *Arbiter) ShouldTerminateOnPause() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shouldTerminateOnPause()
}

func (a *Arbiter) shouldTerminateOnPause() bool {
	a.checkVersion()
	return !a.multipleAllowed
}

// checkVersion runs the version stage of the capability probe once.
// Without a probe the stage waits for the first driver check.
func (a *Arbiter) checkVersion() {
	if a.versionChecked || a.probe == nil {
		return
	}
	v, err := a.probe()
	if err != nil {
		Logger().Warn("renderloop: version probe failed", "err", err)
	}
	a.applyVersion(v)
}

func (a *Arbiter) applyVersion(v native.Version) {
	a.version = v
	if a.policy.MultipleContexts(v) {
		a.multipleAllowed = true
	}
	a.versionChecked = true
}

// checkDriver runs the driver stage of the capability probe once, with the
// strings of the first context created on any thread.
func (a *Arbiter) checkDriver(info native.DriverInfo) {
	if a.driverChecked {
		return
	}
	a.checkVersion()
	if !a.versionChecked {
		a.applyVersion(info.API)
	}
	if !a.policy.MultipleContexts(a.version) {
		a.multipleAllowed = a.policy.DriverAllowsMultipleContexts(info)
		a.notifyAll()
	}
	a.limited = !a.multipleAllowed
	a.driverChecked = true
	Logger().Info("renderloop: driver checked",
		"renderer", info.Renderer,
		"version", a.version.String(),
		"multiple_contexts", a.multipleAllowed)
}

// Owner reports whether some thread currently owns the context.
func (a *Arbiter) Owner() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.owner != nil
}

// MultipleContextsAllowed reports the current capability decision. It is
// false until a probe stage confirmed support.
func (a *Arbiter) MultipleContextsAllowed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.multipleAllowed
}
