// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderloop

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/renderloop/native"
)

type fakeHolder struct {
	releaseRequests atomic.Int32
}

func (h *fakeHolder) requestReleaseLocked() { h.releaseRequests.Add(1) }

// denyAll never allows more than one context.
type denyAll struct{}

func (denyAll) MultipleContexts(native.Version) bool               { return false }
func (denyAll) DriverAllowsMultipleContexts(native.DriverInfo) bool { return false }

func versionProbe(v native.Version, calls *int) VersionProbe {
	return func() (native.Version, error) {
		*calls++
		return v, nil
	}
}

func TestArbiterSharedContexts(t *testing.T) {
	var probes int
	a := NewArbiter(WithVersionProbe(versionProbe(native.Version{Major: 3}, &probes)))
	first, second := &fakeHolder{}, &fakeHolder{}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.tryAcquire(first) {
		t.Fatal("first acquire failed")
	}
	if !a.tryAcquire(second) {
		t.Fatal("second acquire failed although multiple contexts are supported")
	}
	if a.owner != first {
		t.Error("a shared acquire must not change the owner")
	}
	if n := first.releaseRequests.Load(); n != 0 {
		t.Errorf("owner got %d release requests", n)
	}
	a.tryAcquire(second)
	a.shouldTerminateOnPause()
	if probes != 1 {
		t.Errorf("version probe ran %d times, want 1", probes)
	}
}

func TestArbiterExclusiveContext(t *testing.T) {
	var probes int
	a := NewArbiter(WithVersionProbe(versionProbe(native.Version{Major: 1, Minor: 1}, &probes)))
	first, second := &fakeHolder{}, &fakeHolder{}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.tryAcquire(first) {
		t.Fatal("first acquire failed")
	}
	if !a.tryAcquire(first) {
		t.Error("owner re-acquire failed")
	}
	if a.tryAcquire(second) {
		t.Fatal("second acquire succeeded on a single-context platform")
	}
	if n := first.releaseRequests.Load(); n != 1 {
		t.Errorf("owner got %d release requests, want 1", n)
	}

	a.release(second)
	if a.owner != first {
		t.Error("release by a non-owner cleared the owner")
	}
	a.release(first)
	if !a.tryAcquire(second) || a.owner != second {
		t.Error("acquire after release failed")
	}
	a.threadExiting(second)
	if a.owner != nil {
		t.Error("threadExiting kept the owner")
	}
}

func TestArbiterProbeError(t *testing.T) {
	calls := 0
	a := NewArbiter(WithVersionProbe(func() (native.Version, error) {
		calls++
		return native.Version{}, errors.New("no driver")
	}))
	if !a.ShouldTerminateOnPause() {
		t.Error("failed probe should be treated as a single-context platform")
	}
	a.ShouldTerminateOnPause()
	if calls != 1 {
		t.Errorf("probe ran %d times, want 1", calls)
	}
}

func TestArbiterReleaseOnPause(t *testing.T) {
	tests := []struct {
		name         string
		opts         []ArbiterOption
		info         native.DriverInfo
		wantRelease  bool
		wantMultiple bool
	}{
		{
			name:         "modern driver",
			info:         native.DriverInfo{Renderer: "software", API: native.Version{Major: 3}},
			wantMultiple: true,
		},
		{
			name:         "old driver",
			info:         native.DriverInfo{Renderer: "Adreno", API: native.Version{Major: 1, Minor: 1}},
			wantMultiple: true,
		},
		{
			name:        "limited renderer",
			info:        native.DriverInfo{Renderer: "Q3Dimension MSM7500 rev 2", API: native.Version{Major: 1}},
			wantRelease: true,
		},
		{
			name:        "policy denies",
			opts:        []ArbiterOption{WithPolicy(denyAll{})},
			info:        native.DriverInfo{Renderer: "software", API: native.Version{Major: 3}},
			wantRelease: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArbiter(tt.opts...)
			if !a.ShouldReleaseOnPause() {
				t.Fatal("release on pause must be conservative before the driver check")
			}

			a.mu.Lock()
			a.checkDriver(tt.info)
			a.checkDriver(native.DriverInfo{Renderer: "Q3Dimension MSM7500 ", API: native.Version{Major: 1}})
			a.mu.Unlock()

			if got := a.ShouldReleaseOnPause(); got != tt.wantRelease {
				t.Errorf("ShouldReleaseOnPause() = %v, want %v", got, tt.wantRelease)
			}
			if got := a.MultipleContextsAllowed(); got != tt.wantMultiple {
				t.Errorf("MultipleContextsAllowed() = %v, want %v", got, tt.wantMultiple)
			}
			if got := a.ShouldTerminateOnPause(); got == tt.wantMultiple {
				t.Errorf("ShouldTerminateOnPause() = %v with multiple contexts %v", got, tt.wantMultiple)
			}
		})
	}
}

func TestArbiterSingleOwnerUnderContention(t *testing.T) {
	a := NewArbiter(WithPolicy(denyAll{}))
	var active atomic.Int32
	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := &fakeHolder{}
			for range 50 {
				a.mu.Lock()
				for !a.tryAcquire(h) {
					a.cond.Wait()
				}
				a.mu.Unlock()

				if n := active.Add(1); n > 1 {
					t.Errorf("%d holders own the context", n)
				}
				runtime.Gosched()
				active.Add(-1)

				a.mu.Lock()
				a.release(h)
				a.mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if a.Owner() {
		t.Error("context still owned after every holder released")
	}
}

func TestDriverPolicy(t *testing.T) {
	p := DefaultPolicy()
	if !p.MultipleContexts(native.Version{Major: 2}) || p.MultipleContexts(native.Version{Major: 1, Minor: 9}) {
		t.Error("MultipleContexts threshold is not 2.0")
	}
	if p.DriverAllowsMultipleContexts(native.DriverInfo{Renderer: "Q3Dimension MSM7500 "}) {
		t.Error("limited renderer allowed")
	}
	if !p.DriverAllowsMultipleContexts(native.DriverInfo{Renderer: "Q3Dimension"}) {
		t.Error("prefix match must include the trailing space")
	}
}
