package universe

import (
	"errors"
	"testing"
	"time"

	"wator/src/world"
)

type testViewer struct {
	u         Universe
	refreshed chan struct{}
}

func newTestViewer() *testViewer {
	return &testViewer{refreshed: make(chan struct{}, 10)}
}

func (v *testViewer) Refresh()            { v.refreshed <- struct{}{} }
func (v *testViewer) Register(u Universe) { v.u = u }
func (v *testViewer) Start()              {}

func (v *testViewer) wait(t *testing.T) {
	t.Helper()
	select {
	case <-v.refreshed:
	case <-time.After(5 * time.Second):
		t.Fatal("viewer was not refreshed")
	}
}

func newTestOptions() *Options {
	o := DefaultUniverseOptions
	o.Width = 20
	o.Height = 10
	o.Interval = 0
	o.MaxSteps = 5
	o.Seed = 3
	o.Population = world.Config{NFish: 50, NSharks: 5, FishBreed: 3, SharkBreed: 10, Starve: 3}
	return &o
}

func waitFor(t *testing.T, stateCh chan Status, mode RunningState) Status {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-stateCh:
			if st.RunningMode == mode {
				return st
			}
		case <-timeout:
			t.Fatalf("running state %v was not reached", mode)
		}
	}
}

func countArea(a Area) (fish int, sharks int) {
	for _, l := range a.Entities {
		for _, k := range l {
			switch k {
			case world.Fish:
				fish++
			case world.Shark:
				sharks++
			}
		}
	}
	return
}

func TestNewBaseUniverse_InvalidPopulation(t *testing.T) {
	o := newTestOptions()
	o.Population.NFish = 500
	if _, err := NewBaseUniverse(o, nil); !errors.Is(err, world.ErrInvalidConfiguration) {
		t.Errorf("error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestBaseUniverse_Step(t *testing.T) {
	stateCh := newStateCh()
	u, err := NewBaseUniverse(newTestOptions(), stateCh)
	if err != nil {
		t.Fatalf("NewBaseUniverse: %v", err)
	}
	defer u.Close()

	initial := u.Status()
	if initial.Fish != 50 || initial.Sharks != 5 {
		t.Fatalf("initial status %+v", initial)
	}

	u.Step()
	st := waitFor(t, stateCh, RunningStateManual)
	if st.IterationNum != 1 || st.LastTick.Tick != 1 {
		t.Errorf("iteration %v report tick %v, want 1", st.IterationNum, st.LastTick.Tick)
	}
	fish, sharks := countArea(u.Area())
	if fish != st.Fish || sharks != st.Sharks {
		t.Errorf("area holds %v fish %v sharks, status %v and %v", fish, sharks, st.Fish, st.Sharks)
	}
	r := st.LastTick
	if fish+sharks != 55+r.Births-r.Starved-r.Eaten {
		t.Errorf("population %v does not match report %+v", fish+sharks, r)
	}
}

func TestBaseUniverse_RunStopsAtMaxSteps(t *testing.T) {
	stateCh := newStateCh()
	u, err := NewBaseUniverse(newTestOptions(), stateCh)
	if err != nil {
		t.Fatalf("NewBaseUniverse: %v", err)
	}
	defer u.Close()

	u.Run()
	st := waitFor(t, stateCh, RunningStateFinished)
	if st.IterationNum != 5 {
		t.Errorf("finished at iteration %v, want 5", st.IterationNum)
	}
}

func TestBaseUniverse_RunFinishesWhenOceanIsEmpty(t *testing.T) {
	o := newTestOptions()
	o.MaxSteps = 0
	o.Population = world.Config{NSharks: 4, FishBreed: 1, SharkBreed: 10, Starve: 2}
	stateCh := newStateCh()
	u, err := NewBaseUniverse(o, stateCh)
	if err != nil {
		t.Fatalf("NewBaseUniverse: %v", err)
	}
	defer u.Close()

	u.Run()
	st := waitFor(t, stateCh, RunningStateFinished)
	if st.IterationNum != 2 || st.SharksExtinctAt != 2 {
		t.Errorf("finished at iteration %v extinct at %v, want 2 and 2", st.IterationNum, st.SharksExtinctAt)
	}
	if st.FishExtinctAt != 0 {
		t.Errorf("fish extinct at %v without ever living", st.FishExtinctAt)
	}
}

func TestBaseUniverse_Reset(t *testing.T) {
	stateCh := newStateCh()
	u, err := NewBaseUniverse(newTestOptions(), stateCh)
	if err != nil {
		t.Fatalf("NewBaseUniverse: %v", err)
	}
	defer u.Close()

	if err := u.Reset(world.Config{NFish: 300, FishBreed: 1, SharkBreed: 1, Starve: 1}); !errors.Is(err, world.ErrInvalidConfiguration) {
		t.Fatalf("oversized reset error = %v, want ErrInvalidConfiguration", err)
	}

	u.Step()
	waitFor(t, stateCh, RunningStateManual)

	cfg := world.Config{NFish: 7, NSharks: 3, FishBreed: 2, SharkBreed: 4, Starve: 6}
	if err := u.Reset(cfg); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	st := waitFor(t, stateCh, RunningStateManual)
	if st.IterationNum != 0 || st.Fish != 7 || st.Sharks != 3 {
		t.Errorf("status after reset %+v", st)
	}
	if u.Options().Population != cfg {
		t.Errorf("population options %+v, want %+v", u.Options().Population, cfg)
	}
}

func TestBaseUniverse_CycleCell(t *testing.T) {
	u, err := NewBaseUniverse(newTestOptions(), nil)
	if err != nil {
		t.Fatalf("NewBaseUniverse: %v", err)
	}
	defer u.Close()
	v := newTestViewer()
	u.RegisterViewer(v)
	if v.u != u {
		t.Fatal("viewer was not registered")
	}

	u.Clear()
	v.wait(t)
	if st := u.Status(); st.Fish != 0 || st.Sharks != 0 {
		t.Fatalf("status after clear %+v", st)
	}

	for _, want := range []world.Kind{world.Fish, world.Shark, world.Water} {
		u.CycleCell(2, 3)
		v.wait(t)
		if got := u.Area().Entities[3][2]; got != want {
			t.Errorf("cell holds %v, want %v", got, want)
		}
	}
	u.CycleCell(20, 0)
	if st := u.Status(); st.Fish != 0 || st.Sharks != 0 {
		t.Errorf("status after cycling %+v", st)
	}
}

func newCadenceOptions() *Options {
	o := newTestOptions()
	o.Interval = 20 * time.Millisecond
	o.MaxSteps = 0
	o.Population = world.Config{NFish: 50, FishBreed: 3, SharkBreed: 10, Starve: 3}
	return o
}

func waitMode(t *testing.T, u Universe, mode RunningState) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for u.Status().RunningMode != mode {
		if time.Now().After(deadline) {
			t.Fatalf("running state %v was not reached", mode)
		}
		time.Sleep(time.Millisecond)
	}
}

func ticksDuring(u Universe, d time.Duration) int {
	before := u.Status().IterationNum
	time.Sleep(d)
	return u.Status().IterationNum - before
}

func stopAndWait(t *testing.T, u Universe) {
	t.Helper()
	u.Stop()
	waitMode(t, u, RunningStateManual)
}

func TestBaseUniverse_RunTwiceKeepsCadence(t *testing.T) {
	u, err := NewBaseUniverse(newCadenceOptions(), nil)
	if err != nil {
		t.Fatalf("NewBaseUniverse: %v", err)
	}
	defer u.Close()

	u.Run()
	time.Sleep(10 * time.Millisecond)
	u.Run()
	waitMode(t, u, RunningStateRun)
	n := ticksDuring(u, 400*time.Millisecond)
	stopAndWait(t, u)

	//one loop does at most 400ms / 20ms ticks
	if n == 0 || n > 30 {
		t.Errorf("%v ticks in 400ms at a 20ms interval, want about 20", n)
	}
}

func TestBaseUniverse_RestartKeepsCadence(t *testing.T) {
	u, err := NewBaseUniverse(newCadenceOptions(), nil)
	if err != nil {
		t.Fatalf("NewBaseUniverse: %v", err)
	}
	defer u.Close()

	u.Run()
	time.Sleep(10 * time.Millisecond)
	u.Stop()
	u.Run()
	waitMode(t, u, RunningStateRun)
	n := ticksDuring(u, 400*time.Millisecond)
	stopAndWait(t, u)

	if n == 0 || n > 30 {
		t.Errorf("%v ticks in 400ms at a 20ms interval after a restart, want about 20", n)
	}
}

func TestBaseUniverse_ResetWhileRunning(t *testing.T) {
	u, err := NewBaseUniverse(newCadenceOptions(), nil)
	if err != nil {
		t.Fatalf("NewBaseUniverse: %v", err)
	}
	defer u.Close()

	u.Run()
	waitMode(t, u, RunningStateRun)
	cfg := world.Config{NFish: 7, NSharks: 3, FishBreed: 2, SharkBreed: 4, Starve: 6}
	if err := u.Reset(cfg); !errors.Is(err, ErrRunning) {
		t.Errorf("Reset while running error = %v, want ErrRunning", err)
	}
	u.Repopulate()
	time.Sleep(50 * time.Millisecond)
	if st := u.Status(); st.RunningMode != RunningStateRun || st.IterationNum == 0 {
		t.Errorf("run was interrupted: %+v", st)
	}
	stopAndWait(t, u)

	if err := u.Reset(cfg); err != nil {
		t.Fatalf("Reset after stop: %v", err)
	}
	waitMode(t, u, RunningStateManual)
	deadline := time.Now().Add(5 * time.Second)
	for u.Options().Population != cfg {
		if time.Now().After(deadline) {
			t.Fatal("stopped universe was not reset")
		}
		time.Sleep(time.Millisecond)
	}
}
