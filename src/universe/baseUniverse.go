package universe

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"wator/src/world"
)

//Area is a copy of the ocean prepared for rendering
type Area struct {
	Width    int
	Height   int
	Entities [][]world.Kind
}

//Options represents the Universe's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	Seed            int64                  //seed of the random source driving the shuffle and the moves
	Population      world.Config           //population settled on reset
	Advanced        map[string]interface{} //advanced options (informational)
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum    int
	RunningMode     RunningState
	Fish            int
	Sharks          int
	LastTick        world.TickReport
	IterationTime   time.Duration
	FishExtinctAt   int //tick the last fish died at, 0 if it did not happen
	SharksExtinctAt int //tick the last shark died at, 0 if it did not happen
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 250
	DefMaxSteps           = 1000
	DefWidth              = 80
	DefHeight             = 23
	DefMaxSkippedTicks    = 5
)

//ErrRunning is returned by the commands refused while the simulation is running
var ErrRunning = errors.New("universe: the simulation is running")

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

var DefaultUniverseOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	Population:      world.DefaultConfig(),
}

//BaseUniverse drives the Wa-Tor world
//implements Universe interface
//every mutation of the world is executed by the main loop goroutine
type BaseUniverse struct {
	state struct {
		Status
		options Options
		runGen  int //generation of the active run loop, a loop exits once it is outdated
		sync.Mutex
	}
	ocean struct {
		*world.World
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan bool
}

//NewBaseUniverse creates the BaseUniverse instance and settles the ocean with o.Population
//stateCh may be nil, otherwise it receives the status on every running state change
func NewBaseUniverse(o *Options, stateCh chan Status) (*BaseUniverse, error) {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	opts := *o
	opts.Advanced = map[string]interface{}{
		"Seed":  opts.Seed,
		"Cells": opts.Width * opts.Height,
	}

	w, err := world.New(world.Size{Width: opts.Width, Height: opts.Height}, opts.Population, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, err
	}

	u := &BaseUniverse{
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		stateCh:   stateCh,
	}
	u.ocean.World = w
	u.state.options = opts
	u.state.Fish, u.state.Sharks = w.Stats()
	go u.mainLoop()
	return u, nil
}

//Reset validates cfg and repopulates the ocean with it, returns immediately
//refused with ErrRunning while the simulation is running
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Reset(cfg world.Config) error {
	if u.running() {
		return ErrRunning
	}
	o := u.Options()
	if err := cfg.Validate(world.Size{Width: o.Width, Height: o.Height}); err != nil {
		return err
	}
	u.controlCh <- func() {
		//a run may have been started after the check above
		if u.running() {
			return
		}
		u.repopulate(cfg)
	}
	return nil
}

//Repopulate settles the ocean again with the current population options
//ignored while the simulation is running
func (u *BaseUniverse) Repopulate() {
	if !u.running() {
		u.controlCh <- func() {
			if !u.running() {
				u.repopulate(u.Options().Population)
			}
		}
	}
}

//CycleCell turns the cell at point x, y from water to fish, from fish to shark and from shark to water
func (u *BaseUniverse) CycleCell(x int, y int) {
	o := u.Options()
	if x < 0 || y < 0 || x >= o.Width || y >= o.Height {
		return
	}
	u.controlCh <- func() {
		pos := world.Coordinate{X: x, Y: y}
		u.ocean.Lock()
		var err error
		switch a := u.ocean.At(pos); {
		case a == nil:
			_, err = u.ocean.Place(pos, world.Fish)
		case a.Kind() == world.Fish:
			u.ocean.Remove(pos)
			_, err = u.ocean.Place(pos, world.Shark)
		default:
			u.ocean.Remove(pos)
		}
		//the cell is inside the ocean and empty at this point
		if err != nil {
			log.Panicln(err)
		}
		fish, sharks := u.ocean.Stats()
		u.ocean.Unlock()

		u.state.Lock()
		u.state.Fish, u.state.Sharks = fish, sharks
		u.state.Unlock()
		u.refreshView()
	}
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.views = append(u.views, v)
	v.Register(u)
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.options
}

//Area returns a copy of the ocean, water cells are world.Water
func (u *BaseUniverse) Area() Area {
	u.ocean.Lock()
	defer u.ocean.Unlock()
	size := u.ocean.Size()
	a := createArea(size.Width, size.Height)
	for _, o := range u.ocean.Snapshot() {
		a.Entities[o.Pos.Y][o.Pos.X] = o.Kind
	}
	return a
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.controlCh <- u.run
}

//Stop stops the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (u *BaseUniverse) Stop() {
	u.controlCh <- u.stop
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.controlCh <- u.step
}

//Clear empties the ocean and reset all counters, returns immediately
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Clear() {
	u.controlCh <- u.clear
}

//Close stops the main loop, close the channels, returns immediately
func (u *BaseUniverse) Close() {
	u.closeCh <- true
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	var c = false
	for !c {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case c = <-u.closeCh:

		}
	}
	close(u.closeCh)
	close(u.controlCh)
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

//run starts the universe simulation
//simulation will stop on Stop() calling, when MaxSteps is reached or when the ocean is empty
//a second Run while a loop is active is ignored
func (u *BaseUniverse) run() {
	if u.running() {
		return
	}
	u.state.Lock()
	u.state.runGen++
	gen := u.state.runGen
	u.state.Unlock()
	u.switchRunningState(RunningStateRun)

	go func() {
		o := u.Options()
		skipped := 0
		done := make(chan bool)
		defer close(done)
		for {
			mode, current := u.runState(gen)
			if !current || (mode != RunningStateRun && mode != RunningStateStep) {
				break
			}
			if skipped > o.MaxSkippedTicks {
				u.switchRunningState(RunningStateFinished)
				break
			}
			//skip the tick if the universe is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				u.controlCh <- func() {
					u.step()
					done <- true
				}
				<-done
			} else {
				skipped++
			}
			if o.Interval > 0 {
				time.Sleep(o.Interval)
			}
		}

	}()
}

//running reports whether a run loop drives the universe
func (u *BaseUniverse) running() bool {
	mode := u.Status().RunningMode
	return mode == RunningStateRun || mode == RunningStateStep
}

//runState returns the running mode and whether gen is the active run loop
func (u *BaseUniverse) runState(gen int) (RunningState, bool) {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode, u.state.runGen == gen
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	if u.Status().RunningMode == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//step advances the world by one tick
func (u *BaseUniverse) step() {
	finished := false
	st := u.Status()
	rm := st.RunningMode
	maxIter := u.Options().MaxSteps
	defer func() {
		if finished {
			u.switchRunningState(RunningStateFinished)
		} else {
			u.switchRunningState(rm)
		}
		u.refreshView()
	}()

	if maxIter != 0 && st.IterationNum >= maxIter {
		finished = true
		return
	}
	u.switchRunningState(RunningStateStep)
	tick, isAlive := u.nextIteration()
	if !isAlive || (maxIter != 0 && tick >= maxIter) {
		finished = true
	}
}

//clear empties the ocean, reset all counters
func (u *BaseUniverse) clear() {
	u.ocean.Lock()
	u.ocean.Clear()
	u.ocean.Unlock()
	u.resetState(0, 0)
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//repopulate resets the world with cfg, cfg must be validated already
func (u *BaseUniverse) repopulate(cfg world.Config) {
	u.ocean.Lock()
	err := u.ocean.Reset(cfg)
	fish, sharks := u.ocean.Stats()
	u.ocean.Unlock()
	if err != nil {
		return
	}

	u.state.Lock()
	u.state.options.Population = cfg
	u.state.Unlock()
	u.resetState(fish, sharks)
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

func (u *BaseUniverse) resetState(fish int, sharks int) {
	u.state.Lock()
	u.state.Status = Status{RunningMode: RunningStateManual, Fish: fish, Sharks: sharks}
	u.state.Unlock()
}

//nextIteration does one simulation tick and updates all related metrics
//returns the tick number and whether anything still lives in the ocean
func (u *BaseUniverse) nextIteration() (tick int, hasLiveEntities bool) {
	tick = u.Status().IterationNum + 1

	u.ocean.Lock()
	start := time.Now()
	report := u.ocean.AdvanceTick(tick)
	elapsed := time.Since(start)
	fish, sharks := u.ocean.Stats()
	u.ocean.Unlock()

	u.state.Lock()
	if u.state.Fish > 0 && fish == 0 {
		u.state.FishExtinctAt = tick
	}
	if u.state.Sharks > 0 && sharks == 0 {
		u.state.SharksExtinctAt = tick
	}
	u.state.IterationNum = tick
	u.state.LastTick = report
	u.state.IterationTime = elapsed
	u.state.Fish, u.state.Sharks = fish, sharks
	u.state.Unlock()
	return tick, fish+sharks > 0
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	for _, v := range u.views {
		v.Refresh()
	}
}

//createArea allocate the new area
func createArea(width int, height int) Area {

	area := Area{Width: width, Height: height, Entities: make([][]world.Kind, height)}
	b := make([]world.Kind, width*height)
	for i := range area.Entities {
		start := width * i
		area.Entities[i] = b[start : start+width : start+width]
	}
	return area
}
