package world

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidSize          = errors.New("invalid ocean size")
	ErrOutsideOcean         = errors.New("coordinate is outside the ocean")
	ErrCellOccupied         = errors.New("cell is occupied")
)

//default population
const (
	DefFish       = 200
	DefSharks     = 20
	DefFishBreed  = 3
	DefSharkBreed = 10
	DefStarve     = 3
)

//Config is the population bundle consumed at reset
type Config struct {
	NFish      int
	NSharks    int
	FishBreed  int //ticks between fish reproductions
	SharkBreed int //ticks between shark reproductions
	Starve     int //ticks a shark survives without feeding
}

//DefaultConfig returns the default population
func DefaultConfig() Config {
	return Config{
		NFish:      DefFish,
		NSharks:    DefSharks,
		FishBreed:  DefFishBreed,
		SharkBreed: DefSharkBreed,
		Starve:     DefStarve,
	}
}

//Validate checks the configuration against an ocean of the given size
func (c Config) Validate(size Size) error {
	switch {
	case c.NFish < 0 || c.NSharks < 0:
		return fmt.Errorf("%w: negative population (fish %v, sharks %v)", ErrInvalidConfiguration, c.NFish, c.NSharks)
	case c.FishBreed < 1:
		return fmt.Errorf("%w: fish breed interval %v < 1", ErrInvalidConfiguration, c.FishBreed)
	case c.SharkBreed < 1:
		return fmt.Errorf("%w: shark breed interval %v < 1", ErrInvalidConfiguration, c.SharkBreed)
	case c.Starve < 1:
		return fmt.Errorf("%w: starve threshold %v < 1", ErrInvalidConfiguration, c.Starve)
	case c.NFish+c.NSharks > size.Cells():
		return fmt.Errorf("%w: %v fish and %v sharks do not fit %v cells", ErrInvalidConfiguration, c.NFish, c.NSharks, size.Cells())
	}
	return nil
}

//Occupant is one occupied cell of a snapshot
type Occupant struct {
	Pos  Coordinate
	Kind Kind
}

//TickReport accounts for everything that happened during one tick
//the population after the tick is the population before + Births - Starved - Eaten
type TickReport struct {
	Tick    int
	Updated int //agents that ran their update
	Moves   int //moves including the ones onto prey
	Births  int
	Starved int
	Eaten   int
}

//World is the planet Wa-Tor: a toroidal ocean and the agents inhabiting it
//World is not safe for concurrent use
type World struct {
	size   Size
	cfg    Config
	cells  []*Agent //row-major, nil is water
	rng    *rand.Rand
	lastID uint64
}

//New creates the world and populates it with cfg
//rng drives the initial shuffle and every move selection
func New(size Size, cfg Config, rng *rand.Rand) (*World, error) {
	if size.Width < 1 || size.Height < 1 {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidSize, size.Width, size.Height)
	}
	if rng == nil {
		return nil, errors.New("world: nil random source")
	}
	w := &World{size: size, rng: rng, cells: make([]*Agent, size.Cells())}
	if err := w.Reset(cfg); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *World) Size() Size { return w.size }

//Config returns the configuration of the last successful reset
func (w *World) Config() Config { return w.cfg }

//Reset clears the ocean and settles cfg.NSharks sharks and cfg.NFish fish on distinct random cells
//the world is left untouched when cfg is invalid
func (w *World) Reset(cfg Config) error {
	if err := cfg.Validate(w.size); err != nil {
		return err
	}
	w.cfg = cfg
	w.Clear()

	points := w.rng.Perm(w.size.Cells())
	for _, p := range points[:cfg.NSharks] {
		w.cells[p] = w.newShark(cfg.SharkBreed, cfg.Starve)
	}
	for _, p := range points[cfg.NSharks : cfg.NSharks+cfg.NFish] {
		w.cells[p] = w.newFish(cfg.FishBreed)
	}
	return nil
}

//Clear removes every agent
func (w *World) Clear() {
	for i := range w.cells {
		w.cells[i] = nil
	}
}

//At returns the agent living at pos, nil for water
func (w *World) At(pos Coordinate) *Agent {
	if !w.size.Contains(pos) {
		return nil
	}
	return w.cells[w.size.index(pos)]
}

//Place settles a fresh agent of kind k at pos using the parameters of the current configuration
func (w *World) Place(pos Coordinate, k Kind) (*Agent, error) {
	if !w.size.Contains(pos) {
		return nil, fmt.Errorf("%w: %v", ErrOutsideOcean, pos)
	}
	i := w.size.index(pos)
	if w.cells[i] != nil {
		return nil, fmt.Errorf("%w: %v holds a %v", ErrCellOccupied, pos, w.cells[i].kind)
	}
	var a *Agent
	switch k {
	case Fish:
		a = w.newFish(w.cfg.FishBreed)
	case Shark:
		a = w.newShark(w.cfg.SharkBreed, w.cfg.Starve)
	default:
		return nil, fmt.Errorf("world: cannot place %v", k)
	}
	w.cells[i] = a
	return a, nil
}

//Remove discards the agent at pos, reports whether there was one
func (w *World) Remove(pos Coordinate) bool {
	if !w.size.Contains(pos) {
		return false
	}
	i := w.size.index(pos)
	removed := w.cells[i] != nil
	w.cells[i] = nil
	return removed
}

//entry is an occupant recorded at the start of a tick
type entry struct {
	pos   Coordinate
	agent *Agent
}

//AdvanceTick offers every agent alive at the start of the tick exactly one update
//tick must grow monotonically between calls
func (w *World) AdvanceTick(tick int) TickReport {
	snapshot := make([]entry, 0, len(w.cells)/2)
	w.walk(func(pos Coordinate, a *Agent) {
		snapshot = append(snapshot, entry{pos, a})
	})

	r := TickReport{Tick: tick}
	for _, e := range snapshot {
		//the agent may have been eaten, starved or moved away since the snapshot,
		//the cell may hold another agent by now
		live := w.cells[w.size.index(e.pos)]
		if live == nil || live.id != e.agent.id {
			continue
		}
		res, baby := w.update(live, e.pos, tick)
		switch res {
		case outcomeSkipped:
			continue
		case outcomeStarved:
			r.Starved++
		case outcomeAte:
			r.Eaten++
			r.Moves++
		case outcomeMoved:
			r.Moves++
		}
		r.Updated++
		if baby != nil {
			r.Births++
		}
	}
	return r
}

//Stats returns the number of fish and sharks inhabiting the ocean
func (w *World) Stats() (fish int, sharks int) {
	w.walk(func(_ Coordinate, a *Agent) {
		switch a.kind {
		case Fish:
			fish++
		case Shark:
			sharks++
		}
	})
	return
}

//Snapshot returns the occupied cells in row-major order
func (w *World) Snapshot() []Occupant {
	o := make([]Occupant, 0, len(w.cells)/2)
	w.walk(func(pos Coordinate, a *Agent) {
		o = append(o, Occupant{Pos: pos, Kind: a.kind})
	})
	return o
}

//walk calls cb for each occupied cell in row-major order
func (w *World) walk(cb func(pos Coordinate, a *Agent)) {
	for i, a := range w.cells {
		if a != nil {
			cb(w.size.coordinate(i), a)
		}
	}
}
