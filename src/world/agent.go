package world

//Kind is the occupant of a cell, Water means the cell is empty
type Kind uint8

const (
	Water Kind = iota
	Fish
	Shark
)

func (k Kind) String() string {
	switch k {
	case Water:
		return "water"
	case Fish:
		return "fish"
	case Shark:
		return "shark"
	}
	return "unknown"
}

//neverUpdated stamps agents that have not seen any tick yet
const neverUpdated = -1

//Agent is a fish or a shark living in the ocean
type Agent struct {
	id         uint64
	kind       Kind
	breed      int
	age        int
	lastUpdate int
	starve     int //shark only
	energy     int //shark only
}

//ID returns the identity of the agent, it is not reused within a World
func (a *Agent) ID() uint64 { return a.id }

func (a *Agent) Kind() Kind { return a.kind }

//Age is the number of ticks the agent has been updated
func (a *Agent) Age() int { return a.age }

func (a *Agent) BreedInterval() int { return a.breed }

//LastUpdate is the last tick the agent was updated at, -1 if never
func (a *Agent) LastUpdate() int { return a.lastUpdate }

//StarveThreshold is 0 for fish
func (a *Agent) StarveThreshold() int { return a.starve }

//Energy is the number of ticks the shark survives without feeding, 0 for fish
func (a *Agent) Energy() int { return a.energy }

//outcome is what happened to an agent during its update
type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeStayed
	outcomeMoved
	outcomeAte
	outcomeStarved
)

//update applies one tick to the agent a living at pos
//returns the outcome and the offspring left at pos, if any
func (w *World) update(a *Agent, pos Coordinate, tick int) (outcome, *Agent) {
	if a.lastUpdate >= tick {
		return outcomeSkipped, nil
	}
	a.lastUpdate = tick
	a.age++

	if w.starved(a) {
		w.cells[w.size.index(pos)] = nil
		return outcomeStarved, nil
	}

	var res outcome
	switch a.kind {
	case Fish:
		res = w.moveFish(pos)
	case Shark:
		res = w.moveShark(a, pos)
	default:
		panic("update of a " + a.kind.String() + " agent")
	}
	if res == outcomeStayed {
		return res, nil
	}

	if a.age%a.breed != 0 {
		return res, nil
	}
	baby := w.offspring(a, tick)
	w.cells[w.size.index(pos)] = baby
	return res, baby
}

//starved burns one unit of shark energy and reports death
func (w *World) starved(a *Agent) bool {
	if a.kind != Shark {
		return false
	}
	a.energy--
	return a.energy <= 0
}

func (w *World) moveFish(pos Coordinate) outcome {
	empty, _ := w.candidates(pos)
	if len(empty) == 0 {
		return outcomeStayed
	}
	w.move(pos, w.pick(empty))
	return outcomeMoved
}

func (w *World) moveShark(a *Agent, pos Coordinate) outcome {
	empty, prey := w.candidates(pos)
	if len(prey) > 0 {
		w.move(pos, w.pick(prey))
		a.energy = a.starve
		return outcomeAte
	}
	if len(empty) > 0 {
		w.move(pos, w.pick(empty))
		return outcomeMoved
	}
	return outcomeStayed
}

//candidates partitions the distinct neighbours of pos into empty cells and cells holding fish
func (w *World) candidates(pos Coordinate) (empty []Coordinate, prey []Coordinate) {
	seen := make(map[Coordinate]bool, 8)
	for _, n := range w.size.Neighbors(pos) {
		if seen[n] || n == pos {
			continue
		}
		seen[n] = true
		switch o := w.cells[w.size.index(n)]; {
		case o == nil:
			empty = append(empty, n)
		case o.kind == Fish:
			prey = append(prey, n)
		}
	}
	return
}

func (w *World) pick(moves []Coordinate) Coordinate {
	return moves[w.rng.Intn(len(moves))]
}

//move re-keys the occupant of from to to, whatever lived at to is discarded
func (w *World) move(from Coordinate, to Coordinate) {
	fi, ti := w.size.index(from), w.size.index(to)
	w.cells[ti] = w.cells[fi]
	w.cells[fi] = nil
}

//offspring creates the baby of a, it counts as already updated at tick
func (w *World) offspring(a *Agent, tick int) *Agent {
	var baby *Agent
	if a.kind == Shark {
		baby = w.newShark(a.breed, a.starve)
	} else {
		baby = w.newFish(a.breed)
	}
	baby.lastUpdate = tick
	return baby
}

func (w *World) newFish(breed int) *Agent {
	w.lastID++
	return &Agent{id: w.lastID, kind: Fish, breed: breed, lastUpdate: neverUpdated}
}

func (w *World) newShark(breed int, starve int) *Agent {
	w.lastID++
	return &Agent{id: w.lastID, kind: Shark, breed: breed, lastUpdate: neverUpdated, starve: starve, energy: starve}
}
