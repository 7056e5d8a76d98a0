package main

import (
	"time"

	"github.com/integrii/flaggy"

	"wator/src/universe"
	"wator/src/view"
)

type EnvOptions struct {
	interactive bool
	reportEvery int
}

func main() {
	eo, uo := initOptions()

	var stateCh chan universe.Status

	if !eo.interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u, err := universe.NewBaseUniverse(uo, stateCh)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	if eo.interactive {
		v := view.NewViewTerminal()
		u.RegisterViewer(v)
		v.Start()
		u.Close()
		return
	}

	v := view.NewConsoleOut(eo.reportEvery)
	u.RegisterViewer(v)
	v.Start()
	u.Run()
	for {
		st := <-stateCh
		if st.RunningMode == universe.RunningStateFinished {
			break
		}
	}
	u.Close()
	close(stateCh)
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	o := universe.DefaultUniverseOptions
	uo = &o
	uo.Seed = time.Now().UnixNano()
	eo = &EnvOptions{reportEvery: 10}
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&uo.Width, "x", "width", "Width of the ocean")
	flaggy.Int(&uo.Height, "y", "height", "Height of the ocean")
	flaggy.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the ticks) in format the number with 'ms' suffix, for example 250ms")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 runs until the ocean is empty")
	flaggy.Int(&uo.Population.NFish, "f", "fish", "Initial number of fish")
	flaggy.Int(&uo.Population.NSharks, "k", "sharks", "Initial number of sharks")
	flaggy.Int(&uo.Population.FishBreed, "", "fbreed", "Number of ticks between fish reproductions")
	flaggy.Int(&uo.Population.SharkBreed, "", "sbreed", "Number of ticks between shark reproductions")
	flaggy.Int(&uo.Population.Starve, "", "starve", "Number of ticks a shark survives without feeding")
	flaggy.Int64(&uo.Seed, "", "seed", "Seed of the random source, defaults to the current time")
	flaggy.Int(&eo.reportEvery, "p", "print", "Print the population every N ticks in the non-interactive mode")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")

	flaggy.Parse()

	return
}
