package view

import (
	"fmt"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"wator/src/universe"
)

//ConsoleOut prints the progress of a headless simulation
type ConsoleOut struct {
	u          universe.Universe
	startTime  time.Time
	every      int
	fishDead   bool
	sharksDead bool
}

//NewConsoleOut creates the printer reporting the population every n ticks
func NewConsoleOut(every int) *ConsoleOut {
	if every < 1 {
		every = 1
	}
	return &ConsoleOut{every: every}
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	c.reportExtinction(st)
	if st.RunningMode == universe.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Fish":           st.Fish,
			"Sharks":         st.Sharks,
		}
		fmt.Println("\nFinished:")
		c.printHashData(resultData)
	} else if st.RunningMode == universe.RunningStateRun {
		if st.IterationNum%c.every == 0 {
			fmt.Printf("  Tick %v: %v %v, %v %v\n", st.IterationNum,
				aurora.Green(st.Fish), "fish", aurora.Red(st.Sharks), "sharks")
		}
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	fmt.Println("Running configuration:")
	fmt.Printf("  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Printf("  Interval: %v\n", o.Interval)
	fmt.Printf("  Max iterations: %v steps\n", o.MaxSteps)
	fmt.Printf("  Fish: %v, breed every %v ticks\n", o.Population.NFish, o.Population.FishBreed)
	fmt.Printf("  Sharks: %v, breed every %v ticks, starve after %v ticks\n", o.Population.NSharks, o.Population.SharkBreed, o.Population.Starve)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Println("\nSimulation started...")
}

//reportExtinction prints every extinction once
func (c *ConsoleOut) reportExtinction(st universe.Status) {
	if st.FishExtinctAt == 0 {
		c.fishDead = false
	} else if !c.fishDead {
		c.fishDead = true
		fmt.Println(aurora.Yellow(fmt.Sprintf("  The fish died out at tick %v", st.FishExtinctAt)))
	}
	if st.SharksExtinctAt == 0 {
		c.sharksDead = false
	} else if !c.sharksDead {
		c.sharksDead = true
		fmt.Println(aurora.Yellow(fmt.Sprintf("  The sharks died out at tick %v", st.SharksExtinctAt)))
	}
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Printf("  %s: %v\n", propName, d[propName])
	}
}
