package view

import (
	"strings"
	"sync"

	"wator/src/universe"
)

//number of ticks kept for the trend lines
const trendLen = 24

var sparks = []rune("▁▂▃▄▅▆▇█")

//populationTrend keeps the fish and shark counts of the last ticks
type populationTrend struct {
	sync.Mutex
	tick   int
	fish   []int
	sharks []int
}

//record adds the counts of st, a repeated tick overwrites the last sample and an earlier tick starts over
func (p *populationTrend) record(st universe.Status) {
	p.Lock()
	defer p.Unlock()
	switch {
	case len(p.fish) == 0 || st.IterationNum < p.tick:
		p.fish, p.sharks = []int{st.Fish}, []int{st.Sharks}
	case st.IterationNum == p.tick:
		p.fish[len(p.fish)-1], p.sharks[len(p.sharks)-1] = st.Fish, st.Sharks
	default:
		p.fish = appendBounded(p.fish, st.Fish)
		p.sharks = appendBounded(p.sharks, st.Sharks)
	}
	p.tick = st.IterationNum
}

func (p *populationTrend) lines() (fish string, sharks string) {
	p.Lock()
	defer p.Unlock()
	return sparkline(p.fish), sparkline(p.sharks)
}

func appendBounded(s []int, v int) []int {
	s = append(s, v)
	if len(s) > trendLen {
		s = append(s[:0:0], s[len(s)-trendLen:]...)
	}
	return s
}

//sparkline scales the values between zero and the largest one
func sparkline(values []int) string {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		i := 0
		if max > 0 {
			i = v * (len(sparks) - 1) / max
		}
		b.WriteRune(sparks[i])
	}
	return b.String()
}
