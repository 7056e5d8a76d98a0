package universe

import "wator/src/world"

type Universe interface {
	Status() Status
	Options() Options
	Area() Area
	StateCh() chan Status
	Reset(cfg world.Config) error
	Repopulate()
	CycleCell(x int, y int)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}
