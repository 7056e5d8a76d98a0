package world

import "fmt"

//Coordinate is a cell position on the ocean, 0 <= X < Width, 0 <= Y < Height
type Coordinate struct {
	X int
	Y int
}

//Size is the extent of a toroidal ocean
type Size struct {
	Width  int
	Height int
}

//Cells returns the number of cells of the ocean
func (s Size) Cells() int {
	return s.Width * s.Height
}

//Contains reports whether c lies inside the ocean
func (s Size) Contains(c Coordinate) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < s.Width && c.Y < s.Height
}

//Wrap maps any coordinate onto the torus
func (s Size) Wrap(c Coordinate) Coordinate {
	return Coordinate{X: wrapAxis(c.X, s.Width), Y: wrapAxis(c.Y, s.Height)}
}

//Neighbors returns the eight Moore neighbours of pos in row-major order
//on grids narrower than 3 cells the entries repeat, an extent of 1 makes pos its own neighbour
func (s Size) Neighbors(pos Coordinate) [8]Coordinate {
	var n [8]Coordinate
	i := 0
	for dy := -1; dy < 2; dy++ {
		for dx := -1; dx < 2; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n[i] = s.mustContain(s.Wrap(Coordinate{X: pos.X + dx, Y: pos.Y + dy}))
			i++
		}
	}
	return n
}

//index converts the coordinate to the offset in the row-major cell slice
func (s Size) index(c Coordinate) int {
	c = s.mustContain(c)
	return c.Y*s.Width + c.X
}

//coordinate is the inverse of index
func (s Size) coordinate(i int) Coordinate {
	return Coordinate{X: i % s.Width, Y: i / s.Width}
}

func (s Size) mustContain(c Coordinate) Coordinate {
	if !s.Contains(c) {
		panic(fmt.Sprintf("coordinate %v is outside the %vx%v ocean", c, s.Width, s.Height))
	}
	return c
}

func wrapAxis(v int, extent int) int {
	v %= extent
	if v < 0 {
		v += extent
	}
	return v
}
