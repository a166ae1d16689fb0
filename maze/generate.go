package maze

import (
	"math/rand"
	"time"
)

type position struct {
	x int
	y int
}

type passage struct {
	from      position
	to        position
	direction Direction
}

// generate carves a uniform random perfect maze with Wilson's algorithm:
// repeated loop-erased random walks from unvisited tiles into the visited
// region, opening the walls along each walk.
func (m *Maze) generate(seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	visited := make(map[position]struct{})
	start := m.randomPosition(rng)
	visited[start] = struct{}{}

	for len(visited) < m.width*m.height {
		for cell, step := range m.randomWalk(rng, visited) {
			m.setWallLocked(step.from.x, step.from.y, step.direction, false)
			visited[cell] = struct{}{}
		}
	}
}

func (m *Maze) randomPosition(rng *rand.Rand) position {
	return position{x: rng.Intn(m.width), y: rng.Intn(m.height)}
}

// randomUnvisitedPosition selects a random position that has not been visited.
func (m *Maze) randomUnvisitedPosition(rng *rand.Rand, visited map[position]struct{}) position {
	for {
		pos := m.randomPosition(rng)
		if _, included := visited[pos]; !included {
			return pos
		}
	}
}

// neighbors finds all in-bound steps from a given position.
func (m *Maze) neighbors(pos position) []passage {
	var result []passage
	for _, d := range Directions {
		dx, dy := d.Delta()
		next := position{x: pos.x + dx, y: pos.y + dy}
		if m.InBound(next.x, next.y) {
			result = append(result, passage{from: pos, to: next, direction: d})
		}
	}
	return result
}

// randomWalk walks randomly from an unvisited position until it reaches the
// visited region. Keying the steps by their origin erases any loops the walk
// made along the way.
func (m *Maze) randomWalk(rng *rand.Rand, visited map[position]struct{}) map[position]passage {
	steps := make(map[position]passage)
	cell := m.randomUnvisitedPosition(rng, visited)

	for {
		neighbors := m.neighbors(cell)
		next := neighbors[rng.Intn(len(neighbors))]
		steps[cell] = next
		if _, included := visited[next.to]; included {
			break
		}
		cell = next.to
	}

	return steps
}
