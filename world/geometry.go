package world

import (
	"math"

	"github.com/beka-birhanu/mouse-sim/maze"
)

// A wall is modeled as a zero-thickness line segment at a tile edge.
type segment struct {
	x1, y1 float64
	x2, y2 float64
}

// tileWallSegments returns the ground-truth wall segments of tile (tx, ty).
func tileWallSegments(mz *maze.Maze, tx, ty int) []segment {
	t, err := mz.GetTile(tx, ty)
	if err != nil {
		return nil
	}
	fx, fy := float64(tx), float64(ty)
	var segs []segment
	if t.HasWall(maze.South) {
		segs = append(segs, segment{fx, fy, fx + 1, fy})
	}
	if t.HasWall(maze.North) {
		segs = append(segs, segment{fx, fy + 1, fx + 1, fy + 1})
	}
	if t.HasWall(maze.West) {
		segs = append(segs, segment{fx, fy, fx, fy + 1})
	}
	if t.HasWall(maze.East) {
		segs = append(segs, segment{fx + 1, fy, fx + 1, fy + 1})
	}
	return segs
}

// nearbySegments gathers the wall segments of every tile whose area could
// fall within reach of the point (x, y).
func nearbySegments(mz *maze.Maze, x, y, reach float64) []segment {
	minTx := int(math.Floor(x - reach))
	maxTx := int(math.Floor(x + reach))
	minTy := int(math.Floor(y - reach))
	maxTy := int(math.Floor(y + reach))

	var segs []segment
	for ty := minTy; ty <= maxTy; ty++ {
		for tx := minTx; tx <= maxTx; tx++ {
			segs = append(segs, tileWallSegments(mz, tx, ty)...)
		}
	}
	return segs
}

// pointSegmentDistance returns the shortest distance from (px, py) to s.
func pointSegmentDistance(px, py float64, s segment) float64 {
	dx := s.x2 - s.x1
	dy := s.y2 - s.y1
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return math.Hypot(px-s.x1, py-s.y1)
	}
	u := ((px-s.x1)*dx + (py-s.y1)*dy) / lengthSq
	u = math.Max(0, math.Min(1, u))
	cx := s.x1 + u*dx
	cy := s.y1 + u*dy
	return math.Hypot(px-cx, py-cy)
}

// collides reports whether a body circle at (x, y) interpenetrates any
// ground-truth wall segment. The test is against the pose as given; there is
// no swept detection, so tunneling at extreme delta*speed is possible.
func collides(mz *maze.Maze, x, y, radius float64) bool {
	for _, s := range nearbySegments(mz, x, y, radius+1) {
		if pointSegmentDistance(x, y, s) < radius {
			return true
		}
	}
	return false
}

// raySegment returns the distance along the ray from (ox, oy) in unit
// direction (dx, dy) to its intersection with s, or -1 when they miss.
func raySegment(ox, oy, dx, dy float64, s segment) float64 {
	sx := s.x2 - s.x1
	sy := s.y2 - s.y1
	wx := s.x1 - ox
	wy := s.y1 - oy

	det := sx*dy - sy*dx
	if math.Abs(det) < 1e-12 {
		return -1
	}
	t := (sx*wy - sy*wx) / det
	u := (dx*wy - dy*wx) / det
	if t >= 0 && u >= 0 && u <= 1 {
		return t
	}
	return -1
}

// castRay traces a ray against nearby wall segments and returns the distance
// to the closest hit, capped at maxRange. hit is false when nothing was
// struck within range, in which case the distance is maxRange.
func castRay(mz *maze.Maze, ox, oy, angle, maxRange float64) (distance float64, hit bool) {
	dx := math.Cos(angle)
	dy := math.Sin(angle)

	best := maxRange
	for _, s := range nearbySegments(mz, ox, oy, maxRange+1) {
		if t := raySegment(ox, oy, dx, dy, s); t >= 0 && t < best {
			best = t
			hit = true
		}
	}
	return best, hit
}

// normalizeAngle maps an angle into [0, 2*pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
