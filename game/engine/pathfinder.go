package engine

import "slices"

// SearchNode is one frontier or visited cell of a pursuer search
type SearchNode struct {
	Pos    Position  `json:"pos"`
	Dir    Direction `json:"dir,omitempty"` // direction that reached Pos
	G      int       `json:"g"`
	H      int       `json:"h"`
	F      int       `json:"f"`
	Parent int       `json:"parent"` // index into the closed list, -1 for the start
}

// PathStep is one element of a reconstructed path
type PathStep struct {
	Pos Position  `json:"pos"`
	Dir Direction `json:"dir,omitempty"`
	G   int       `json:"g"`
}

// SearchResult describes one pursuer search
type SearchResult struct {
	Path       []PathStep `json:"path"`
	Reached    bool       `json:"reached"`
	Trapped    bool       `json:"trapped"`
	Iterations int        `json:"iterations"`
	TotalCost  int        `json:"total_cost"`
	Closed     int        `json:"closed"`
	Open       int        `json:"open"`
}

// Step returns the direction of the first move along the path
func (r *SearchResult) Step() (Direction, bool) {
	if r.Trapped || len(r.Path) < 2 {
		return "", false
	}
	return r.Path[1].Dir, true
}

// FindPath runs the turn-penalised best-first search from a pursuer toward
// the hero. The start cell has no arrival direction, so the first step costs
// 1 whichever way it goes; afterwards continuing straight costs 1 and a
// change of direction costs 2.
//
// Neighbours are expanded in Up, Down, Left, Right order. Among open nodes
// with equal F the most recently appended one is closed first. The search
// stops on reaching the hero, on an empty frontier or after
// MaxSearchIterations rounds; in the last case the path toward the closest
// node so far is still returned.
func FindPath(grid Grid, from, to Position) SearchResult {
	return search(grid, from, to, latestMinimum)
}

// tieBreak picks the index of the open node to close next, given the lowest F.
type tieBreak func(open []SearchNode, best int) int

func latestMinimum(open []SearchNode, best int) int {
	for i := len(open) - 1; i >= 0; i-- {
		if open[i].F == best {
			return i
		}
	}
	return -1
}

func search(grid Grid, from, to Position, pick tieBreak) SearchResult {
	start := SearchNode{Pos: from, H: ManhattanDistance(from, to), Parent: -1}
	start.F = start.H

	closed := []SearchNode{start}
	seen := map[Position]int{from: 0}
	var open []SearchNode

	result := SearchResult{}
	finished := false
	for result.Iterations < MaxSearchIterations {
		result.Iterations++

		currentIdx := len(closed) - 1
		current := closed[currentIdx]
		for _, d := range Directions {
			next := current.Pos.Step(d, 1)
			if grid.At(next) != Empty && next != to {
				continue
			}
			if next == to {
				finished = true
			}
			if _, ok := seen[next]; ok {
				continue
			}

			g := current.G + 2
			if current.Dir == d || current.Dir == "" {
				g = current.G + 1
			}
			h := ManhattanDistance(next, to)
			open = append(open, SearchNode{Pos: next, Dir: d, G: g, H: h, F: g + h, Parent: currentIdx})
		}

		if len(open) == 0 {
			result.Trapped = true
			break
		}

		best := open[0].F
		for _, n := range open[1:] {
			best = min(best, n.F)
		}
		i := pick(open, best)
		node := open[i]
		open = slices.Delete(open, i, i+1)
		if _, ok := seen[node.Pos]; !ok {
			seen[node.Pos] = len(closed)
		}
		closed = append(closed, node)

		if finished {
			break
		}
	}

	last := closed[len(closed)-1]
	result.Reached = last.Pos == to
	result.TotalCost = last.G
	result.Closed = len(closed)
	result.Open = len(open)

	for idx := len(closed) - 1; idx >= 0; idx = closed[idx].Parent {
		n := closed[idx]
		result.Path = append(result.Path, PathStep{Pos: n.Pos, Dir: n.Dir, G: n.G})
	}
	slices.Reverse(result.Path)
	result.Path[0].Dir = ""
	return result
}

// NextStep returns the direction a pursuer at from should take toward to,
// or false when it should hold its position.
func NextStep(grid Grid, from, to Position) (Direction, bool) {
	r := FindPath(grid, from, to)
	return r.Step()
}
