package model

// Dots-and-boxes grid limits
const (
	DotsBoxesMinGrid    = 3
	DotsBoxesMaxGrid    = 7
	DotsBoxesMinPlayers = 2
	DotsBoxesMaxPlayers = 4
)

// DotsBoxesColors is the fixed palette assigned to players by turn order
var DotsBoxesColors = [DotsBoxesMaxPlayers]string{"#00FF00", "#FF5555", "#FFD700", "#55AAFF"}

// Orientation distinguishes horizontal and vertical grid lines
type Orientation string

const (
	Horizontal Orientation = "h"
	Vertical   Orientation = "v"
)

// LineKey identifies one edge of the dots grid. For a grid of N×N boxes,
// horizontal lines have Row in [0,N] and Col in [0,N); vertical lines have
// Row in [0,N) and Col in [0,N].
type LineKey struct {
	Orientation Orientation `json:"orientation"`
	Row         int         `json:"row"`
	Col         int         `json:"col"`
}

// InBounds reports whether the key addresses a real edge on a gridSize grid
func (k LineKey) InBounds(gridSize int) bool {
	if k.Row < 0 || k.Col < 0 {
		return false
	}
	switch k.Orientation {
	case Horizontal:
		return k.Row <= gridSize && k.Col < gridSize
	case Vertical:
		return k.Row < gridSize && k.Col <= gridSize
	}
	return false
}

// BoxKey identifies one cell of the dots grid, Row and Col in [0,N)
type BoxKey struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// BoundingLines returns the 4 edges that complete the box
func (b BoxKey) BoundingLines() [4]LineKey {
	return [4]LineKey{
		{Horizontal, b.Row, b.Col},
		{Horizontal, b.Row + 1, b.Col},
		{Vertical, b.Row, b.Col},
		{Vertical, b.Row, b.Col + 1},
	}
}

// AdjacentBoxes returns the in-bounds boxes sharing the line: at most two,
// below/above for a horizontal line, right/left for a vertical one.
func (k LineKey) AdjacentBoxes(gridSize int) []BoxKey {
	var boxes []BoxKey
	switch k.Orientation {
	case Horizontal:
		if k.Row < gridSize && k.Col < gridSize {
			boxes = append(boxes, BoxKey{k.Row, k.Col})
		}
		if k.Row > 0 && k.Col < gridSize {
			boxes = append(boxes, BoxKey{k.Row - 1, k.Col})
		}
	case Vertical:
		if k.Col < gridSize && k.Row < gridSize {
			boxes = append(boxes, BoxKey{k.Row, k.Col})
		}
		if k.Col > 0 && k.Row < gridSize {
			boxes = append(boxes, BoxKey{k.Row, k.Col - 1})
		}
	}
	return boxes
}

// LineOwner records who drew a line or captured a box
type LineOwner struct {
	PlayerID    PlayerID `json:"-"`
	DisplayName string   `json:"username"`
	Color       string   `json:"color"`
}

// DotsBoxesPlayer is one participant in a room, in turn order
type DotsBoxesPlayer struct {
	ID          PlayerID
	DisplayName string
	Color       string
	Score       int
}

// DotsBoxesRoom is a single grid game of 2–4 players
type DotsBoxesRoom struct {
	ID         GameID
	GridSize   int
	Players    []DotsBoxesPlayer // turn order
	CurrentIdx int
	Lines      map[LineKey]LineOwner
	Boxes      map[BoxKey]LineOwner
	Finished   bool
}

// TotalBoxes returns the number of boxes on the grid
func (r *DotsBoxesRoom) TotalBoxes() int {
	return r.GridSize * r.GridSize
}

// CurrentPlayer returns the turn-holder
func (r *DotsBoxesRoom) CurrentPlayer() *DotsBoxesPlayer {
	return &r.Players[r.CurrentIdx]
}

// HasPlayer reports whether id participates in the room
func (r *DotsBoxesRoom) HasPlayer(id PlayerID) bool {
	for _, p := range r.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// CompletedBy returns the boxes newly completed by drawing line: each
// adjacent box whose 4 bounding lines are all drawn and which is unowned.
func (r *DotsBoxesRoom) CompletedBy(line LineKey) []BoxKey {
	var completed []BoxKey
	for _, box := range line.AdjacentBoxes(r.GridSize) {
		if _, owned := r.Boxes[box]; owned {
			continue
		}
		all := true
		for _, edge := range box.BoundingLines() {
			if _, drawn := r.Lines[edge]; !drawn {
				all = false
				break
			}
		}
		if all {
			completed = append(completed, box)
		}
	}
	return completed
}
