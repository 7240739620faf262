package model

// Bingo card layout constants. Cards are 5×5, stored row-major; the center
// cell is the free space.
const (
	BingoCardSize     = 25
	BingoFreeCell     = 12
	BingoNumberCount  = 75
	BingoColumnSpan   = 15
	BingoMaxWinners   = 3
	BingoFirstPoints  = 5
	BingoPlacedPoints = 3
)

// BingoCard holds the 24 drawn numbers plus the free center.
// The free cell holds 0.
type BingoCard [BingoCardSize]int

// IndexOf returns the cell index holding number, or -1
func (c BingoCard) IndexOf(number int) int {
	for i, n := range c {
		if i == BingoFreeCell {
			continue
		}
		if n == number {
			return i
		}
	}
	return -1
}

// BingoPlayer is one participant's state within the bingo room
type BingoPlayer struct {
	DisplayName string
	Card        BingoCard
	Marked      [BingoCardSize]bool
	HasBingo    bool
}

// bingoWinLines is the 12 standard lines: 5 rows, 5 columns, 2 diagonals
var bingoWinLines = [12][5]int{
	{0, 1, 2, 3, 4}, {5, 6, 7, 8, 9}, {10, 11, 12, 13, 14},
	{15, 16, 17, 18, 19}, {20, 21, 22, 23, 24},
	{0, 5, 10, 15, 20}, {1, 6, 11, 16, 21}, {2, 7, 12, 17, 22},
	{3, 8, 13, 18, 23}, {4, 9, 14, 19, 24},
	{0, 6, 12, 18, 24}, {4, 8, 12, 16, 20},
}

// HasWin reports whether the marked set completes any standard line
func (p *BingoPlayer) HasWin() bool {
	for _, line := range bingoWinLines {
		complete := true
		for _, idx := range line {
			if !p.Marked[idx] {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}
	return false
}

// ResetCardMarks clears all marks except the pre-marked free center
func (p *BingoPlayer) ResetCardMarks() {
	p.Marked = [BingoCardSize]bool{}
	p.Marked[BingoFreeCell] = true
	p.HasBingo = false
}
