package game

import (
	"fmt"
	"strings"
)

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Snake is the player's body and heading. Body[0] is the head and the body is
// never empty.
type Snake struct {
	Body      []Position `json:"body"`
	Direction Direction  `json:"direction"`
}

// CreateSnake returns a one-segment snake at start.
func CreateSnake(start Position, dir Direction) Snake {
	return Snake{
		Body:      []Position{start},
		Direction: dir,
	}
}

// Head returns the head segment.
func (s Snake) Head() Position {
	return s.Body[0]
}

// Tail returns the last segment.
func (s Snake) Tail() Position {
	return s.Body[len(s.Body)-1]
}

// Len returns the number of segments.
func (s Snake) Len() int {
	return len(s.Body)
}

// Occupies reports whether any segment is at p.
func (s Snake) Occupies(p Position) bool {
	for _, seg := range s.Body {
		if seg == p {
			return true
		}
	}
	return false
}

// ChangeDirection turns the snake. A snake longer than one segment may not
// reverse onto itself; such requests return s unchanged.
func ChangeDirection(s Snake, dir Direction) Snake {
	if !dir.Valid() {
		return s
	}
	if len(s.Body) > 1 && dir.IsOpposite(s.Direction) {
		return s
	}
	s.Direction = dir
	return s
}

// NextHead returns where the head would land after one move.
func NextHead(s Snake) Position {
	return s.Head().Step(s.Direction)
}

// MoveSnake advances one cell. Without grow the tail is dropped so the length
// is preserved.
func MoveSnake(s Snake, grow bool) Snake {
	n := len(s.Body)
	if !grow {
		n--
	}
	body := make([]Position, 0, n+1)
	body = append(body, NextHead(s))
	body = append(body, s.Body[:n]...)
	return Snake{Body: body, Direction: s.Direction}
}

// CheckWallCollision reports whether the head is off the board.
func CheckWallCollision(s Snake, g Grid) bool {
	return !g.InBounds(s.Head())
}

// CheckSelfCollision reports whether the head overlaps another segment.
func CheckSelfCollision(s Snake) bool {
	head := s.Head()
	for _, seg := range s.Body[1:] {
		if seg == head {
			return true
		}
	}
	return false
}

// IsNextMoveValid checks the next non-growing move without performing it.
// The tail is not an obstacle since it vacates its cell on the same step.
func IsNextMoveValid(s Snake, g Grid) bool {
	return nextMoveValid(s, g, false)
}

// nextMoveValid is IsNextMoveValid for a move that may grow, in which case the
// tail stays put and counts as an obstacle.
func nextMoveValid(s Snake, g Grid, grow bool) bool {
	next := NextHead(s)
	if !g.InBounds(next) {
		return false
	}
	last := len(s.Body) - 1
	if grow {
		last = len(s.Body)
	}
	for i := 1; i < last; i++ {
		if s.Body[i] == next {
			return false
		}
	}
	return true
}

// Step returns the neighbouring position in direction d.
func (p Position) Step(d Direction) Position {
	switch d {
	case DirUp:
		return Position{Row: p.Row - 1, Col: p.Col}
	case DirDown:
		return Position{Row: p.Row + 1, Col: p.Col}
	case DirLeft:
		return Position{Row: p.Row, Col: p.Col - 1}
	case DirRight:
		return Position{Row: p.Row, Col: p.Col + 1}
	default:
		return p
	}
}

// String returns "(row,col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// --- Direction helpers ---

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d >= DirRight && d <= DirUp
}

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return d
	}
}

// IsOpposite checks if two directions are opposite.
func (d Direction) IsOpposite(other Direction) bool {
	return d.Valid() && other.Valid() && d.Opposite() == other
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "UP"
	case DirDown:
		return "DOWN"
	case DirLeft:
		return "LEFT"
	case DirRight:
		return "RIGHT"
	default:
		return "UNKNOWN"
	}
}

// ParseDirection accepts UP/DOWN/LEFT/RIGHT in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return DirUp, nil
	case "DOWN":
		return DirDown, nil
	case "LEFT":
		return DirLeft, nil
	case "RIGHT":
		return DirRight, nil
	}
	return 0, fmt.Errorf("game: unknown direction %q", s)
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("game: invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
