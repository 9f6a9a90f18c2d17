package game

// ActionType identifies an external event.
type ActionType string

const (
	ActionTick            ActionType = "TICK"
	ActionChangeDirection ActionType = "CHANGE_DIRECTION"
	ActionRestart         ActionType = "RESTART"
	ActionNewGame         ActionType = "NEW_GAME"
)

// Action is an event delivered to Reduce. Direction is read only for
// ActionChangeDirection and Grid only for ActionNewGame.
type Action struct {
	Type      ActionType
	Direction Direction
	Grid      Grid
}

// TickAction advances the game one step.
func TickAction() Action {
	return Action{Type: ActionTick}
}

// ChangeDirectionAction turns the snake.
func ChangeDirectionAction(d Direction) Action {
	return Action{Type: ActionChangeDirection, Direction: d}
}

// RestartAction replays the current grid from scratch.
func RestartAction() Action {
	return Action{Type: ActionRestart}
}

// NewGameAction starts over on g.
func NewGameAction(g Grid) Action {
	return Action{Type: ActionNewGame, Grid: g}
}

// Reduce maps (state, action) to the next state. It is the only way drivers
// change a game. It never blocks, never fails and returns s itself for
// anything it does not understand.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionTick:
		return Tick(s)
	case ActionChangeDirection:
		return HandleDirectionChange(s, a.Direction)
	case ActionRestart:
		return Restart(s)
	case ActionNewGame:
		return NewGame(s, a.Grid)
	default:
		return s
	}
}
