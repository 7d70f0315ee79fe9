package audio

// State is the playback state of a music track.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Action is a requested state change.
type Action int

const (
	ActionPlay Action = iota
	ActionPause
	ActionResume
	ActionStop
)

func (a Action) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionPause:
		return "pause"
	case ActionResume:
		return "resume"
	case ActionStop:
		return "stop"
	default:
		return "unknown"
	}
}

type transitionKey struct {
	from   State
	action Action
}

type transition struct {
	to     State
	effect func(m *Music, t *Track) error
}

// transitions lists every allowed (state, action) pair. Anything missing is
// rejected with ErrInvalidTransition and has no side effect. Play rewinds
// only when starting from Stopped; from Paused it continues where it was.
var transitions = map[transitionKey]transition{
	{Stopped, ActionPlay}:  {Playing, (*Music).start},
	{Paused, ActionPlay}:   {Playing, (*Music).unpause},
	{Paused, ActionResume}: {Playing, (*Music).unpause},
	{Playing, ActionPause}: {Paused, (*Music).pause},
	{Playing, ActionStop}:  {Stopped, (*Music).halt},
	{Paused, ActionStop}:   {Stopped, (*Music).halt},
}

// CanTransition reports whether action applies to a track in state from.
func CanTransition(from State, action Action) bool {
	_, ok := transitions[transitionKey{from, action}]
	return ok
}
