package session

// State is the flow a front end should show.
type State int

const (
	// Loading is the state before the first resolution.
	Loading State = iota
	NeedsSignUp
	NeedsSignIn
	NeedsOnboarding
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "Loading"
	case NeedsSignUp:
		return "NeedsSignUp"
	case NeedsSignIn:
		return "NeedsSignIn"
	case NeedsOnboarding:
		return "NeedsOnboarding"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}
