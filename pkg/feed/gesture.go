package feed

// SwipeThreshold is the minimum drag distance, in points, that counts as a
// swipe.
const SwipeThreshold = 50

type GestureKind string

const (
	GestureTap    GestureKind = "TAP"
	GestureDrag   GestureKind = "DRAG"
	GestureButton GestureKind = "BUTTON"
)

type Button string

const (
	ButtonProfile    Button = "PROFILE"
	ButtonGeneration Button = "GENERATION"
	ButtonLike       Button = "LIKE"
)

// Gesture is raw input from the feed surface. X and Width describe a tap;
// DX and DY describe a completed drag; Button names a pressed overlay
// button.
type Gesture struct {
	Kind   GestureKind
	X      float64
	Width  float64
	DX     float64
	DY     float64
	Button Button
}

type Action string

const (
	ActionNone           Action = "NONE"
	ActionAdvance        Action = "ADVANCE"
	ActionRetreat        Action = "RETREAT"
	ActionOpenProfile    Action = "OPEN_PROFILE"
	ActionOpenGeneration Action = "OPEN_GENERATION"
	ActionLike           Action = "LIKE"
)

// Interpret maps a gesture to a feed action. Taps on the left half of the
// surface go back, taps on the right half go forward, and a leftward swipe
// opens the profile. Vertical and rightward swipes are recognized but
// have no action.
func Interpret(g Gesture) Action {
	switch g.Kind {
	case GestureTap:
		if g.Width <= 0 {
			return ActionNone
		}
		if g.X < g.Width/2 {
			return ActionRetreat
		}
		return ActionAdvance
	case GestureDrag:
		if g.DX < -SwipeThreshold {
			return ActionOpenProfile
		}
		return ActionNone
	case GestureButton:
		switch g.Button {
		case ButtonProfile:
			return ActionOpenProfile
		case ButtonGeneration:
			return ActionOpenGeneration
		case ButtonLike:
			return ActionLike
		}
	}
	return ActionNone
}
