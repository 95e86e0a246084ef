package feed

import "testing"

func TestInterpret(t *testing.T) {
	for _, testCase := range []struct {
		name    string
		gesture Gesture
		wanted  Action
	}{
		{"left tap", Gesture{Kind: GestureTap, X: 10, Width: 400}, ActionRetreat},
		{"right tap", Gesture{Kind: GestureTap, X: 390, Width: 400}, ActionAdvance},
		{"center tap", Gesture{Kind: GestureTap, X: 200, Width: 400}, ActionAdvance},
		{"tap without width", Gesture{Kind: GestureTap, X: 10}, ActionNone},
		{"swipe left", Gesture{Kind: GestureDrag, DX: -80}, ActionOpenProfile},
		{"short swipe left", Gesture{Kind: GestureDrag, DX: -50}, ActionNone},
		{"swipe right", Gesture{Kind: GestureDrag, DX: 80}, ActionNone},
		{"swipe up", Gesture{Kind: GestureDrag, DY: -80}, ActionNone},
		{"profile button", Gesture{Kind: GestureButton, Button: ButtonProfile}, ActionOpenProfile},
		{"generation button", Gesture{Kind: GestureButton, Button: ButtonGeneration}, ActionOpenGeneration},
		{"like button", Gesture{Kind: GestureButton, Button: ButtonLike}, ActionLike},
		{"unknown", Gesture{Kind: "PINCH"}, ActionNone},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if found := Interpret(testCase.gesture); found != testCase.wanted {
				t.Fatalf("wanted `%s`; found `%s`", testCase.wanted, found)
			}
		})
	}
}
