package main

import "testing"

func TestHuman(t *testing.T) {
	for _, testCase := range []struct {
		input  int64
		wanted string
	}{
		{input: 0, wanted: "0B"},
		{input: 999, wanted: "999B"},
		{input: 1_000, wanted: "1.0KB"},
		{input: 1_500_000, wanted: "1.5MB"},
		{input: 2_000_000_000, wanted: "2.0GB"},
	} {
		if found := human(testCase.input); found != testCase.wanted {
			t.Fatalf(
				"human(%d): wanted `%s`; found `%s`",
				testCase.input,
				testCase.wanted,
				found,
			)
		}
	}
}
