package generation

import (
	"fmt"
	"unicode/utf16"
)

const (
	MaxPromptTextLength = 512
	DefaultDuration     = 5
	DefaultRatio        = RatioPortrait

	RatioLandscape = "1280:768"
	RatioPortrait  = "768:1280"
)

// Request asks for a video generated from a prompt image and text.
type Request struct {
	PromptImage string
	PromptText  string
	Watermark   bool

	// Duration is in seconds; zero means DefaultDuration.
	Duration int

	// Ratio is `width:height`; empty means DefaultRatio.
	Ratio string
}

func (r Request) withDefaults() Request {
	if r.Duration == 0 {
		r.Duration = DefaultDuration
	}
	if r.Ratio == "" {
		r.Ratio = DefaultRatio
	}
	return r
}

// Validate checks the request against the generation backend's limits. The
// prompt length is measured in UTF-16 code units.
func (r Request) Validate() error {
	if n := promptLength(r.PromptText); n > MaxPromptTextLength {
		return &InvalidPromptTextErr{Length: n}
	}
	if r.Duration != 5 && r.Duration != 10 {
		return &InvalidDurationErr{Duration: r.Duration}
	}
	if r.Ratio != RatioLandscape && r.Ratio != RatioPortrait {
		return &InvalidRatioErr{Ratio: r.Ratio}
	}
	return nil
}

func promptLength(text string) int {
	return len(utf16.Encode([]rune(text)))
}

type InvalidPromptTextErr struct {
	Length int
}

func (err *InvalidPromptTextErr) Error() string {
	return fmt.Sprintf(
		"prompt text must be less than or equal to %d characters; "+
			"current length: %d",
		MaxPromptTextLength,
		err.Length,
	)
}

type InvalidDurationErr struct {
	Duration int
}

func (err *InvalidDurationErr) Error() string {
	return fmt.Sprintf(
		"duration must be either 5 or 10 seconds; received: %d",
		err.Duration,
	)
}

type InvalidRatioErr struct {
	Ratio string
}

func (err *InvalidRatioErr) Error() string {
	return fmt.Sprintf(
		"ratio must be either `%s` or `%s`; received: `%s`",
		RatioLandscape,
		RatioPortrait,
		err.Ratio,
	)
}
