package sequence

import "time"

// Style tags how a scripted line is rendered by a display.
type Style string

const (
	StyleCommand Style = "command"
	StyleOutput  Style = "output"
	StyleInfo    Style = "info"
	StyleBlank   Style = "blank"
	StyleSuccess Style = "success"
	StyleLoading Style = "loading"
	StyleError   Style = "error"
)

// Line is one pre-authored line of simulated terminal output. Delay is
// measured from the append of the previous line, not from the start.
type Line struct {
	Delay time.Duration
	Text  string
	Style Style
}

func Command(delay time.Duration, text string) Line {
	return Line{Delay: delay, Text: text, Style: StyleCommand}
}

func Output(delay time.Duration, text string) Line {
	return Line{Delay: delay, Text: text, Style: StyleOutput}
}

func Info(delay time.Duration, text string) Line {
	return Line{Delay: delay, Text: text, Style: StyleInfo}
}

func Blank(delay time.Duration) Line {
	return Line{Delay: delay, Style: StyleBlank}
}

// Duration returns the sum of every line delay.
func Duration(lines []Line) time.Duration {
	var total time.Duration
	for _, l := range lines {
		total += l.Delay
	}
	return total
}
