package board

import (
	"fmt"
	"strings"
)

// BarLines renders bars as horizontal text bars scaled so the largest value
// fills width cells. Labels are padded to a common column.
func BarLines(bars []Bar, width int) []string {
	if width < 1 {
		width = 1
	}
	maxVal, labelW := 0, 0
	for _, b := range bars {
		if b.Value > maxVal {
			maxVal = b.Value
		}
		if len(b.Label) > labelW {
			labelW = len(b.Label)
		}
	}
	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		n := 0
		if maxVal > 0 && b.Value > 0 {
			n = b.Value * width / maxVal
			if n == 0 {
				n = 1
			}
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %d", labelW, b.Label, strings.Repeat("█", n)+strings.Repeat("░", width-n), b.Value))
	}
	return lines
}
