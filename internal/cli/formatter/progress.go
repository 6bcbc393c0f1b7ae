package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBudgetBar renders how much of a budget is spent, like
// [████░░░░]  45%. Green below 70%, yellow up to 100%, red when over.
// The bar saturates at full; the percentage does not.
func RenderBudgetBar(spent float64, width int) string {
	if spent < 0 {
		spent = 0
	}
	width = max(width, 2)

	filled := min(int(spent*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case spent > 1:
		style = StyleRed
	case spent >= 0.7:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), spent*100)
}
