package progress

import (
	"fmt"
	"time"
)

// Display is the top-level progress reporter a compile run drives,
// re-scoped to frame enter/exit and step-compiled events instead of
// generic loop iterations.
type Display struct {
	styler    *Styler
	enabled   bool
	startTime time.Time
	depth     int
}

func NewDisplay(enabled bool) *Display {
	return &Display{styler: NewStyler(DefaultStyleConfig()), enabled: enabled}
}

func (d *Display) WriteProgress(e Event) {
	if !d.enabled {
		return
	}
	indent := ""
	for i := 0; i < d.depth; i++ {
		indent += "  "
	}
	switch e.Type {
	case EventFrameEnter:
		if d.depth == 0 {
			d.startTime = time.Now()
			fmt.Println(d.styler.Box(fmt.Sprintf("compiling %s", e.Namespace), 50))
		}
		fmt.Printf("%s%s entering %s\n", indent, d.styler.RunningIcon(), d.styler.FrameName(e.Namespace))
		d.depth++
	case EventStepCompiled:
		fmt.Printf("%s%s %s\n", indent, d.styler.StepIcon(), d.styler.StepName(e.Step))
	case EventFrameExit:
		if d.depth > 0 {
			d.depth--
		}
		fmt.Printf("%s%s left %s\n", indent, d.styler.SuccessIcon(), d.styler.FrameName(e.Namespace))
	case EventDone:
		fmt.Printf("%s finished in %s\n", d.styler.SuccessIcon(), d.styler.Duration(time.Since(d.startTime).Round(time.Millisecond).String()))
	}
}
