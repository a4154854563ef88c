package main

import (
	"fmt"
	"io"
	"strings"

	goBioLogin "github.com/MrEthical07/goBioLogin"
)

// consoleView prints screen updates and remembers the last navigation
// request for the REPL to act on.
type consoleView struct {
	out      io.Writer
	disabled map[goBioLogin.Control]bool
	labels   map[goBioLogin.Control]string
	next     goBioLogin.Screen
}

func newConsoleView(out io.Writer) *consoleView {
	return &consoleView{
		out:      out,
		disabled: map[goBioLogin.Control]bool{},
		labels:   map[goBioLogin.Control]string{},
	}
}

func (v *consoleView) ShowMessage(msg goBioLogin.Message) {
	switch msg.Kind {
	case goBioLogin.MessageDialog:
		fmt.Fprintf(v.out, "  [dialog] %s\n", msg.Text)
		if msg.Fallback != goBioLogin.ScreenNone {
			fmt.Fprintf(v.out, "  [dialog] OK -> %s\n", msg.Fallback)
			v.next = msg.Fallback
		}
	default:
		fmt.Fprintf(v.out, "  * %s\n", msg.Text)
	}
}

func (v *consoleView) SetEnabled(c goBioLogin.Control, enabled bool) {
	if v.disabled[c] == !enabled {
		return
	}
	v.disabled[c] = !enabled
	state := "enabled"
	if !enabled {
		state = "disabled"
	}
	fmt.Fprintf(v.out, "  (%s %s)\n", c, state)
}

func (v *consoleView) SetLabel(c goBioLogin.Control, text string) {
	v.labels[c] = text
	if c == goBioLogin.ControlSendCode {
		return
	}
	fmt.Fprintf(v.out, "  %s: %s\n", c, text)
}

func (v *consoleView) SetBusy(busy bool) {
	if busy {
		fmt.Fprintln(v.out, "  ...")
	}
}

func (v *consoleView) Navigate(s goBioLogin.Screen) {
	v.next = s
}

// takeNext returns and clears the pending navigation.
func (v *consoleView) takeNext() goBioLogin.Screen {
	s := v.next
	v.next = goBioLogin.ScreenNone
	return s
}

// controls summarises disabled controls and labels for the status line.
func (v *consoleView) controls() string {
	var parts []string
	for c, off := range v.disabled {
		if off {
			parts = append(parts, c.String()+"=off")
		}
	}
	if label, ok := v.labels[goBioLogin.ControlSendCode]; ok {
		parts = append(parts, "send_code="+label)
	}
	return strings.Join(parts, " ")
}
