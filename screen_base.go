package goBioLogin

import (
	"errors"
	"strings"

	"github.com/MrEthical07/goBioLogin/async"
	"github.com/MrEthical07/goBioLogin/lifecycle"
	"github.com/MrEthical07/goBioLogin/uithread"
)

// screenBase is the state shared by every screen: its view and the lifecycle
// scope that guards completions.
type screenBase struct {
	engine *Engine
	view   View
	scope  *lifecycle.Scope
	kind   Screen
}

func (e *Engine) newScreenBase(kind Screen, view View) screenBase {
	if view == nil {
		view = nopView{}
	}
	return screenBase{
		engine: e,
		view:   view,
		scope:  lifecycle.NewScope(nil),
		kind:   kind,
	}
}

// Kind reports which screen this is.
func (s *screenBase) Kind() Screen {
	return s.kind
}

// Close cancels pending completions and timers. Results of in-flight SDK
// calls are dropped.
func (s *screenBase) Close() {
	s.scope.Close()
}

// Closed reports whether Close was called or the screen navigated away.
func (s *screenBase) Closed() bool {
	return !s.scope.Alive()
}

// finish navigates to next and closes the screen.
func (s *screenBase) finish(next Screen) {
	s.view.Navigate(next)
	s.scope.Close()
}

// post queues fn on the UI loop; fn is skipped once the screen is closed.
func (s *screenBase) post(fn func()) {
	s.engine.loop.Post(s.scope.Guard(fn))
}

// deliver hands the settled result of f to apply on the UI loop, provided the
// screen is still open. Otherwise p fails with ErrScreenClosed.
func deliver[T any](s *screenBase, f *async.Future[T], p *async.Promise[Screen], apply func(async.Result[T])) {
	if f == nil {
		f = async.Failed[T](errors.New("sdk returned no result"))
	}
	f.OnComplete(func(fn func()) {
		if !s.engine.loop.Post(fn) {
			_ = p.Fail(uithread.ErrClosed)
		}
	}, func(r async.Result[T]) {
		if !s.scope.Alive() {
			_ = p.Fail(ErrScreenClosed)
			return
		}
		apply(r)
	})
}

func closedAction() *async.Future[Screen] {
	return async.Failed[Screen](ErrScreenClosed)
}

// causeText strips step sentinels from a joined error and returns the
// innermost message.
func causeText(err error) string {
	var sdkErr *SDKError
	if errors.As(err, &sdkErr) {
		return remoteReason(sdkErr)
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := joined.Unwrap(); len(errs) > 0 {
			return causeText(errs[len(errs)-1])
		}
	}
	if err == nil {
		return remoteReason(nil)
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && i+2 < len(msg) {
		return msg[i+2:]
	}
	return msg
}

type nopView struct{}

func (nopView) ShowMessage(Message) {}
func (nopView) SetEnabled(Control, bool) {}
func (nopView) SetLabel(Control, string) {}
func (nopView) SetBusy(bool) {}
func (nopView) Navigate(Screen) {}
