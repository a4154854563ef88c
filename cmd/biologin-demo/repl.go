package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	goBioLogin "github.com/MrEthical07/goBioLogin"
	"github.com/MrEthical07/goBioLogin/async"
	"github.com/MrEthical07/goBioLogin/metrics/export/prometheus"
	"github.com/MrEthical07/goBioLogin/sandbox"
)

// repl is the UI thread of the demo: it reads a command, runs the screen
// action and pumps the engine loop until the action settles.
type repl struct {
	cfg     demoConfig
	engine  *goBioLogin.Engine
	account *sandbox.AccountService
	device  *sandbox.BiometricDevice
	logger  *slog.Logger
	out     io.Writer
	view    *consoleView

	// stack holds open screens, top last. Register opens over password login.
	stack []goBioLogin.ScreenController
}

func newREPL(cfg demoConfig, engine *goBioLogin.Engine, account *sandbox.AccountService, device *sandbox.BiometricDevice, logger *slog.Logger, out io.Writer) *repl {
	return &repl{
		cfg:     cfg,
		engine:  engine,
		account: account,
		device:  device,
		logger:  logger,
		out:     out,
		view:    newConsoleView(out),
	}
}

func (r *repl) top() goBioLogin.ScreenController {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *repl) prompt() string {
	if s := r.top(); s != nil {
		return s.Kind().String() + "> "
	}
	return "> "
}

// start opens the entry screen picked by the navigation rules.
func (r *repl) start(ctx context.Context) error {
	return r.open(ctx, r.engine.StartScreen(ctx))
}

// open closes every open screen and opens s. Register stacks on top of
// password login instead.
func (r *repl) open(ctx context.Context, s goBioLogin.Screen) error {
	if s != goBioLogin.ScreenRegister {
		r.closeAll()
	}
	ctrl, err := r.engine.Open(ctx, s, r.view)
	if err != nil {
		return err
	}
	r.stack = append(r.stack, ctrl)
	fmt.Fprintf(r.out, "== %s ==\n", s)
	return nil
}

func (r *repl) closeAll() {
	for _, s := range r.stack {
		s.Close()
	}
	r.stack = r.stack[:0]
}

func (r *repl) back(ctx context.Context) error {
	if len(r.stack) < 2 {
		return errors.New("nothing to go back to")
	}
	r.top().Close()
	r.stack = r.stack[:len(r.stack)-1]
	fmt.Fprintf(r.out, "== %s ==\n", r.top().Kind())
	return nil
}

// settle pumps the loop until f completes, then follows any navigation.
func (r *repl) settle(ctx context.Context, f *async.Future[goBioLogin.Screen]) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()
	if err := r.engine.Loop().RunUntil(ctx, f.Done()); err != nil {
		return fmt.Errorf("action did not finish: %w", err)
	}

	res, _ := f.Result()
	switch res.Outcome {
	case async.OutcomeCancelled:
		fmt.Fprintln(r.out, "  (cancelled)")
	case async.OutcomeError, async.OutcomeInvalidState:
		r.logger.Debug("action failed", "screen", r.top().Kind().String(), "error", res.Err)
	}
	return r.follow(ctx)
}

// follow opens the screen the view was last asked to navigate to.
func (r *repl) follow(ctx context.Context) error {
	next := r.view.takeNext()
	if next == goBioLogin.ScreenNone {
		return nil
	}
	if top := r.top(); top != nil && top.Kind() == next && !top.Closed() {
		return nil
	}
	return r.open(ctx, next)
}

// pump applies pending UI work, such as countdown ticks.
func (r *repl) pump() {
	r.engine.Loop().RunPending()
}

// exec runs one command line. It returns io.EOF on quit.
func (r *repl) exec(ctx context.Context, line string) error {
	r.pump()
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "quit", "exit":
		return io.EOF
	case "help", "?":
		r.help()
		return nil
	case "status":
		return r.status(ctx)
	case "device":
		return r.deviceCommand(args)
	case "expire":
		if err := r.account.ExpireRemoteSession(ctx); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "  remote session expired")
		return nil
	case "metrics":
		fmt.Fprint(r.out, prometheus.NewExporter(r.engine).Render())
		return nil
	case "restart":
		return r.start(ctx)
	case "reset":
		if err := r.engine.ClearSession(ctx); err != nil {
			return err
		}
		return r.start(ctx)
	}

	switch s := r.top().(type) {
	case *goBioLogin.PasswordLoginScreen:
		return r.passwordCommand(ctx, s, cmd, args)
	case *goBioLogin.RegisterScreen:
		return r.registerCommand(ctx, s, cmd, args)
	case *goBioLogin.BiometricLoginScreen:
		return r.biometricCommand(ctx, s, cmd, args)
	case *goBioLogin.HomeScreen:
		return r.homeCommand(ctx, s, cmd, args)
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

func (r *repl) passwordCommand(ctx context.Context, s *goBioLogin.PasswordLoginScreen, cmd string, args []string) error {
	switch cmd {
	case "login":
		form := goBioLogin.LoginForm{}
		fill(args, &form.CountryCode, &form.Email, &form.Password)
		return r.settle(ctx, s.Login(ctx, form))
	case "register":
		s.OpenRegister()
		return r.follow(ctx)
	}
	return fmt.Errorf("unknown command %q on %s", cmd, s.Kind())
}

func (r *repl) registerCommand(ctx context.Context, s *goBioLogin.RegisterScreen, cmd string, args []string) error {
	switch cmd {
	case "send":
		var email, cc string
		fill(args, &cc, &email)
		return r.settle(ctx, s.SendCode(ctx, email, cc))
	case "create":
		form := goBioLogin.RegisterForm{}
		fill(args, &form.CountryCode, &form.Email, &form.Password, &form.ConfirmPassword, &form.Code)
		return r.settle(ctx, s.Register(ctx, form))
	case "back":
		return r.back(ctx)
	}
	return fmt.Errorf("unknown command %q on %s", cmd, s.Kind())
}

func (r *repl) biometricCommand(ctx context.Context, s *goBioLogin.BiometricLoginScreen, cmd string, _ []string) error {
	switch cmd {
	case "finger", "touch":
		return r.settle(ctx, s.FingerLogin(ctx))
	case "password":
		return r.open(ctx, goBioLogin.ScreenPasswordLogin)
	}
	return fmt.Errorf("unknown command %q on %s", cmd, s.Kind())
}

func (r *repl) homeCommand(ctx context.Context, s *goBioLogin.HomeScreen, cmd string, _ []string) error {
	switch cmd {
	case "enable":
		return r.settle(ctx, s.EnableBiometric(ctx))
	case "disable":
		return r.settle(ctx, s.DisableBiometric(ctx))
	case "logout":
		return r.settle(ctx, s.Logout(ctx))
	}
	return fmt.Errorf("unknown command %q on %s", cmd, s.Kind())
}

func (r *repl) deviceCommand(args []string) error {
	if len(args) < 1 {
		fmt.Fprintf(r.out, "  templates: %s\n", strings.Join(r.device.Templates(), ", "))
		return nil
	}
	var arg string
	if len(args) > 1 {
		arg = args[1]
	}
	switch args[0] {
	case "hardware":
		r.device.SetHardware(arg != "off")
	case "available":
		r.device.SetAvailable(arg != "off")
	case "enroll":
		r.device.Enroll(arg)
	case "unenroll":
		r.device.Unenroll(arg)
	case "prompt":
		p, ok := sandbox.ParsePrompt(arg)
		if !ok {
			return fmt.Errorf("unknown prompt %q (accept, cancel, invalid, lockout)", arg)
		}
		r.device.QueuePrompt(p)
	default:
		return fmt.Errorf("unknown device command %q", args[0])
	}
	fmt.Fprintln(r.out, "  ok")
	return nil
}

func (r *repl) status(ctx context.Context) error {
	sess, err := r.engine.Session(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(r.out, "  session: uid=%s account=%s cc=%s logged_in=%t\n",
			sess.UserID, sess.AccountName, sess.CountryCode, sess.LoggedIn)
	default:
		fmt.Fprintf(r.out, "  session: %v\n", err)
	}
	fmt.Fprintf(r.out, "  remote session active: %t\n", r.account.IsSessionActive(ctx))
	if c := r.view.controls(); c != "" {
		fmt.Fprintf(r.out, "  controls: %s\n", c)
	}
	return nil
}

func (r *repl) help() {
	fmt.Fprint(r.out, `  password_login: login CC EMAIL PASSWORD | register
  register:       send CC EMAIL | create CC EMAIL PASSWORD CONFIRM CODE | back
  biometric_login: finger | password
  home:           enable | disable | logout
  any screen:     status | metrics | expire | restart | reset | quit
  device:         device [hardware|available on|off] [enroll|unenroll NAME]
                  [prompt accept|cancel|invalid|lockout]
`)
}

// fill assigns positional args to dst in order. Missing args stay empty so
// the screen's own validation reports them.
func fill(args []string, dst ...*string) {
	for i, d := range dst {
		if i < len(args) {
			*d = args[i]
		}
	}
}
