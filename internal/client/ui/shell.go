package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/tourney/internal/client/api"
	"github.com/atinyakov/tourney/internal/client/tokenstore"
)

const prompt = "tourney> "

// Shell is the interactive front end: it reads commands, renders the current
// route and drives the login and register views.
type Shell struct {
	in       *bufio.Scanner
	out      io.Writer
	router   *Router
	auth     AuthClient
	store    tokenstore.Store
	login    *LoginView
	register *RegisterView
}

// NewShell builds a shell reading from in and writing to out.
func NewShell(in io.Reader, out io.Writer, auth AuthClient, store tokenstore.Store, log *zap.Logger) *Shell {
	router := NewRouter()
	return &Shell{
		in:       bufio.NewScanner(in),
		out:      out,
		router:   router,
		auth:     auth,
		store:    store,
		login:    NewLoginView(auth, store, router, log),
		register: NewRegisterView(auth, router, log),
	}
}

// Router exposes the shell's router.
func (s *Shell) Router() *Router {
	return s.router
}

// Run loops over input lines until "exit" or end of input.
func (s *Shell) Run(ctx context.Context) {
	s.render()
	for {
		fmt.Fprint(s.out, prompt)
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return
		}
		if !s.Exec(ctx, s.in.Text()) {
			return
		}
	}
}

// Exec runs one command line and reports whether the shell should keep going.
// Command failures are printed and do not stop the shell.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	more, _ := s.exec(ctx, line)
	return more
}

// RunCommand runs a single command line, as in one-shot mode, and returns the
// error of a failed login, registration or status check.
func (s *Shell) RunCommand(ctx context.Context, line string) error {
	_, err := s.exec(ctx, line)
	return err
}

func (s *Shell) exec(ctx context.Context, line string) (bool, error) {
	args := strings.Fields(strings.TrimSpace(line))
	if len(args) == 0 {
		return true, nil
	}

	var err error
	switch args[0] {
	case "help":
		s.help()
	case "home":
		s.router.Navigate(RouteHome)
		s.render()
	case "login":
		s.router.Navigate(RouteLogin)
		s.render()
		err = s.doLogin(ctx)
	case "register":
		s.router.Navigate(RouteRegister)
		s.render()
		err = s.doRegister(ctx)
	case "status":
		var msg string
		msg, err = s.status(ctx)
		fmt.Fprintln(s.out, msg)
	case "exit", "quit":
		fmt.Fprintln(s.out, "Bye")
		return false, nil
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
		err = fmt.Errorf("unknown command %q", args[0])
	}
	return true, err
}

// Status describes the authentication state: whether a token is stored, whose
// it claims to be, and what the API says about it.
func (s *Shell) Status(ctx context.Context) string {
	msg, _ := s.status(ctx)
	return msg
}

// ErrNotLoggedIn is reported by a status check when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in")

func (s *Shell) status(ctx context.Context) (string, error) {
	token, ok := s.store.Get()
	if !ok {
		return "Not logged in", ErrNotLoggedIn
	}

	var b strings.Builder
	b.WriteString("Token stored")
	if sub := tokenSubject(token); sub != "" {
		fmt.Fprintf(&b, " (subject %s)", sub)
	}

	profile, err := s.auth.Me(ctx)
	if err != nil {
		fmt.Fprintf(&b, "\nProfile unavailable: %s", api.ErrorMessage(err, err.Error()))
		return b.String(), err
	}
	fmt.Fprintf(&b, "\nLogged in as %s <%s>", profile.DisplayName, profile.Email)
	return b.String(), nil
}

func (s *Shell) doLogin(ctx context.Context) error {
	email := s.ask("Email: ")
	password := s.ask("Password: ")

	if err := s.login.Submit(ctx, email, password); err != nil {
		fmt.Fprintf(s.out, "Error: %s\n", s.login.Error())
		return err
	}
	fmt.Fprintln(s.out, "Logged in.")
	s.render()
	return nil
}

func (s *Shell) doRegister(ctx context.Context) error {
	email := s.ask("Email: ")
	displayName := s.ask("Display name: ")
	password := s.ask("Password: ")

	if err := s.register.Submit(ctx, email, displayName, password); err != nil {
		fmt.Fprintf(s.out, "Error: %s\n", s.register.Error())
		return err
	}
	fmt.Fprintln(s.out, "Account created.")
	s.render()
	return nil
}

func (s *Shell) ask(label string) string {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

func (s *Shell) render() {
	switch s.router.Current() {
	case RouteLogin:
		fmt.Fprintln(s.out, "== Login ==")
	case RouteRegister:
		fmt.Fprintln(s.out, "== Register ==")
	default:
		fmt.Fprintln(s.out, "== Gaming Tournament Platform ==")
		fmt.Fprintln(s.out, "Create, organize, and participate in gaming tournaments")
	}
}

func (s *Shell) help() {
	fmt.Fprintln(s.out, "Tournament Platform")
	fmt.Fprintln(s.out, "  home      show the home page")
	fmt.Fprintln(s.out, "  login     log in with email and password")
	fmt.Fprintln(s.out, "  register  create an account")
	fmt.Fprintln(s.out, "  status    show who is logged in")
	fmt.Fprintln(s.out, "  exit      leave the shell")
}

// tokenSubject returns the "sub" claim of a JWT without verifying it, or ""
// if the token is not a JWT. The token is opaque to the client; this is display only.
func tokenSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
