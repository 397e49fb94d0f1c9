// Package main is the terminal frontend for chatboard.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chatboard/chatboard/internal/client"
	"github.com/chatboard/chatboard/internal/view"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const help = `commands:
  add <name> <email>   register a user (once per device)
  delete <#|id>        delete a user after confirmation
  as <name>            choose who messages are sent as
  say <text>           send a message (plain lines are sent too)
  refresh              reload users and messages
  help                 show this help
  quit                 exit`

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()

	cfg, err := client.LoadConfig()
	if err != nil {
		return exitConfig, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := bufio.NewScanner(os.Stdin)
	repl := &repl{
		app: view.NewApp(
			client.New(cfg.APIURL),
			view.NewFileGate(cfg.StateDir),
			lineConfirmer{in: in, out: os.Stdout},
		),
		renderer: view.Renderer{Colours: cfg.Colours},
		in:       in,
		out:      os.Stdout,
	}

	if err := repl.run(ctx); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

// lineConfirmer reads a y/N answer from the shared input scanner.
type lineConfirmer struct {
	in  *bufio.Scanner
	out io.Writer
}

func (c lineConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	if !c.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.in.Text()))
	return answer == "y" || answer == "yes"
}

type repl struct {
	app      *view.App
	renderer view.Renderer
	in       *bufio.Scanner
	out      io.Writer
}

func (r *repl) run(ctx context.Context) error {
	if err := r.app.Mount(ctx); err != nil {
		fmt.Fprintf(r.out, "initial load failed: %v\n", err)
	}
	r.render()
	fmt.Fprintln(r.out, help)

	for {
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		quit, err := r.dispatch(ctx, strings.TrimSpace(r.in.Text()))
		if quit {
			return nil
		}
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
		r.render()
	}
}

func (r *repl) dispatch(ctx context.Context, line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(r.out, help)
		return false, nil
	case "refresh":
		return false, r.app.Mount(ctx)
	case "add":
		i := strings.LastIndex(rest, " ")
		if i < 0 {
			return false, view.ErrIncomplete
		}
		r.app.Users.SetForm(strings.TrimSpace(rest[:i]), rest[i+1:])
		return false, r.app.Users.AddUser(ctx)
	case "delete":
		id, err := r.resolveUser(rest)
		if err != nil {
			return false, err
		}
		_, err = r.app.Users.DeleteUser(ctx, id)
		return false, err
	case "as":
		if !r.app.Chat.SelectSender(rest) {
			return false, fmt.Errorf("unknown user %q", rest)
		}
		return false, nil
	case "say":
		r.app.Chat.SetText(rest)
		return false, r.app.Chat.Send(ctx)
	default:
		r.app.Chat.SetText(line)
		return false, r.app.Chat.Send(ctx)
	}
}

// resolveUser accepts a 1-based row number from the users table or an id.
func (r *repl) resolveUser(arg string) (string, error) {
	if arg == "" {
		return "", errors.New("delete needs a row number or id")
	}
	users := r.app.Users.Snapshot().Users
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(users) {
			return "", fmt.Errorf("no user in row %d", n)
		}
		return users[n-1].ID, nil
	}
	return arg, nil
}

func (r *repl) render() {
	fmt.Fprintln(r.out)
	r.renderer.RenderUsers(r.out, r.app.Users.Snapshot())
	fmt.Fprintln(r.out)
	r.renderer.RenderChat(r.out, r.app.Chat.Snapshot())
}
