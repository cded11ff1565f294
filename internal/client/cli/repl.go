package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Apply(ctx context.Context) error
	SetStatus(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Stats(ctx context.Context) error
	Reconcile(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from scanner and dispatches them to a until EOF
// or "exit". Commands that need a session are refused while logged out.
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account
//	  - login          authenticate
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - apply          record an application for a job
//	  - status         move an application to another status
//	  - (l)ist         list applications, optionally by status
//	  - show           show a single application
//	  - stats          per-status counts
//	  - reconcile      rebuild the counts from the stored applications
//	  - logout         end the session
//	  - exit | quit    leave the program
//
// Errors from handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ja %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: apply, status, (l)ist, show, stats, reconcile, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "apply", "status", "l", "list", "show", "stats", "reconcile", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			switch cmd {
			case "apply":
				err = a.Apply(ctx)
			case "status":
				err = a.SetStatus(ctx)
			case "l", "list":
				err = a.List(ctx)
			case "show":
				err = a.Show(ctx)
			case "stats":
				err = a.Stats(ctx)
			case "reconcile":
				err = a.Reconcile(ctx)
			case "logout":
				err = a.Logout(ctx)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
