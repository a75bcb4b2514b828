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
	currentScreen() screen
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	More(ctx context.Context) error
	Refresh(ctx context.Context) error
	FilterAuthor(ctx context.Context, value string) error
	FilterTag(ctx context.Context, value string) error
	Show(ctx context.Context, id string) error
	WhoAmI(ctx context.Context) error
	Permission(ctx context.Context, path string) error
	ShowLog(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the CygnusOne client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The command set depends on the
// current screen; unknown commands are reported back to the user. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
//
// Login screen:
//   - help           show available commands
//   - register       create an account
//   - login          authenticate
//   - log            show the in-memory debug log
//   - exit | quit    leave the program
//
// Articles screen:
//   - help           show available commands
//   - list | l       show the loaded articles (loads page 1 when empty)
//   - more | m       load the next page
//   - refresh | r    reload from page 1
//   - author <name>  filter by author ("author -" clears)
//   - tag <tag>      filter by tag ("tag -" clears)
//   - show <id>      show a single article
//   - whoami         show the logged-in user
//   - perm <path>    check a dotted permission path
//   - log            show the in-memory debug log
//   - logout         log out
//   - exit | quit    leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(promptStyle.Render(fmt.Sprintf("cygnus %s> ", statusFn())))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "help":
			if a.currentScreen() == screenArticles {
				printlnFn("Available commands: (l)ist, (m)ore, (r)efresh, author <name>|-, tag <tag>|-, show <id>, whoami, perm <path>, log, logout, exit")
			} else {
				printlnFn("Available commands: login, register, log, exit")
			}

		case "log":
			_ = a.ShowLog(ctx)

		default:
			if a.currentScreen() == screenArticles {
				dispatchArticles(ctx, a, cmd, args)
			} else {
				dispatchLogin(ctx, a, cmd)
			}
		}
	}
}

func dispatchLogin(ctx context.Context, a execIface, cmd string) {
	switch cmd {
	case "login":
		_ = a.Login(ctx)
	case "register":
		_ = a.Register(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}

func dispatchArticles(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "l", "list":
		_ = a.List(ctx)

	case "m", "more":
		_ = a.More(ctx)

	case "r", "refresh":
		_ = a.Refresh(ctx)

	case "author":
		if len(args) == 0 {
			printlnFn("Usage: author <name>  (author - clears the filter)")
			return
		}
		_ = a.FilterAuthor(ctx, args[0])

	case "tag":
		if len(args) == 0 {
			printlnFn("Usage: tag <tag>  (tag - clears the filter)")
			return
		}
		_ = a.FilterTag(ctx, args[0])

	case "show":
		if len(args) == 0 {
			printlnFn("Usage: show <id>")
			return
		}
		_ = a.Show(ctx, args[0])

	case "whoami":
		_ = a.WhoAmI(ctx)

	case "perm":
		if len(args) == 0 {
			printlnFn("Usage: perm <path>")
			return
		}
		_ = a.Permission(ctx, args[0])

	case "logout":
		_ = a.Logout(ctx)

	default:
		printlnFn("Unknown command:", cmd)
	}
}
