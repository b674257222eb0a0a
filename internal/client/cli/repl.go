package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Verify(ctx context.Context, token string) error
	Resend(ctx context.Context, email string) error
	WhoAmI(ctx context.Context) error
}

const helpText = "Available commands: signup, login, verify <token>, resend <email>, whoami, exit"

// runREPL reads commands from reader until EOF or "exit"/"quit".
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ak> %s > ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "signup", "register":
			cmdErr = a.Signup(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "verify":
			if len(args) != 1 {
				printlnFn("Usage: verify <token>")
				continue
			}
			cmdErr = a.Verify(ctx, args[0])

		case "resend":
			if len(args) != 1 {
				printlnFn("Usage: resend <email>")
				continue
			}
			cmdErr = a.Resend(ctx, args[0])

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
