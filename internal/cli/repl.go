package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	hasWallet() bool

	Create(ctx context.Context) error
	Import(ctx context.Context) error
	Password(ctx context.Context) error
	Ack(ctx context.Context) error
	Confirm(ctx context.Context) error
	Finalize(ctx context.Context) error
	Back(ctx context.Context) error
	Done(ctx context.Context) error
	Restore(ctx context.Context, key string) error

	Address(ctx context.Context) error
	Unlock(ctx context.Context) error
	Backup(ctx context.Context) error
	Reset(ctx context.Context) error

	Status(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Command handlers report their own outcome; errors returned to the loop are
// printed and never end it.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("seed %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch {
		case cmd == "help":
			if a.hasWallet() {
				printlnFn("Available commands: address, unlock, backup, reset, status, exit")
			} else {
				printlnFn("Available commands: create, import, password, ack, confirm, finalize, back, done, restore <key>, status, exit")
			}

		case cmd == "status":
			cmdErr = a.Status(ctx)

		case cmd == "exit", cmd == "quit":
			printlnFn("Bye!")
			return

		case a.hasWallet():
			cmdErr = walletCommand(ctx, a, cmd)

		default:
			cmdErr = onboardingCommand(ctx, a, cmd, args)
		}

		if cmdErr != nil {
			printlnFn(describeError(cmdErr))
		}
	}
}

var errUnknownCommand = errors.New("unknown command")

func walletCommand(ctx context.Context, a execIface, cmd string) error {
	switch cmd {
	case "address":
		return a.Address(ctx)
	case "unlock":
		return a.Unlock(ctx)
	case "backup":
		return a.Backup(ctx)
	case "reset":
		return a.Reset(ctx)
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

func onboardingCommand(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "create":
		return a.Create(ctx)
	case "import":
		return a.Import(ctx)
	case "password":
		return a.Password(ctx)
	case "ack":
		return a.Ack(ctx)
	case "confirm":
		return a.Confirm(ctx)
	case "finalize":
		return a.Finalize(ctx)
	case "back":
		return a.Back(ctx)
	case "done":
		return a.Done(ctx)
	case "restore":
		if len(args) == 0 {
			printlnFn("Usage: restore <key>")
			return nil
		}
		return a.Restore(ctx, args[0])
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}
