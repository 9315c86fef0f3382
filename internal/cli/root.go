// Package cli implements the phonebook command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/phonebook/internal/commands"
	"github.com/mesh-intelligence/phonebook/internal/logger"
	"github.com/mesh-intelligence/phonebook/internal/tui"
	"github.com/mesh-intelligence/phonebook/pkg/phonebook"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app carries global flag values and the state built from them for one
// invocation.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool

	cfg types.Config
	log *logger.Logger
}

// systemError marks failures of the environment (files, database) as
// opposed to bad user input.
type systemError struct {
	err error
}

func (e *systemError) Error() string { return e.err.Error() }

func (e *systemError) Unwrap() error { return e.err }

func sysErr(format string, args ...any) error {
	return &systemError{err: fmt.Errorf(format, args...)}
}

// NewRootCmd creates the top-level "phonebook" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{log: logger.Nop()})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "phonebook",
		Short: "A console phone book",
		Long: "Phonebook keeps names, phone numbers and birthdays.\n" +
			"Run without a subcommand to enter the interactive prompt.",
		Version:           phonebook.Version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runInteractive,
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/phonebook)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.phonebook-db)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newContactCmds(a)...)
	root.AddCommand(newBrowseCmd(a))

	return root
}

// Execute runs the CLI against the process's arguments and standard
// streams and exits with the resulting code.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Run executes the CLI with args and returns the exit code.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{log: logger.Nop()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	a.log.Sync()

	var se *systemError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &se):
		fmt.Fprintf(errOut, "Error: %v\n", se.err)
		return exitSysError
	case commands.IsUserError(err):
		fmt.Fprintln(errOut, commands.Message(err))
		return exitUserError
	default:
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return exitUserError
	}
}

// setup loads .env files and config.yaml, resolves directories and builds
// the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := a.loadSettings()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log.With("command", cmd.Name())
	a.log.Debug("configuration loaded", "config_dir", a.configDir, "data_dir", cfg.DataDir)
	return nil
}

// withStore attaches the configured store, loads the book and hands it to
// fn. When fn succeeds and save is set the book is written back. The store
// is always detached.
func (a *app) withStore(save bool, fn func(book *types.AddressBook) error) (err error) {
	store, err := openStore(a.cfg, a.log)
	if err != nil {
		return sysErr("opening phone book: %w", err)
	}
	defer func() {
		if derr := store.Detach(); derr != nil && err == nil {
			err = sysErr("closing phone book: %w", derr)
		}
	}()

	book, err := store.Load()
	if err != nil {
		return sysErr("loading phone book: %w", err)
	}
	if err := fn(book); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := store.Save(book); err != nil {
		return sysErr("saving phone book: %w", err)
	}
	return nil
}

func (a *app) shell(cmd *cobra.Command, book *types.AddressBook) *commands.Shell {
	return commands.New(book,
		commands.WithOutput(cmd.OutOrStdout()),
		commands.WithPolicy(a.cfg.Policy()),
		commands.WithStyled(tui.IsTTY(cmd.OutOrStdout())),
		commands.WithJSON(a.jsonMode),
		commands.WithLogger(a.log),
	)
}

// runInteractive runs the prompt loop and saves the book however the loop
// ends. A read failure is reported after the save.
func (a *app) runInteractive(cmd *cobra.Command, _ []string) error {
	var runErr error
	err := a.withStore(true, func(book *types.AddressBook) error {
		runErr = a.shell(cmd, book).Run(cmd.Context(), cmd.InOrStdin())
		return nil
	})
	if err != nil {
		return err
	}
	if runErr != nil {
		return &systemError{err: runErr}
	}
	return nil
}
