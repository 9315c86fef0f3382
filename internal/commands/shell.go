// Package commands implements the phone book's command language: keyword
// dispatch, the handlers behind each keyword and the interactive loop.
package commands

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mesh-intelligence/phonebook/internal/logger"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Prompt is printed before each interactive read.
const Prompt = "Enter command and info: "

// Handler runs one command against the shell's book with the arguments
// that followed the keyword.
type Handler func(s *Shell, args []string) error

type command struct {
	keyword string
	usage   string
	summary string
	run     Handler
}

// Shell owns an AddressBook for the length of a session and executes
// command lines against it. It is not safe for concurrent use.
type Shell struct {
	book     *types.AddressBook
	policy   types.BirthdayPolicy
	out      io.Writer
	styled   bool
	json     bool
	now      func() time.Time
	log      *logger.Logger
	commands []command
}

// Option configures a Shell.
type Option func(*Shell)

// WithOutput sets where command output is written. Default os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) { s.out = w }
}

// WithPolicy sets the birthday parse policy. Default lenient.
func WithPolicy(p types.BirthdayPolicy) Option {
	return func(s *Shell) { s.policy = p }
}

// WithStyled renders tables with lipgloss instead of plain text.
func WithStyled(styled bool) Option {
	return func(s *Shell) { s.styled = styled }
}

// WithJSON makes listing commands print JSON.
func WithJSON(json bool) Option {
	return func(s *Shell) { s.json = json }
}

// WithClock replaces time.Now for birthday calculations.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Shell operating on book.
func New(book *types.AddressBook, opts ...Option) *Shell {
	s := &Shell{
		book:   book,
		policy: types.DefaultBirthdayPolicy,
		out:    os.Stdout,
		now:    time.Now,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.commands = builtinCommands()
	// Longest keyword first so "show all" is tried before shorter keywords.
	slices.SortStableFunc(s.commands, func(a, b command) int {
		return cmp.Compare(len(b.keyword), len(a.keyword))
	})
	return s
}

// Book returns the book the shell operates on.
func (s *Shell) Book() *types.AddressBook { return s.book }

// match finds the command whose keyword starts line, ignoring case, and is
// not followed directly by a letter or digit.
func (s *Shell) match(line string) (command, []string, bool) {
	for _, c := range s.commands {
		n := len(c.keyword)
		if len(line) < n || !strings.EqualFold(line[:n], c.keyword) {
			continue
		}
		if next, _ := utf8.DecodeRuneInString(line[n:]); next != utf8.RuneError && (unicode.IsLetter(next) || unicode.IsDigit(next)) {
			continue
		}
		return c, strings.Fields(line[n:]), true
	}
	return command{}, nil, false
}

// Execute runs one command line. It returns ErrExit for the exit keywords,
// ErrUnknownCommand when no keyword matches and the handler's error
// otherwise. Invalid UTF-8 in line is replaced with U+FFFD.
func (s *Shell) Execute(line string) error {
	line = strings.TrimSpace(strings.ToValidUTF8(line, string(utf8.RuneError)))
	c, args, ok := s.match(line)
	if !ok {
		s.log.Debug("no command matched", "line", line)
		return ErrUnknownCommand
	}
	s.log.Debug("command dispatched", "command", c.keyword, "args", len(args))
	return c.run(s, args)
}

// Call runs the command registered under keyword with args taken as given,
// so arguments may contain spaces. Returns ErrUnknownCommand for an
// unregistered keyword.
func (s *Shell) Call(keyword string, args ...string) error {
	for _, c := range s.commands {
		if strings.EqualFold(c.keyword, keyword) {
			s.log.Debug("command called", "command", c.keyword, "args", len(args))
			valid := make([]string, len(args))
			for i, a := range args {
				valid[i] = strings.ToValidUTF8(a, string(utf8.RuneError))
			}
			return c.run(s, valid)
		}
	}
	return ErrUnknownCommand
}

// Run reads command lines from in until an exit keyword, end of input or
// cancellation of ctx. Lines have no length limit. Errors from commands are
// printed and the loop goes on. Saving the book is left to the caller.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	r := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, Prompt)
		line, rerr := r.ReadString('\n')
		if rerr != nil && (line == "" || !errors.Is(rerr, io.EOF)) {
			fmt.Fprintln(s.out)
			if errors.Is(rerr, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading command: %w", rerr)
		}
		// A final line without a newline still runs; the next read reports EOF.
		err := s.Execute(line)
		if err == nil {
			continue
		}
		fmt.Fprintln(s.out, Message(err))
		if errors.Is(err, ErrExit) {
			return nil
		}
	}
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}
