package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

func builtinCommands() []command {
	return []command{
		{keyword: "hello", summary: "greet", run: hello},
		{keyword: "add", usage: "<name> <phone>", summary: "add a contact or another phone to it", run: add},
		{keyword: "phone", usage: "<name>", summary: "show the phones of a contact", run: phone},
		{keyword: "change", usage: "<name> <old phone> <new phone>", summary: "replace a phone", run: change},
		{keyword: "delete", usage: "<name> <phone>", summary: "remove a phone", run: deletePhone},
		{keyword: "find", usage: "<text>", summary: "search names and phones", run: find},
		{keyword: "show all", summary: "list every contact", run: showAll},
		{keyword: "birthday", usage: "<name> [DD-MM-YYYY]", summary: "set a birthday and count the days to it", run: birthday},
		{keyword: "help", summary: "list commands", run: help},
		{keyword: "exit", summary: "save and quit", run: exit},
		{keyword: "close", summary: "save and quit", run: exit},
		{keyword: "bye", summary: "save and quit", run: exit},
	}
}

func hello(s *Shell, _ []string) error {
	s.println("Hello! How can I help you?")
	return nil
}

func exit(_ *Shell, _ []string) error {
	return ErrExit
}

func add(s *Shell, args []string) error {
	if len(args) < 2 {
		return ErrMissingArgs
	}
	name, raw := args[0], args[1]
	if r, err := s.book.GetRecord(name); err == nil {
		if err := r.AddPhone(raw); err != nil {
			return err
		}
		s.println("New contact was added")
		return nil
	}
	r, err := types.NewRecord(name, "", s.policy)
	if err != nil {
		return err
	}
	if err := r.AddPhone(raw); err != nil {
		return err
	}
	s.book.AddRecord(r)
	s.println("New contact was added")
	return nil
}

func phone(s *Shell, args []string) error {
	if len(args) < 1 {
		return ErrMissingArgs
	}
	r, err := s.book.GetRecord(args[0])
	if err != nil {
		return err
	}
	if s.json {
		return s.writeJSON(viewOf(r))
	}
	s.println(r.String())
	return nil
}

func noSuchNumber(name, raw string) error {
	return &UserError{
		Msg: fmt.Sprintf("No such number %q for name %q", raw, name),
		Err: types.ErrPhoneNotFound,
	}
}

func change(s *Shell, args []string) error {
	if len(args) < 3 {
		return ErrMissingArgs
	}
	name, oldRaw, newRaw := args[0], args[1], args[2]
	r, err := s.book.GetRecord(name)
	if err != nil {
		return err
	}
	old, ok := r.FindPhone(oldRaw)
	if !ok {
		return noSuchNumber(name, oldRaw)
	}
	if err := r.EditPhone(old, newRaw); err != nil {
		return err
	}
	s.printf("Phone %q was changed to %q for %q\n", oldRaw, newRaw, name)
	return nil
}

func deletePhone(s *Shell, args []string) error {
	if len(args) < 2 {
		return ErrMissingArgs
	}
	name, raw := args[0], args[1]
	r, err := s.book.GetRecord(name)
	if err != nil {
		return err
	}
	p, ok := r.FindPhone(raw)
	if !ok {
		return noSuchNumber(name, raw)
	}
	if err := r.RemovePhone(p); err != nil {
		return err
	}
	s.printf("Phone number %q for %q was deleted\n", raw, name)
	return nil
}

func find(s *Shell, args []string) error {
	if len(args) < 1 {
		return ErrMissingArgs
	}
	matches := s.book.Find(args[0])
	if s.json {
		views := make([]contactView, 0, len(matches))
		for _, m := range matches {
			v := viewOf(m.Record)
			v.Phones = phoneValues(m.Phones)
			views = append(views, v)
		}
		return s.writeJSON(views)
	}
	if len(matches) == 0 {
		s.println("There are no contacts with such data")
		return nil
	}
	for _, m := range matches {
		if m.ByName {
			s.println(m.String())
			continue
		}
		for _, p := range m.Phones {
			s.printf("%s: %s\n", m.Record.Name(), p)
		}
	}
	return nil
}

func showAll(s *Shell, _ []string) error {
	if s.json {
		views := make([]contactView, 0, s.book.Len())
		for r := range s.book.All() {
			views = append(views, viewOf(r))
		}
		return s.writeJSON(views)
	}
	if s.book.Len() == 0 {
		s.println("There are no contacts in the phone book yet")
		return nil
	}
	if s.styled {
		s.println(StyledTable(s.book.All()))
		return nil
	}
	fmt.Fprint(s.out, PlainTable(s.book.All()))
	return nil
}

func birthday(s *Shell, args []string) error {
	if len(args) < 1 {
		return ErrMissingArgs
	}
	name := args[0]
	r, err := s.book.GetRecord(name)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		if err := r.SetBirthday(args[1], s.policy); err != nil {
			return err
		}
	}
	days, err := r.DaysToBirthdayAt(s.now())
	if errors.Is(err, types.ErrNoBirthdaySet) {
		return &UserError{
			Msg: fmt.Sprintf("No birthday set for %q. Use: birthday <name> <DD-MM-YYYY>", name),
			Err: err,
		}
	}
	if err != nil {
		return err
	}
	if days == 0 {
		s.printf("Today is the birthday of %q (%s)!\n", name, r.Birthday())
		return nil
	}
	s.printf("Next birthday of %q (%s) is in %d days\n", name, r.Birthday(), days)
	return nil
}

func help(s *Shell, _ []string) error {
	s.println("Commands:")
	for _, c := range builtinCommands() {
		usage := c.keyword
		if c.usage != "" {
			usage += " " + c.usage
		}
		s.printf("  %-38s %s\n", usage, c.summary)
	}
	return nil
}

// contactView is the JSON shape of a contact in --json output.
type contactView struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday string   `json:"birthday,omitempty"`
}

func viewOf(r *types.Record) contactView {
	return contactView{
		Name:     r.Name().Value(),
		Phones:   phoneValues(r.Phones()),
		Birthday: r.Birthday().String(),
	}
}

func phoneValues(phones []types.Phone) []string {
	out := make([]string, len(phones))
	for i, p := range phones {
		out[i] = p.Value()
	}
	return out
}

func (s *Shell) writeJSON(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
