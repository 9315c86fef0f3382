package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
}

func newTestShell(t *testing.T, opts ...Option) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithOutput(&out), WithClock(fixedClock)}, opts...)
	return New(types.NewAddressBook(), opts...), &out
}

func run(t *testing.T, s *Shell, out *bytes.Buffer, line string) (string, error) {
	t.Helper()
	out.Reset()
	err := s.Execute(line)
	return out.String(), err
}

func TestMatch(t *testing.T) {
	s, _ := newTestShell(t)

	tests := []struct {
		line    string
		keyword string
		args    []string
		ok      bool
	}{
		{line: "hello", keyword: "hello", ok: true},
		{line: "HeLLo", keyword: "hello", ok: true},
		{line: "add Bill 380991112233", keyword: "add", args: []string{"Bill", "380991112233"}, ok: true},
		{line: "ADD Bill 380991112233", keyword: "add", args: []string{"Bill", "380991112233"}, ok: true},
		{line: "show all", keyword: "show all", ok: true},
		{line: "SHOW ALL now", keyword: "show all", args: []string{"now"}, ok: true},
		{line: "add,Bill", keyword: "add", args: []string{",Bill"}, ok: true},
		{line: "addBill 380991112233", ok: false},
		{line: "phones Bill", ok: false},
		{line: "show", ok: false},
		{line: "", ok: false},
		{line: "bye", keyword: "bye", ok: true},
		{line: "find   bIlL", keyword: "find", args: []string{"bIlL"}, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			c, args, ok := s.match(tt.line)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.keyword, c.keyword)
			assert.Equal(t, len(tt.args), len(args))
			if len(tt.args) > 0 {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestExecute_Unknown(t *testing.T) {
	s, out := newTestShell(t)
	_, err := run(t, s, out, "dance")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, "Command isn't correct!", Message(err))
}

func TestExecute_Exit(t *testing.T) {
	s, out := newTestShell(t)
	for _, kw := range []string{"exit", "close", "bye", "EXIT now"} {
		_, err := run(t, s, out, kw)
		assert.ErrorIs(t, err, ErrExit, kw)
	}
}

func TestHello(t *testing.T) {
	s, out := newTestShell(t)
	got, err := run(t, s, out, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help you?\n", got)
}

func TestAdd(t *testing.T) {
	s, out := newTestShell(t)

	got, err := run(t, s, out, "add Bill 380991112233")
	require.NoError(t, err)
	assert.Equal(t, "New contact was added\n", got)

	_, err = run(t, s, out, "add Bill 380501234567")
	require.NoError(t, err)

	r, err := s.Book().GetRecord("Bill")
	require.NoError(t, err)
	assert.Equal(t, []string{"380991112233", "380501234567"}, phoneValues(r.Phones()))
	assert.Equal(t, 1, s.Book().Len())
}

func TestAdd_Errors(t *testing.T) {
	s, out := newTestShell(t)

	_, err := run(t, s, out, "add Bill")
	assert.ErrorIs(t, err, ErrMissingArgs)

	_, err = run(t, s, out, "add Bill 12345")
	assert.ErrorIs(t, err, types.ErrInvalidPhoneFormat)
	assert.False(t, s.Book().Has("Bill"), "a contact is not created with an invalid phone")

	_, err = run(t, s, out, "add Bill 380991112233")
	require.NoError(t, err)
	_, err = run(t, s, out, "add Bill 38099111223x")
	assert.ErrorIs(t, err, types.ErrInvalidPhoneFormat)
	r, err := s.Book().GetRecord("Bill")
	require.NoError(t, err)
	assert.Len(t, r.Phones(), 1)
}

func TestPhone(t *testing.T) {
	s, out := newTestShell(t)
	require.NoError(t, s.Execute("add Bill 380991112233"))
	require.NoError(t, s.Execute("add Bill 380501234567"))

	got, err := run(t, s, out, "phone Bill")
	require.NoError(t, err)
	assert.Equal(t, "Bill: 380991112233, 380501234567\n", got)

	_, err = run(t, s, out, "phone Ann")
	assert.ErrorIs(t, err, types.ErrNameNotFound)
	assert.Equal(t, "There is no such Name in Phone Book", Message(err))

	_, err = run(t, s, out, "phone")
	assert.ErrorIs(t, err, ErrMissingArgs)
}

func TestChange(t *testing.T) {
	s, out := newTestShell(t)
	require.NoError(t, s.Execute("add Bill 380991112233"))

	got, err := run(t, s, out, "change Bill 380991112233 380501234567")
	require.NoError(t, err)
	assert.Equal(t, "Phone \"380991112233\" was changed to \"380501234567\" for \"Bill\"\n", got)

	r, err := s.Book().GetRecord("Bill")
	require.NoError(t, err)
	assert.Equal(t, []string{"380501234567"}, phoneValues(r.Phones()))

	_, err = run(t, s, out, "change Bill 111111111111 380501234567")
	assert.ErrorIs(t, err, types.ErrPhoneNotFound)
	assert.Equal(t, `No such number "111111111111" for name "Bill"`, Message(err))

	_, err = run(t, s, out, "change Bill 380501234567")
	assert.ErrorIs(t, err, ErrMissingArgs)
}

func TestChange_InvalidNewPhoneDropsOld(t *testing.T) {
	s, out := newTestShell(t)
	require.NoError(t, s.Execute("add Bill 380991112233"))

	_, err := run(t, s, out, "change Bill 380991112233 bad")
	assert.ErrorIs(t, err, types.ErrInvalidPhoneFormat)

	r, err := s.Book().GetRecord("Bill")
	require.NoError(t, err)
	assert.Empty(t, r.Phones())
}

func TestDelete(t *testing.T) {
	s, out := newTestShell(t)
	require.NoError(t, s.Execute("add Bill 380991112233"))

	got, err := run(t, s, out, "delete Bill 380991112233")
	require.NoError(t, err)
	assert.Equal(t, "Phone number \"380991112233\" for \"Bill\" was deleted\n", got)

	_, err = run(t, s, out, "delete Bill 380991112233")
	assert.ErrorIs(t, err, types.ErrPhoneNotFound)
	assert.True(t, IsUserError(err))
}

func TestFind(t *testing.T) {
	s, out := newTestShell(t)
	require.NoError(t, s.Execute("add Bill 380991112233"))
	require.NoError(t, s.Execute("add Bill 380501234567"))
	require.NoError(t, s.Execute("add Ann 380631112299"))
	require.NoError(t, s.Execute("add Cid 380671234500"))

	got, err := run(t, s, out, "find bIL")
	require.NoError(t, err)
	assert.Equal(t, "Bill: 380991112233, 380501234567\n", got)

	got, err = run(t, s, out, "find 1122")
	require.NoError(t, err)
	assert.Equal(t, "Bill: 380991112233\nAnn: 380631112299\n", got)

	got, err = run(t, s, out, "find zzz")
	require.NoError(t, err)
	assert.Equal(t, "There are no contacts with such data\n", got)
}

func TestShowAll(t *testing.T) {
	s, out := newTestShell(t)

	got, err := run(t, s, out, "show all")
	require.NoError(t, err)
	assert.Equal(t, "There are no contacts in the phone book yet\n", got)

	require.NoError(t, s.Execute("add Bill 380991112233"))
	require.NoError(t, s.Execute("add Bill 380501234567"))
	require.NoError(t, s.Execute("add Ann 380631112299"))

	got, err = run(t, s, out, "show all")
	require.NoError(t, err)
	want := "|      Name      |      Phone     |\n" +
		strings.Repeat("-", 35) + "\n" +
		"| Bill           | 380991112233   |\n" +
		"| Bill           | 380501234567   |\n" +
		"| Ann            | 380631112299   |\n"
	assert.Equal(t, want, got)
}

func TestShowAll_Styled(t *testing.T) {
	s, out := newTestShell(t, WithStyled(true))
	require.NoError(t, s.Execute("add Bill 380991112233"))

	got, err := run(t, s, out, "show all")
	require.NoError(t, err)
	assert.Contains(t, got, "Name")
	assert.Contains(t, got, "Bill")
	assert.Contains(t, got, "380991112233")
}

func TestShowAll_JSON(t *testing.T) {
	s, out := newTestShell(t, WithJSON(true))
	require.NoError(t, s.Execute("add Bill 380991112233"))
	require.NoError(t, s.Execute("birthday Bill 10-03-1990"))

	got, err := run(t, s, out, "show all")
	require.NoError(t, err)

	var views []contactView
	require.NoError(t, json.Unmarshal([]byte(got), &views))
	require.Len(t, views, 1)
	assert.Equal(t, contactView{Name: "Bill", Phones: []string{"380991112233"}, Birthday: "10-03-1990"}, views[0])
}

func TestBirthday(t *testing.T) {
	s, out := newTestShell(t)
	require.NoError(t, s.Execute("add Bill 380991112233"))

	_, err := run(t, s, out, "birthday Bill")
	assert.ErrorIs(t, err, types.ErrNoBirthdaySet)
	assert.Contains(t, Message(err), `"Bill"`)

	got, err := run(t, s, out, "birthday Bill 10-03-1990")
	require.NoError(t, err)
	assert.Equal(t, "Today is the birthday of \"Bill\" (10-03-1990)!\n", got)

	got, err = run(t, s, out, "birthday Bill 9-3-1990")
	require.NoError(t, err)
	assert.Equal(t, "Next birthday of \"Bill\" (09-03-1990) is in 364 days\n", got)
}

func TestBirthday_Policy(t *testing.T) {
	lenient, out := newTestShell(t)
	require.NoError(t, lenient.Execute("add Bill 380991112233"))
	_, err := run(t, lenient, out, "birthday Bill 1990-03-10")
	assert.ErrorIs(t, err, types.ErrNoBirthdaySet, "lenient policy leaves the birthday unset")

	strict, out := newTestShell(t, WithPolicy(types.BirthdayStrict))
	require.NoError(t, strict.Execute("add Bill 380991112233"))
	_, err = run(t, strict, out, "birthday Bill 1990-03-10")
	assert.ErrorIs(t, err, types.ErrInvalidBirthday)
	assert.Equal(t, "Please enter birth date in format: DD-MM-YYYY", Message(err))
}

func TestHelp(t *testing.T) {
	s, out := newTestShell(t)
	got, err := run(t, s, out, "help")
	require.NoError(t, err)
	for _, kw := range []string{"hello", "add", "phone", "change", "delete", "find", "show all", "birthday", "exit"} {
		assert.Contains(t, got, kw)
	}
}

func TestRun(t *testing.T) {
	s, out := newTestShell(t)
	in := strings.NewReader("hello\nadd Bill 380991112233\nnonsense\nbye\nadd Ann 380631112299\n")

	require.NoError(t, s.Run(context.Background(), in))

	got := out.String()
	assert.Contains(t, got, "Hello! How can I help you?")
	assert.Contains(t, got, "Command isn't correct!")
	assert.True(t, strings.HasSuffix(got, "Work done. Bye!\n"))
	assert.True(t, s.Book().Has("Bill"))
	assert.False(t, s.Book().Has("Ann"), "lines after exit are not read")
}

func TestRun_LongLine(t *testing.T) {
	s, out := newTestShell(t)
	in := strings.NewReader("add Bill 380991112233\nfind " + strings.Repeat("x", 70000) + "\nadd Ann 380631112299\nexit\n")

	require.NoError(t, s.Run(context.Background(), in))

	assert.True(t, s.Book().Has("Bill"))
	assert.True(t, s.Book().Has("Ann"), "lines after a long line still run")
	assert.True(t, strings.HasSuffix(out.String(), "Work done. Bye!\n"))
}

func TestRun_ReadError(t *testing.T) {
	s, _ := newTestShell(t)
	in := io.MultiReader(strings.NewReader("add Bill 380991112233\n"), iotest.ErrReader(errors.New("terminal gone")))

	err := s.Run(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal gone")
	assert.True(t, s.Book().Has("Bill"))
}

func TestExecute_InvalidUTF8(t *testing.T) {
	s, out := newTestShell(t)

	_, err := run(t, s, out, "add Jos\xe9 380991112233")
	require.NoError(t, err)
	assert.True(t, s.Book().Has("Jos\uFFFD"))
	assert.False(t, s.Book().Has("Jos\xe9"))

	out.Reset()
	require.NoError(t, s.Call("phone", "Jos\xe8"))
	assert.Contains(t, out.String(), "380991112233", "both spellings reach the same contact")
}

func TestRun_EOFStops(t *testing.T) {
	s, _ := newTestShell(t)
	require.NoError(t, s.Run(context.Background(), strings.NewReader("add Bill 380991112233")))
	assert.True(t, s.Book().Has("Bill"))
}

func TestRun_Cancelled(t *testing.T) {
	s, _ := newTestShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, strings.NewReader("hello\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMessageAndIsUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
		user bool
	}{
		{name: "missing args", err: ErrMissingArgs, msg: "Error. You should enter Name and/or Phone after command divided by space!", user: true},
		{name: "invalid phone", err: &types.ValidationError{Field: "phone", Value: "1", Err: types.ErrInvalidPhoneFormat}, msg: `Please enter phone number as 12 digits in format: "XXXXXXXXXXXX"`, user: true},
		{name: "exit", err: ErrExit, msg: "Work done. Bye!"},
		{name: "system", err: errors.New("disk full"), msg: "Error disk full! Enter command once again, please."},
		{name: "nil", err: nil, msg: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.msg, Message(tt.err))
			assert.Equal(t, tt.user, IsUserError(tt.err))
		})
	}
}

func TestCall(t *testing.T) {
	s, out := newTestShell(t)

	require.NoError(t, s.Call("add", "Ann Smith", "380631112299"))
	assert.True(t, s.Book().Has("Ann Smith"), "arguments are not split")

	out.Reset()
	require.NoError(t, s.Call("SHOW ALL"))
	assert.Contains(t, out.String(), "Ann Smith")

	assert.ErrorIs(t, s.Call("dance"), ErrUnknownCommand)
}
