package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool
	failOn   string

	calls []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	if name == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Apply(ctx context.Context) error     { return f.record("apply") }
func (f *fakeExec) SetStatus(ctx context.Context) error { return f.record("status") }
func (f *fakeExec) List(ctx context.Context) error      { return f.record("list") }
func (f *fakeExec) Show(ctx context.Context) error      { return f.record("show") }
func (f *fakeExec) Stats(ctx context.Context) error     { return f.record("stats") }
func (f *fakeExec) Reconcile(ctx context.Context) error { return f.record("reconcile") }
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func silence(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &printed
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silence(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"apply",
		"login",
		"help",
		"apply",
		"status",
		"l",
		"show",
		"stats",
		"reconcile",
		"foobar",
		"logout",
		"list",
		"exit",
		"register",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	want := []string{"login", "apply", "status", "list", "show", "stats", "reconcile", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
}

func TestRunREPL_ErrorsDoNotStopLoop(t *testing.T) {
	printed := silence(t)

	input := strings.NewReader("stats\nlist\nquit\n")
	exec := &fakeExec{loggedIn: true, failOn: "stats"}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(input))

	if len(exec.calls) != 2 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	found := false
	for _, line := range *printed {
		if strings.HasPrefix(line, "Error:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("error was not reported: %v", *printed)
	}
}

func TestRunREPL_EOF(t *testing.T) {
	silence(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
