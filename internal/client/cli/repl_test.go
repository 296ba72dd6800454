package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }
func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}
func (s *stubExec) Register(ctx context.Context) error { return s.record("register") }
func (s *stubExec) Login(ctx context.Context) error    { return s.record("login") }
func (s *stubExec) Logout(ctx context.Context) error   { return s.record("logout") }
func (s *stubExec) Members(ctx context.Context) error  { return s.record("members") }
func (s *stubExec) AddMember(ctx context.Context) error {
	return s.record("addmember")
}
func (s *stubExec) Use(ctx context.Context, args []string) error {
	return s.record("use " + strings.Join(args, " "))
}
func (s *stubExec) List(ctx context.Context, args []string) error {
	return s.record("list " + strings.Join(args, " "))
}
func (s *stubExec) Add(ctx context.Context, args []string) error {
	return s.record("add " + strings.Join(args, " "))
}
func (s *stubExec) Sync(ctx context.Context) error   { return s.record("sync") }
func (s *stubExec) Status(ctx context.Context) error { return s.record("status") }

func runScript(t *testing.T, a *stubExec, script string) []string {
	t.Helper()
	var lines []string
	old := printlnFn
	printlnFn = func(args ...any) {
		parts := make([]string, 0, len(args))
		for _, x := range args {
			if s, ok := x.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	defer func() { printlnFn = old }()

	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), a, func() string { return "" }, scanner)
	return lines
}

func TestREPL_DispatchesCommands(t *testing.T) {
	a := &stubExec{loggedIn: true}
	runScript(t, a, "members\naddmember\nuse m1\nlist medications\nadd checkups\nsync\nstatus\nlogout\nexit\n")

	assert.Equal(t, []string{
		"members", "addmember", "use m1", "list medications",
		"add checkups", "sync", "status", "logout",
	}, a.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	a := &stubExec{}
	out := runScript(t, a, "frobnicate\nexit\n")

	assert.Empty(t, a.calls)
	found := false
	for _, l := range out {
		if strings.Contains(l, "Unknown command") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestREPL_HelpDependsOnLogin(t *testing.T) {
	out := runScript(t, &stubExec{}, "help\nexit\n")
	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "register")
	assert.NotContains(t, joined, "members")

	out = runScript(t, &stubExec{loggedIn: true}, "help\nexit\n")
	joined = strings.Join(out, "\n")
	assert.Contains(t, joined, "members")
}

func TestREPL_EmptyLineSkipped(t *testing.T) {
	a := &stubExec{}
	runScript(t, a, "\n\nexit\n")
	assert.Empty(t, a.calls)
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	a := &stubExec{}
	runScript(t, a, "sync\n")
	assert.Equal(t, []string{"sync"}, a.calls)
}
