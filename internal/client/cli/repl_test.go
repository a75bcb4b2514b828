package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	screen screen

	calls []string
	args  []string
}

func (f *fakeExec) currentScreen() screen { return f.screen }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.screen = screenArticles
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.screen = screenLogin
	return nil
}
func (f *fakeExec) List(ctx context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) More(ctx context.Context) error { f.calls = append(f.calls, "more"); return nil }
func (f *fakeExec) Refresh(ctx context.Context) error {
	f.calls = append(f.calls, "refresh")
	return nil
}
func (f *fakeExec) FilterAuthor(ctx context.Context, value string) error {
	f.calls = append(f.calls, "author")
	f.args = append(f.args, value)
	return nil
}
func (f *fakeExec) FilterTag(ctx context.Context, value string) error {
	f.calls = append(f.calls, "tag")
	f.args = append(f.args, value)
	return nil
}
func (f *fakeExec) Show(ctx context.Context, id string) error {
	f.calls = append(f.calls, "show")
	f.args = append(f.args, id)
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Permission(ctx context.Context, path string) error {
	f.calls = append(f.calls, "perm")
	f.args = append(f.args, path)
	return nil
}
func (f *fakeExec) ShowLog(ctx context.Context) error {
	f.calls = append(f.calls, "log")
	return nil
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"list",
		"more",
		"show 123",
		"author ada",
		"tag -",
		"whoami",
		"perm articles.read",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{screen: screenLogin}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "list", "more", "show", "author", "tag", "whoami", "perm"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}

	wantArgs := []string{"123", "ada", "-", "articles.read"}
	if len(exec.args) != len(wantArgs) {
		t.Fatalf("args mismatch: got %v, want %v", exec.args, wantArgs)
	}
	for i := range wantArgs {
		if exec.args[i] != wantArgs[i] {
			t.Fatalf("args mismatch: got %v, want %v", exec.args, wantArgs)
		}
	}
}

func TestRunREPL_ArticleCommandsHiddenOnLoginScreen(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("list\nmore\nlogout\nquit\n")
	exec := &fakeExec{screen: screenLogin}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	silencePrintln(t)

	// Missing arguments must not invoke the handlers.
	input := strings.NewReader("show\nauthor\ntag\nperm\nquit\n")
	exec := &fakeExec{screen: screenArticles}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_LogAvailableOnBothScreens(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("log\nlogin\nlog\nexit\n")
	exec := &fakeExec{screen: screenLogin}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	want := []string{"log", "login", "log"}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
		}
	}
}
