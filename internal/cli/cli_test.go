package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CLI tests are not parallel: every command installs the default slog logger
// pointing at that command's stderr buffer.

func TestMain(m *testing.M) {
	stdinIsTerminal = func() bool { return false }
	os.Exit(m.Run())
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type cliEnv struct {
	t    *testing.T
	base []string
	dir  string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	return cliEnv{
		t:    t,
		dir:  dir,
		base: []string{"--config-dir", filepath.Join(dir, "cfg"), "--db", filepath.Join(dir, "recipes.db"), "--log-level", "error"},
	}
}

func (e cliEnv) args(args ...string) []string {
	return append(append([]string{}, e.base...), args...)
}

func (e cliEnv) mustRun(args ...string) map[string]any {
	e.t.Helper()
	stdout, stderr, err := runCLI(e.t, e.args(args...))
	if err != nil {
		e.t.Fatalf("command failed: recipekeeper %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		e.t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		e.t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func (e cliEnv) mustFail(args ...string) string {
	e.t.Helper()
	_, stderr, err := runCLI(e.t, e.args(args...))
	if err == nil {
		e.t.Fatalf("expected recipekeeper %v to fail", args)
	}
	return string(stderr)
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("data is not an object: %#v", env["data"])
	}
	return m
}

func TestCLI_SoupLifecycle(t *testing.T) {
	e := newCLIEnv(t)

	initData := dataMap(t, e.mustRun("init"))
	if got := initData["db"]; got != filepath.Join(e.dir, "recipes.db") {
		t.Fatalf("init db = %v", got)
	}

	created := dataMap(t, e.mustRun("new", "Soup"))
	if created["id"] != float64(1) || created["title"] != "Soup" {
		t.Fatalf("unexpected create result: %#v", created)
	}

	e.mustRun("save", "1", "--ingredients", "water, salt", "--tags", "dinner", "--instructions", "boil the water")

	formatted := dataMap(t, e.mustRun("format", "1", "--start", "0", "--end", "4", "--bold"))
	if formatted["applied"] != true {
		t.Fatalf("expected format to apply: %#v", formatted)
	}
	recipe := formatted["recipe"].(map[string]any)
	if recipe["instructions"] != "<b>boil</b> the water" {
		t.Fatalf("instructions = %q", recipe["instructions"])
	}

	shown := dataMap(t, e.mustRun("show", "1"))
	want := map[string]any{
		"id":           float64(1),
		"title":        "Soup",
		"ingredients":  "water, salt",
		"instructions": "<b>boil</b> the water",
		"text":         "boil the water",
		"tags":         "dinner",
	}
	for k, v := range want {
		if shown[k] != v {
			t.Fatalf("show %s = %#v, want %#v", k, shown[k], v)
		}
	}

	list := e.mustRun("list")
	rows := list["data"].([]any)
	if len(rows) != 1 || rows[0].(map[string]any)["label"] != "Soup (dinner)" {
		t.Fatalf("unexpected list: %#v", rows)
	}

	// Typing more text keeps the bold on "boil".
	e.mustRun("save", "1", "--instructions", "boil all the water")
	shown = dataMap(t, e.mustRun("show", "1"))
	if shown["instructions"] != "<b>boil</b> all the water" {
		t.Fatalf("instructions after edit = %q", shown["instructions"])
	}
}

func TestCLI_FormatEmptyRangeIsNoop(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("new", "Stew")
	e.mustRun("save", "1", "--instructions", "simmer")

	res := dataMap(t, e.mustRun("format", "1", "--start", "3", "--end", "3", "--italic"))
	if res["applied"] != false {
		t.Fatalf("expected no-op, got %#v", res)
	}
	if got := res["recipe"].(map[string]any)["instructions"]; got != "simmer" {
		t.Fatalf("instructions = %q", got)
	}

	stderr := e.mustFail("format", "1", "--start", "0", "--end", "3", "--color", "not-a-color")
	if !strings.Contains(stderr, "invalid color") {
		t.Fatalf("stderr = %q", stderr)
	}
	e.mustFail("format", "1", "--start", "0", "--end", "3")
}

func TestCLI_SearchAndSort(t *testing.T) {
	e := newCLIEnv(t)
	for _, title := range []string{"Chocolate Cake", "Pie", "Pancakes"} {
		e.mustRun("new", title)
	}

	titles := func(env map[string]any) []string {
		var out []string
		for _, r := range env["data"].([]any) {
			out = append(out, r.(map[string]any)["title"].(string))
		}
		return out
	}

	if got := strings.Join(titles(e.mustRun("list")), ","); got != "Chocolate Cake,Pancakes,Pie" {
		t.Fatalf("alphabetical = %s", got)
	}
	if got := strings.Join(titles(e.mustRun("list", "--sort", "oldest")), ","); got != "Chocolate Cake,Pie,Pancakes" {
		t.Fatalf("oldest = %s", got)
	}
	if got := strings.Join(titles(e.mustRun("list", "--search", "CAKE", "--sort", "newest")), ","); got != "Chocolate Cake,Pancakes" {
		t.Fatalf("search = %s", got)
	}
	e.mustFail("list", "--sort", "sideways")
}

func TestCLI_Export(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("new", "Soup")

	out := filepath.Join(e.dir, "all")
	res := dataMap(t, e.mustRun("export", out, "--format", "md"))
	if res["path"] != out+".md" || res["format"] != "md" {
		t.Fatalf("unexpected export result: %#v", res)
	}
	b, err := os.ReadFile(out + ".md")
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want := "Title: Soup\nIngredients: \nTags: \n\nInstructions:\n\n\n" + strings.Repeat("-", 40) + "\n\n"
	if string(b) != want {
		t.Fatalf("export content = %q", b)
	}

	e.mustFail("export", out, "--format", "pdf")
	stderr := e.mustFail("export")
	if !strings.Contains(stderr, "missing path") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestCLI_Errors(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("init")

	if stderr := e.mustFail("show", "99"); !strings.Contains(stderr, "recipe not found: 99") {
		t.Fatalf("stderr = %q", stderr)
	}
	if stderr := e.mustFail("show", "abc"); !strings.Contains(stderr, "invalid recipe id") {
		t.Fatalf("stderr = %q", stderr)
	}
	if stderr := e.mustFail("save", "99", "--tags", "x"); !strings.Contains(stderr, "recipe not found") {
		t.Fatalf("stderr = %q", stderr)
	}
	if stderr := e.mustFail("new"); !strings.Contains(stderr, "missing title") {
		t.Fatalf("stderr = %q", stderr)
	}
	if stderr := e.mustFail("new", "   "); !strings.Contains(stderr, "invalid title") {
		t.Fatalf("stderr = %q", stderr)
	}
	e.mustFail("--format-out", "yaml", "list")
}

func TestCLI_EDNOutput(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("new", "Soup")
	stdout, stderr, err := runCLI(t, e.args("--format-out", "edn", "list"))
	if err != nil {
		t.Fatalf("list: %v\n%s", err, stderr)
	}
	want := `{:data [{:id 1 :label "Soup ()" :tags "" :title "Soup"}]}` + "\n"
	if string(stdout) != want {
		t.Fatalf("edn = %q", stdout)
	}
}
