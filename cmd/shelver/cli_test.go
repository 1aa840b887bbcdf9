package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelver/internal/reorganize"
	"shelver/internal/testsupport"
)

type cliTestEnv struct {
	configPath  string
	booksDir    string
	destination string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("SHELVER_OPENLIBRARY_URL", "")

	env := &cliTestEnv{
		configPath:  filepath.Join(base, "shelver.toml"),
		booksDir:    filepath.Join(base, "books"),
		destination: filepath.Join(base, "organized"),
	}
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\n\n[classification]\nenrichment = false\n\n[reorganize]\ndestination = %q\n\n[logging]\nlevel = \"error\"\n",
		filepath.Join(base, "data"),
		env.destination,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestTaxonomyCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "taxonomy")
	if err != nil {
		t.Fatalf("taxonomy: %v", err)
	}
	requireContains(t, out, "Guides & Handbooks")

	out, _, err = runCLI(t, env, "taxonomy", "--json")
	if err != nil {
		t.Fatalf("taxonomy --json: %v", err)
	}
	var tree map[string][]string
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatalf("decode taxonomy: %v", err)
	}
	if len(tree["Reference"]) == 0 {
		t.Fatalf("expected Reference sub-genres, got %v", tree)
	}
}

func TestClassifyAndReorganizeFlow(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.booksDir, "Reference", "Textbooks", "Jane Doe - Calculus.pdf")
	testsupport.WriteFile(t, source, 64)

	out, _, err := runCLI(t, env, "library", "import", env.booksDir)
	if err != nil {
		t.Fatalf("library import: %v", err)
	}
	requireContains(t, out, "Added 1")

	out, _, err = runCLI(t, env, "classify", "preview")
	if err != nil {
		t.Fatalf("classify preview: %v", err)
	}
	requireContains(t, out, "Reference / Textbooks")

	out, _, err = runCLI(t, env, "classify", "run", "--json")
	if err != nil {
		t.Fatalf("classify run: %v", err)
	}
	var classified struct {
		NewlyClassified int `json:"newly_classified"`
	}
	if err := json.Unmarshal([]byte(out), &classified); err != nil {
		t.Fatalf("decode classify result: %v", err)
	}
	if classified.NewlyClassified != 1 {
		t.Fatalf("expected one newly classified book, got %d", classified.NewlyClassified)
	}

	out, _, err = runCLI(t, env, "reorganize", "preview", "--json")
	if err != nil {
		t.Fatalf("reorganize preview: %v", err)
	}
	var plan reorganize.Plan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	want := filepath.Join(env.destination, "Reference", "Textbooks", "Jane Doe", "Jane Doe - Calculus.pdf")
	if len(plan.Moves) != 1 || plan.Moves[0].TargetPath != want {
		t.Fatalf("unexpected plan: %+v", plan.Moves)
	}

	out, _, err = runCLI(t, env, "reorganize", "apply")
	if err != nil {
		t.Fatalf("reorganize apply: %v", err)
	}
	requireContains(t, out, "Succeeded: 1")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected moved file at %s: %v", want, err)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatalf("expected source removed after move, stat err=%v", err)
	}

	out, _, err = runCLI(t, env, "library", "stats")
	if err != nil {
		t.Fatalf("library stats: %v", err)
	}
	requireContains(t, out, "Classified:   1 (100.0%)")
}

func TestClassifySetRejectsInvalidPlacement(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.booksDir, "book.epub")
	testsupport.WriteFile(t, source, 16)
	if _, _, err := runCLI(t, env, "library", "add", source, "--title", "Book"); err != nil {
		t.Fatalf("library add: %v", err)
	}

	_, _, err := runCLI(t, env, "classify", "set", "1", "Fiction", "Textbooks")
	if err == nil {
		t.Fatal("expected invalid placement to fail")
	}
	requireContains(t, err.Error(), "invalid taxonomy placement")

	out, _, err := runCLI(t, env, "classify", "set", "1", "Reference", "Textbooks")
	if err != nil {
		t.Fatalf("classify set: %v", err)
	}
	requireContains(t, out, "Book 1 set to Reference / Textbooks")
}

func TestOverridesSessionFile(t *testing.T) {
	env := setupCLITestEnv(t)
	file := filepath.Join(t.TempDir(), "session.json")

	out, _, err := runCLI(t, env, "overrides", "--file", file, "set", "7", "Reference", "Textbooks")
	if err != nil {
		t.Fatalf("overrides set: %v", err)
	}
	requireContains(t, out, "(1 total)")

	out, _, err = runCLI(t, env, "overrides", "--file", file, "list", "--json")
	if err != nil {
		t.Fatalf("overrides list: %v", err)
	}
	requireContains(t, out, `"ebook_id": 7`)

	if _, _, err := runCLI(t, env, "overrides", "--file", file, "set", "8", "Reference", "Nope"); err == nil {
		t.Fatal("expected invalid override to fail")
	}

	out, _, err = runCLI(t, env, "overrides", "--file", file, "clear", "7")
	if err != nil {
		t.Fatalf("overrides clear: %v", err)
	}
	requireContains(t, out, "cleared")

	out, _, err = runCLI(t, env, "overrides", "--file", file, "list")
	if err != nil {
		t.Fatalf("overrides list: %v", err)
	}
	requireContains(t, out, "No overrides recorded")
}

func TestCacheStatsAndClear(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Cached lookups: 0")

	out, _, err = runCLI(t, env, "cache", "stats", "--json")
	if err != nil {
		t.Fatalf("cache stats json: %v", err)
	}
	requireContains(t, out, `"entries": 0`)

	out, _, err = runCLI(t, env, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Cleared 0 cached lookups")
}
