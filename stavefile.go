//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "mdmath"
	binPath = "bin/" + binary
	mainPkg = "./cmd/" + binary
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"tm":  Test.Math,
	"l":   Lint.Default,
	"c":   Check,
	"i":   Install,
	"fmt": Lint.Fmt,
	"fz":  Fuzz.Default,
	"tr":  Trace,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
	Fuzz  st.Namespace
)

// ---------------------------------------------------------------------------
// Top-level targets
// ---------------------------------------------------------------------------

// Build compiles bin/mdmath with version info, skipping the build when no
// source changed.
func Build() error {
	rebuild, err := target.Dir(binPath, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Printf("%s is up to date\n", binPath)
		return nil
	}
	fmt.Printf("Building %s...\n", binPath)
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binPath, mainPkg)
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes the binary and coverage files.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install puts mdmath in $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Printf("Installing %s...\n", binary)
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Uninstall removes the installed mdmath binary.
func Uninstall() error {
	path, err := installedBinary()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Printf("%s is not installed\n", binary)
			return nil
		}
		return fmt.Errorf("remove %s: %w", path, err)
	}
	fmt.Printf("Removed %s\n", path)
	return nil
}

// Deps downloads and tidies modules.
func Deps() error {
	if err := sh.RunV("go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Coverage writes coverage.html from a full test run and opens it.
func Coverage() error {
	st.Deps(Test.Default)
	if err := sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html"); err != nil {
		return err
	}
	return sh.RunV("open", "coverage.html")
}

// Trace prints the event trace of the Markdown file named by MDMATH_FILE.
func Trace() error {
	file := os.Getenv("MDMATH_FILE")
	if file == "" {
		return errors.New("set MDMATH_FILE to the Markdown file to trace")
	}
	st.Deps(Build)
	return sh.RunV(binPath, "trace", file)
}

// ---------------------------------------------------------------------------
// Test namespace
// ---------------------------------------------------------------------------

// Default runs every package with race detection and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "./...", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Verbose is Default with every test name printed.
func (Test) Verbose() error {
	return gotestsum("standard-verbose", "./...", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Math runs the tokenizer packages only, uncached.
func (Test) Math() error {
	return gotestsum("testname", "-count=1", "./pkg/engine/...", "./pkg/math/...", "./pkg/parser/...", "./pkg/mdevent/...")
}

// ---------------------------------------------------------------------------
// Lint namespace
// ---------------------------------------------------------------------------

// Default runs golangci-lint and applies its fixes.
func (Lint) Default() error {
	return golangci("--fix")
}

// CI runs golangci-lint without touching files.
func (Lint) CI() error {
	return golangci()
}

// Fmt rewrites Go files with gofmt.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when a Go file is not gofmt-clean.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("not gofmt-clean:\n%s\nrun 'stave lint:fmt'", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Math checks the repository's own Markdown for math mistakes. MDMATH_DOCS
// overrides the paths, space separated.
func (Lint) Math() error {
	st.Deps(Build)
	args := []string{"check", "--strict", "--ignore", "_examples/**"}
	args = append(args, strings.Fields(cmp.Or(os.Getenv("MDMATH_DOCS"), "."))...)
	return sh.RunV(binPath, args...)
}

// ---------------------------------------------------------------------------
// CI namespace
// ---------------------------------------------------------------------------

// Gate runs what CI runs, cheapest first.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		Fuzz.Smoke,
		CI.ModTidy,
		CI.Cross,
	)
	fmt.Println("CI gate passed")
	return nil
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}
	before := make(map[string][]byte, len(files))
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[name] = data
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for _, name := range files {
		after, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s after tidy: %w", name, err)
		}
		if !bytes.Equal(before[name], after) {
			return fmt.Errorf("%s changed after 'go mod tidy'; commit the result", name)
		}
	}
	return nil
}

// Cross builds mdmath for every release platform without cgo.
func (CI) Cross() error {
	platforms := []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64", "windows/arm64",
		"freebsd/amd64",
	}
	for _, platform := range platforms {
		goos, goarch, _ := strings.Cut(platform, "/")
		fmt.Printf("  %s\n", platform)
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
			return fmt.Errorf("build %s: %w", platform, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Bench namespace
// ---------------------------------------------------------------------------

// Default runs every benchmark.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Parse runs the parser, math and language detection benchmarks.
func (Bench) Parse() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem",
		"./pkg/parser/...", "./pkg/math/...", "./pkg/langdetect/...")
}

// ---------------------------------------------------------------------------
// Fuzz namespace
// ---------------------------------------------------------------------------

// fuzzTargets lists the fuzz functions and the packages that hold them.
var fuzzTargets = []struct{ name, pkg string }{
	{"FuzzParse", "./pkg/math"},
	{"FuzzWriteAtomic", "./pkg/fsutil"},
}

// Default fuzzes every target for MDMATH_FUZZTIME (30s by default).
func (Fuzz) Default() error {
	return fuzzAll(cmp.Or(os.Getenv("MDMATH_FUZZTIME"), "30s"))
}

// Smoke fuzzes every target briefly.
func (Fuzz) Smoke() error {
	return fuzzAll("5s")
}

// ---------------------------------------------------------------------------
// Helpers (unexported, not targets)
// ---------------------------------------------------------------------------

// gotestsum runs go test through gotestsum with race detection, using
// STAVE_NUM_PROCESSORS for both package and test parallelism.
func gotestsum(format string, args ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmdArgs := []string{"tool", "gotestsum", "-f", format, "--", "-race", "-p", procs, "-parallel", procs}
	return sh.RunV("go", append(cmdArgs, args...)...)
}

func golangci(extra ...string) error {
	args := append([]string{"run"}, extra...)
	return sh.RunV("golangci-lint", append(args, "./...")...)
}

func fuzzAll(fuzzTime string) error {
	for _, ft := range fuzzTargets {
		fmt.Printf("%s (%s, %s)\n", ft.name, ft.pkg, fuzzTime)
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+ft.name+"$", "-fuzztime="+fuzzTime, ft.pkg); err != nil {
			return fmt.Errorf("fuzz %s: %w", ft.name, err)
		}
	}
	return nil
}

// gitOutput runs git and returns trimmed stdout, or "" on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags sets main.version, main.commit and main.date.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

// installedBinary returns where go install puts mdmath.
func installedBinary() (string, error) {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return filepath.Join(gobin, binary), nil
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home directory: %w", err)
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin", binary), nil
}
