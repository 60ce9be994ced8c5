// Package repl implements the interactive line-editing driver over the
// inference/lowering/partial-evaluation/runtime pipeline (SPEC_FULL.md §9
// "REPL"). Unlike the teacher's REPL, which parses free-form AILANG source
// text through eval.CoreEvaluator, this driver has no surface-syntax
// parser to lean on: it operates over function paths a node-building pass
// has already registered in a declaration.Registry, and drives them
// through inference, lowering, partial evaluation, and the evaluation
// runtime via colon-commands rather than parsing arbitrary expressions.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/cache"
	"github.com/Techno-coder/lexica-sub000/internal/declaration"
	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/partial"
	"github.com/Techno-coder/lexica-sub000/internal/path"
	"github.com/Techno-coder/lexica-sub000/internal/runtime"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Config holds REPL-wide toggles.
type Config struct {
	Verbose bool
}

// REPL is a session over one registry and one set of pipeline caches.
type REPL struct {
	config    *Config
	registry  *declaration.Registry
	caches    *cache.Caches
	resolve   runtime.Resolver
	history   []string
	version   string
	buildTime string
}

// New creates a REPL over registry, sharing caches across every command
// issued in the session (so a path lowered once is not re-lowered).
func New(registry *declaration.Registry, caches *cache.Caches) *REPL {
	return NewWithVersion(registry, caches, "", "")
}

// NewWithVersion is New with explicit version/build-time banner text.
func NewWithVersion(registry *declaration.Registry, caches *cache.Caches, version, buildTime string) *REPL {
	if version == "" {
		version = "dev"
	}
	if buildTime == "" {
		buildTime = "unknown"
	}
	return &REPL{
		config:    &Config{},
		registry:  registry,
		caches:    caches,
		resolve:   NewResolver(registry, caches),
		history:   []string{},
		version:   version,
		buildTime: buildTime,
	}
}

// EnableTrace turns on verbose per-command diagnostics.
func (r *REPL) EnableTrace() { r.config.Verbose = true }

// NewResolver builds a runtime.Resolver that drives a function path
// through inference, partial evaluation, and lowering exactly once per
// (path, reversibility) key, threading the caches so the partial
// evaluator's own callee resolutions and the interpreter's call
// statements share one memoised pipeline. cmd/lexica builds the same
// resolver over its own registry/caches pair to run a program outside the
// REPL.
func NewResolver(registry *declaration.Registry, caches *cache.Caches) runtime.Resolver {
	var resolve runtime.Resolver
	resolve = func(p path.FunctionPath, reversibility basic.Reversibility) (*basic.BasicFunction, error) {
		return caches.BasicFunctions.Get(cache.LoweringKey(p, reversibility), func() (*basic.BasicFunction, error) {
			entry, ok := registry.Function(p)
			if !ok {
				return nil, undefinedFunctionError(p)
			}
			types, err := caches.TypeContexts.Get(cache.FunctionKey(p), func() (*inference.TypeContext, error) {
				return inference.NewDriver(registry.AsDeclarations()).Infer(entry.Context)
			})
			if err != nil {
				return nil, err
			}
			if err := partial.Evaluate(entry.Context, types, resolve); err != nil {
				return nil, err
			}
			return basic.Lower(entry.Context, types, reversibility)
		})
	}
	return resolve
}

func undefinedFunctionError(p path.FunctionPath) error {
	return errors.Wrap(errors.New("resolution", errors.RES003,
		fmt.Sprintf("undefined function %s", p.String())))
}

// getPrompt reports the session prompt, naming nothing when the session
// carries no extra state worth surfacing.
func (r *REPL) getPrompt() string { return "λ> " }

// Start runs the REPL loop over in/out, reading commands with liner until
// EOF or a :quit-family command, persisting history to a temp file between
// sessions the way the teacher's own REPL does.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".lexica_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetMultiLineMode(false)

	fmt.Fprintf(out, "%s %s\n", bold("lexica"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if strings.HasPrefix(input, ":") {
			for _, cmd := range commandNames {
				if strings.HasPrefix(cmd, input) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt(r.getPrompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(normalizeInput(input))
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" || input == ":exit" {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.HandleCommand(input, out)
			continue
		}

		fmt.Fprintf(out, "%s: expressions have no surface syntax here; use %s on a registered path\n",
			yellow("note"), cyan(":eval <path> <direction> <item...>"))
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// History returns the commands issued this session, oldest first.
func (r *REPL) History() []string { return append([]string(nil), r.history...) }
