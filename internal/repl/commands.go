package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/Techno-coder/lexica-sub000/internal/basic"
	"github.com/Techno-coder/lexica-sub000/internal/cache"
	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/inference"
	"github.com/Techno-coder/lexica-sub000/internal/item"
	"github.com/Techno-coder/lexica-sub000/internal/path"
	"github.com/Techno-coder/lexica-sub000/internal/runtime"
)

var commandNames = []string{":help", ":quit", ":list", ":type", ":lower", ":partial", ":eval", ":history"}

// HandleCommand dispatches one colon-command. Unrecognised commands print
// a usage note rather than silently doing nothing.
func (r *REPL) HandleCommand(input string, out io.Writer) {
	fields := strings.Fields(input)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case ":help":
		r.cmdHelp(out)
	case ":list":
		r.cmdList(out)
	case ":type":
		r.cmdType(args, out)
	case ":lower":
		r.cmdLower(args, out)
	case ":partial":
		r.cmdPartial(args, out)
	case ":eval":
		r.cmdEval(args, out)
	case ":history":
		r.cmdHistory(out)
	default:
		fmt.Fprintf(out, "%s: unknown command %s (try :help)\n", yellow("note"), cmd)
	}
}

func (r *REPL) cmdHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Commands:"))
	fmt.Fprintln(out, "  :list                               list every registered function path")
	fmt.Fprintln(out, "  :type <path>                         print a function's resolved signature")
	fmt.Fprintln(out, "  :lower <path> [reversible|entropic]  lower a function to basic IR and print its node count")
	fmt.Fprintln(out, "  :partial <path>                      run the partial evaluator and report how many calls it folded")
	fmt.Fprintln(out, "  :eval <path> <advance|reverse> <item...>  run the interpreter over a lowering's basic form")
	fmt.Fprintln(out, "  :history                             show commands issued this session")
	fmt.Fprintln(out, "  :quit, :q, :exit                     leave the session")
}

func (r *REPL) cmdList(out io.Writer) {
	paths := r.registry.FunctionPaths()
	if len(paths) == 0 {
		fmt.Fprintln(out, dim("(no functions registered)"))
		return
	}
	for _, p := range paths {
		fmt.Fprintln(out, cyan(p.String()))
	}
}

func (r *REPL) cmdHistory(out io.Writer) {
	for i, line := range r.history {
		fmt.Fprintf(out, "%3d  %s\n", i+1, line)
	}
}

// resolveArgPath parses a dotted path ("mod.sub.name") into a crate-rooted
// FunctionPath and looks it up in the registry, printing a note and
// reporting failure when the path is missing or malformed.
func (r *REPL) resolveArgPath(args []string, out io.Writer) (path.FunctionPath, bool) {
	if len(args) < 1 {
		fmt.Fprintf(out, "%s: expected a function path\n", red("error"))
		return path.FunctionPath{}, false
	}
	parts := strings.Split(args[0], ".")
	name := parts[len(parts)-1]
	modules := parts[:len(parts)-1]
	p := path.Function(path.New(path.RootCrate, modules, name))
	if _, ok := r.registry.Function(p); !ok {
		fmt.Fprintf(out, "%s: no registered function %s\n", red("error"), p.String())
		return path.FunctionPath{}, false
	}
	return p, true
}

func (r *REPL) cmdType(args []string, out io.Writer) {
	p, ok := r.resolveArgPath(args, out)
	if !ok {
		return
	}
	entry, _ := r.registry.Function(p)

	types, err := r.caches.TypeContexts.Get(cache.FunctionKey(p), func() (*inference.TypeContext, error) {
		return inference.NewDriver(r.registry.AsDeclarations()).Infer(entry.Context)
	})
	if err != nil {
		r.printError(out, err)
		return
	}

	sig := entry.Signature
	params := make([]string, len(sig.Parameters))
	for i, ascription := range sig.Parameters {
		params[i] = ascription.String()
	}
	fmt.Fprintf(out, "%s(%s) -> %s\n", cyan(p.String()), strings.Join(params, ", "), sig.Return.String())
	if len(sig.Templates) > 0 {
		fmt.Fprintf(out, "%s %s\n", dim("templates:"), strings.Join(sig.Templates, ", "))
	}
	resolved, ok := types.Expression(entry.Context.Entry)
	if ok {
		fmt.Fprintf(out, "%s %s\n", dim("body type:"), resolved.String())
	}
}

func (r *REPL) cmdLower(args []string, out io.Writer) {
	p, ok := r.resolveArgPath(args, out)
	if !ok {
		return
	}
	reversibility := basic.Reversible
	if len(args) >= 2 {
		parsed, ok := parseReversibility(args[1])
		if !ok {
			fmt.Fprintf(out, "%s: unknown reversibility %q (want \"reversible\" or \"entropic\")\n", red("error"), args[1])
			return
		}
		reversibility = parsed
	}

	fn, err := r.resolve(p, reversibility)
	if err != nil {
		r.printError(out, err)
		return
	}
	fmt.Fprintf(out, "%s lowered %s: %d node(s), entry %d, exit %d\n",
		cyan(p.String()), reversibilityName(reversibility), len(fn.Nodes), fn.Entry, fn.Exit)
}

func (r *REPL) cmdPartial(args []string, out io.Writer) {
	p, ok := r.resolveArgPath(args, out)
	if !ok {
		return
	}
	entry, _ := r.registry.Function(p)

	types, err := r.caches.TypeContexts.Get(cache.FunctionKey(p), func() (*inference.TypeContext, error) {
		return inference.NewDriver(r.registry.AsDeclarations()).Infer(entry.Context)
	})
	if err != nil {
		r.printError(out, err)
		return
	}

	before := countCompileCalls(entry.Context)
	if err := r.evaluatePartial(entry, types); err != nil {
		r.printError(out, err)
		return
	}
	after := countCompileCalls(entry.Context)
	fmt.Fprintf(out, "%s folded %d compile-time call(s), %d remain\n", cyan(p.String()), before-after, after)
}

func (r *REPL) cmdEval(args []string, out io.Writer) {
	p, ok := r.resolveArgPath(args, out)
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Fprintf(out, "%s: expected a direction (advance|reverse)\n", red("error"))
		return
	}
	direction, ok := parseDirection(args[1])
	if !ok {
		fmt.Fprintf(out, "%s: unknown direction %q (want \"advance\" or \"reverse\")\n", red("error"), args[1])
		return
	}

	elements := make([]item.Item, len(args[2:]))
	for i, token := range args[2:] {
		value, err := parseItem(token)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			return
		}
		elements[i] = value
	}
	params := item.NewTuple(elements...)

	fn, err := r.resolve(p, basic.Reversible)
	if err != nil {
		r.printError(out, err)
		return
	}

	interpreter := runtime.New(r.resolve)
	result, err := interpreter.Run(fn, direction, params)
	if err != nil {
		r.printError(out, err)
		return
	}
	fmt.Fprintf(out, "%s %s\n", green("=>"), result.String())
}

func (r *REPL) printError(out io.Writer, err error) {
	if report, ok := errors.AsReport(err); ok {
		fmt.Fprintf(out, "%s [%s] %s\n", red("error"), report.Code, report.Message)
		return
	}
	fmt.Fprintf(out, "%s %v\n", red("error"), err)
}

func parseReversibility(token string) (basic.Reversibility, bool) {
	switch token {
	case "reversible":
		return basic.Reversible, true
	case "entropic":
		return basic.Entropic, true
	default:
		return 0, false
	}
}

func reversibilityName(r basic.Reversibility) string {
	if r == basic.Entropic {
		return "entropic"
	}
	return "reversible"
}

func parseDirection(token string) (basic.Direction, bool) {
	switch token {
	case "advance":
		return basic.Advance, true
	case "reverse":
		return basic.Reverse, true
	default:
		return 0, false
	}
}
