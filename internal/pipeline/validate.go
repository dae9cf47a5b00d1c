package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-latex/latex"
)

// Sentinel errors for formula validation.
var (
	ErrFormulaRejected   = errors.New("formula rejected")
	ErrUnbalancedBraces  = errors.New("unbalanced braces")
	ErrUnpairedLeftRight = errors.New(`unpaired \left or \right`)
	ErrEnvironment       = errors.New("mismatched environment")
	ErrDanglingBackslash = errors.New("dangling backslash")
	ErrDoubleEscaped     = errors.New("double-escaped command")
	ErrFormulaSyntax     = errors.New("formula syntax error")
	ErrUnknownValidator  = errors.New("unknown validator")
)

// Validator names accepted by NewValidator.
const (
	ValidatorBalanced = "balanced"
	ValidatorStrict   = "strict"
	ValidatorNone     = "none"
)

// FormulaValidator decides whether a formula is fit for rendering.
type FormulaValidator interface {
	Validate(formula string) error
}

// Compile-time interface checks.
var (
	_ FormulaValidator = BalancedValidator{}
	_ FormulaValidator = StrictValidator{}
	_ FormulaValidator = NopValidator{}
)

// NewValidator returns the validator registered under name.
// An empty name selects the balanced validator.
func NewValidator(name string) (FormulaValidator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ValidatorBalanced:
		return BalancedValidator{}, nil
	case ValidatorStrict:
		return StrictValidator{}, nil
	case ValidatorNone:
		return NopValidator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %s, %s or %s)",
			ErrUnknownValidator, name, ValidatorBalanced, ValidatorStrict, ValidatorNone)
	}
}

// NopValidator accepts every formula.
type NopValidator struct{}

// Validate implements FormulaValidator.
func (NopValidator) Validate(string) error { return nil }

// BalancedValidator checks the structure a math engine chokes on:
// group braces, \left/\right pairs, \begin/\end environments, a trailing
// lone backslash, and well-known commands written with a doubled
// backslash (\\frac), which is how over-escaped producer output looks.
type BalancedValidator struct{}

// Validate implements FormulaValidator.
func (BalancedValidator) Validate(formula string) error {
	var (
		depth int
		pairs int
		envs  []string
	)

	for i := 0; i < len(formula); i++ {
		switch formula[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: %w: stray '}' at offset %d", ErrFormulaRejected, ErrUnbalancedBraces, i)
			}
		case '\\':
			if i+1 == len(formula) {
				return fmt.Errorf("%w: %w", ErrFormulaRejected, ErrDanglingBackslash)
			}
			next := formula[i+1]
			if next == '\\' {
				if name := commandName(formula[i+2:]); knownCommands[name] {
					return fmt.Errorf("%w: %w: \\\\%s", ErrFormulaRejected, ErrDoubleEscaped, name)
				}
				i++
				continue
			}
			if !isLetter(next) {
				i++ // \{, \}, \, and friends
				continue
			}

			name := commandName(formula[i+1:])
			i += len(name)
			switch name {
			case "left":
				pairs++
			case "right":
				pairs--
				if pairs < 0 {
					return fmt.Errorf("%w: %w: \\right without \\left", ErrFormulaRejected, ErrUnpairedLeftRight)
				}
			case "begin", "end":
				env, n, ok := groupArgument(formula[i+1:])
				if !ok {
					return fmt.Errorf("%w: %w: \\%s without {name}", ErrFormulaRejected, ErrEnvironment, name)
				}
				i += n
				if name == "begin" {
					envs = append(envs, env)
					continue
				}
				if len(envs) == 0 || envs[len(envs)-1] != env {
					return fmt.Errorf("%w: %w: unexpected \\end{%s}", ErrFormulaRejected, ErrEnvironment, env)
				}
				envs = envs[:len(envs)-1]
			}
		}
	}

	switch {
	case depth != 0:
		return fmt.Errorf("%w: %w: %d unclosed '{'", ErrFormulaRejected, ErrUnbalancedBraces, depth)
	case pairs != 0:
		return fmt.Errorf("%w: %w: \\left without \\right", ErrFormulaRejected, ErrUnpairedLeftRight)
	case len(envs) != 0:
		return fmt.Errorf("%w: %w: unclosed \\begin{%s}", ErrFormulaRejected, ErrEnvironment, envs[len(envs)-1])
	}
	return nil
}

// StrictValidator runs the balanced checks, then parses the formula with
// go-latex, which also rejects macros it does not know. It is stricter
// than most math engines and meant as an opt-in gate.
type StrictValidator struct{}

// Validate implements FormulaValidator.
func (StrictValidator) Validate(formula string) (err error) {
	if err := (BalancedValidator{}).Validate(formula); err != nil {
		return err
	}

	// go-latex panics on unknown macros and unsupported tokens.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %w: %v", ErrFormulaRejected, ErrFormulaSyntax, r)
		}
	}()
	if _, perr := latex.ParseExpr("$" + formula + "$"); perr != nil {
		return fmt.Errorf("%w: %w: %v", ErrFormulaRejected, ErrFormulaSyntax, perr)
	}
	return nil
}

// knownCommands are commands whose doubled-backslash spelling is never
// a line break followed by text in practice.
var knownCommands = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true,
	"theta": true, "lambda": true, "mu": true, "pi": true, "sigma": true,
	"phi": true, "omega": true, "infty": true, "partial": true, "nabla": true,
	"frac": true, "dfrac": true, "sqrt": true, "sum": true, "prod": true,
	"int": true, "iint": true, "oint": true, "lim": true, "log": true,
	"ln": true, "sin": true, "cos": true, "tan": true, "exp": true,
	"cdot": true, "times": true, "div": true, "pm": true, "leq": true,
	"geq": true, "neq": true, "approx": true, "mathbb": true, "mathrm": true,
	"mathbf": true, "text": true, "vec": true, "hat": true, "overline": true,
	"left": true, "right": true, "begin": true, "end": true,
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// commandName returns the run of ASCII letters at the start of s.
func commandName(s string) string {
	n := 0
	for n < len(s) && isLetter(s[n]) {
		n++
	}
	return s[:n]
}

// groupArgument reads a {name} argument at the start of s, after optional
// spaces. It returns the name and the number of bytes consumed.
func groupArgument(s string) (string, int, bool) {
	n := len(s) - len(strings.TrimLeft(s, " "))
	if n >= len(s) || s[n] != '{' {
		return "", 0, false
	}
	end := strings.IndexByte(s[n:], '}')
	if end < 0 {
		return "", 0, false
	}
	return strings.TrimSpace(s[n+1 : n+end]), n + end + 1, true
}
