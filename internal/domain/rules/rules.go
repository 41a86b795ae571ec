// Package rules evaluates operator-supplied exclusion rules against
// candidate dataset rows. Rules are CEL boolean expressions; a row matching
// any rule is dropped before scoring.
//
// Available variables: institute, branch, category, college_type, location
// (strings) and opening_rank, closing_rank (ints). Example:
//
//	college_type == "GFTI" && closing_rank > 500000
package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/admitwise/josaa/internal/domain/model"
)

// Set holds compiled exclusion rules. The zero value excludes nothing.
type Set struct {
	programs []cel.Program
	sources  []string
}

// Compile parses and type-checks every expression. Any bad expression is a
// configuration error and aborts startup.
func Compile(exprs []string) (*Set, error) {
	if len(exprs) == 0 {
		return &Set{}, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("institute", cel.StringType),
		cel.Variable("branch", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("college_type", cel.StringType),
		cel.Variable("location", cel.StringType),
		cel.Variable("opening_rank", cel.IntType),
		cel.Variable("closing_rank", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("building rule environment: %w", err)
	}

	s := &Set{sources: append([]string(nil), exprs...)}
	for _, expr := range exprs {
		ast, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("compiling rule %q: %w", expr, issues.Err())
		}
		if ast.OutputType() != cel.BoolType {
			return nil, fmt.Errorf("rule %q must evaluate to a boolean", expr)
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("building rule program %q: %w", expr, err)
		}
		s.programs = append(s.programs, prg)
	}
	return s, nil
}

// Len returns the number of compiled rules.
func (s *Set) Len() int { return len(s.programs) }

// Excluded reports whether the record matches any rule. Evaluation errors
// are treated as non-matches so a single odd row never poisons a response.
func (s *Set) Excluded(r model.HistoricalRecord) bool {
	if len(s.programs) == 0 {
		return false
	}
	input := map[string]any{
		"institute":    r.Institute,
		"branch":       r.Branch,
		"category":     string(r.Category),
		"college_type": string(r.CollegeType),
		"location":     r.Location,
		"opening_rank": r.OpeningRank,
		"closing_rank": r.ClosingRank,
	}
	for _, prg := range s.programs {
		out, _, err := prg.Eval(input)
		if err != nil {
			continue
		}
		if matched, ok := out.Value().(bool); ok && matched {
			return true
		}
	}
	return false
}
