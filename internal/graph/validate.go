package graph

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nodetype", func(fl validator.FieldLevel) bool {
		return NodeType(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks field constraints, id uniqueness and that every edge
// references existing nodes. All problems are returned joined; nil means
// the graph is well formed. Layout and rendering never call this.
func (g *Graph) Validate() error {
	var problems []error

	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if err := validate.Struct(n); err != nil {
			problems = append(problems, fieldProblems("node", describe(n.ID, i), err)...)
		}
		if n.ID == "" {
			continue
		}
		if seen[n.ID] {
			problems = append(problems, fmt.Errorf("node %q: %w", n.ID, ErrDuplicateNode))
		}
		seen[n.ID] = true
	}

	for i, e := range g.Edges {
		if err := validate.Struct(e); err != nil {
			problems = append(problems, fieldProblems("edge", describe(e.ID, i), err)...)
		}
		if e.Source != "" && !seen[e.Source] {
			problems = append(problems, fmt.Errorf("edge %s: source %q: %w", describe(e.ID, i), e.Source, ErrUnknownNode))
		}
		if e.Target != "" && !seen[e.Target] {
			problems = append(problems, fmt.Errorf("edge %s: target %q: %w", describe(e.ID, i), e.Target, ErrUnknownNode))
		}
	}

	return errors.Join(problems...)
}

func describe(id string, index int) string {
	if id == "" {
		return fmt.Sprintf("#%d", index)
	}
	return fmt.Sprintf("%q", id)
}

func fieldProblems(kind, who string, err error) []error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{fmt.Errorf("%s %s: %w", kind, who, err)}
	}
	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "nodetype" {
			out = append(out, fmt.Errorf("%s %s: %w: %q", kind, who, ErrInvalidType, fe.Value()))
			continue
		}
		out = append(out, fmt.Errorf("%s %s: field %s fails %q", kind, who, fe.Field(), fe.Tag()))
	}
	return out
}
