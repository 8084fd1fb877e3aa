// Package filter selects companies by name or securities code.
package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"github.com/komsit37/kessan/pkg/kessan/types"
)

// Filter selects companies. A nil *Filter selects every company.
type Filter struct {
	expr string
	kind string
	// test is applied to the width-folded name and code; nil selects all.
	test func(string) bool
}

// Parse compiles expr. The expression and the company fields are
// width-folded first, so "２２９４" selects code 2294.
//
//	2294,柿安       any listed code or full name
//	株式会社*        glob
//	/^22/           regular expression
//	kaki            case-insensitive substring
func Parse(expr string) (*Filter, error) {
	expr = strings.TrimSpace(width.Fold.String(expr))
	f := &Filter{expr: expr, kind: "all"}
	switch {
	case expr == "":
	case len(expr) > 2 && strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/"):
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		f.kind, f.test = "regexp", re.MatchString
	case strings.Contains(expr, ","):
		f.kind, f.test = "list", oneOf(strings.Split(expr, ","))
	case strings.ContainsAny(expr, "*?"):
		if _, err := filepath.Match(expr, ""); err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		f.kind, f.test = "glob", func(s string) bool {
			ok, _ := filepath.Match(expr, s)
			return ok
		}
	default:
		needle := strings.ToLower(expr)
		f.kind, f.test = "substring", func(s string) bool {
			return strings.Contains(strings.ToLower(s), needle)
		}
	}
	return f, nil
}

// Match reports whether the company's name or code satisfies f.
func (f *Filter) Match(c types.Company) bool {
	if f == nil || f.test == nil {
		return true
	}
	for _, v := range [...]string{c.Name, c.Code} {
		if v != "" && f.test(width.Fold.String(v)) {
			return true
		}
	}
	return false
}

func (f *Filter) String() string {
	if f == nil || f.expr == "" {
		return "all"
	}
	return f.kind + ":" + f.expr
}

func oneOf(items []string) func(string) bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			set[it] = true
		}
	}
	return func(s string) bool { return set[s] }
}
