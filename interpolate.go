// Interpolate `${foo}` style strings.

package main

import (
	"strings"

	"github.com/pkg/errors"
)

/*
 * str : (s)*
 *     ;
 * s : (* empty *)
 *   | <literal>
 *   | $$
 *   | ${<literal>}
 *   ;
 */

// Interpolate expands `${name}` references in `s` with values of `dict`.
// Values are expanded recursively, `$$` stands for a literal `$` and
// a trailing `$` is kept as is.
func Interpolate(s string, dict map[string]string) (string, error) {
	return interpolate(s, dict, map[string]bool{})
}

func interpolate(s string, dict map[string]string, expanding map[string]bool) (string, error) {
	if strings.IndexByte(s, '$') < 0 {
		// No `$` in `s`
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '$' {
			sb.WriteByte(c)
			continue
		}
		if i+1 == len(s) {
			sb.WriteByte('$')
			break
		}
		switch s[i+1] {
		case '$':
			sb.WriteByte('$')
			i++
		case '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				return "", errors.Errorf("unmatched '{' in \"%s\"", s)
			}
			name := s[i+2 : i+2+end]
			v, ok := dict[name]
			if !ok {
				return "", errors.Errorf("variable \"%s\" is not defined", name)
			}
			if expanding[name] {
				return "", errors.Errorf("variable \"%s\" refers to itself", name)
			}
			expanding[name] = true
			expanded, err := interpolate(v, dict, expanding)
			delete(expanding, name)
			if err != nil {
				return "", err
			}
			sb.WriteString(expanded)
			i += 2 + end
		default:
			return "", errors.Errorf("invalid variable reference in \"%s\" (use `${name}` or `$$`)", s)
		}
	}
	return sb.String(), nil
}
