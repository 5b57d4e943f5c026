// This file holds small shared helpers used by more than one SchemaType
// implementation.
package schema

import "regexp"

// compileRegexArg accepts either a *regexp.Regexp or a pattern string and
// returns a compiled regular expression, used by $regex.
func compileRegexArg(arg any) (*regexp.Regexp, error) {
	switch v := arg.(type) {
	case *regexp.Regexp:
		return v, nil
	case string:
		return regexp.Compile(v)
	default:
		return nil, newTypeError("$regex: argument must be a string or *regexp.Regexp")
	}
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}
