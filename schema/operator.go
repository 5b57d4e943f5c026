// This file defines the operator aliasing used by the query and update
// compilers: a wire token such as "$exists" or "$max" is normalized to a
// canonical operator name before being looked up as a q$<op> or u$<op>
// method on a SchemaType.
package schema

// queryOpAliases maps a wire-level query operator token to the canonical
// name under which SchemaType implementations register it.
var queryOpAliases = map[string]string{
	"exists": "exists",
	"exist":  "exists", // $exists ≡ $exist
	"eq":     "eq",
	"ne":     "ne",
	"lt":     "lt",
	"lte":    "lte",
	"max":    "lte", // $max ≡ $lte
	"gt":     "gt",
	"gte":    "gte",
	"min":    "gte", // $min ≡ $gte
	"in":     "in",
	"nin":    "nin",
	"regex":  "regex",
	"size":   "size",
	"all":    "all",
}

// updateOpAliases maps a wire-level update operator token to the canonical
// name under which SchemaType implementations register it.
var updateOpAliases = map[string]string{
	"set":    "set",
	"unset":  "unset",
	"rename": "rename",
	"inc":    "inc",
	"push":   "push",
	"pull":   "pull",
}

// trimDollar strips a leading "$" from a wire-level operator token, if
// present, so callers can look up "$exists" or "exists" interchangeably.
func trimDollar(token string) string {
	if len(token) > 0 && token[0] == '$' {
		return token[1:]
	}
	return token
}

func resolveQueryOp(token string) (string, bool) {
	name, ok := queryOpAliases[token]
	return name, ok
}

func resolveUpdateOp(token string) (string, bool) {
	name, ok := updateOpAliases[token]
	return name, ok
}
