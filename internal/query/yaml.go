package query

import (
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either a "BEGIN-END" scalar or a mapping with begin
// and end keys. Dates may be written unquoted; YAML's integer reading is
// bypassed by taking the raw scalar text.
func (r *DateRange) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		pr, err := ParseRange(n.Value)
		if err != nil {
			return err
		}
		*r = pr
		return nil
	case yaml.MappingNode:
		var out DateRange
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			switch k.Value {
			case "begin":
				out.Begin = v.Value
			case "end":
				out.End = v.Value
			default:
				return fmt.Errorf("line %d: unknown date range key %q", k.Line, k.Value)
			}
		}
		*r = out
		return nil
	default:
		return fmt.Errorf("line %d: date range must be a string or mapping", n.Line)
	}
}
