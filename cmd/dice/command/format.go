package command

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/ryanuber/columnize"
	yaml "gopkg.in/yaml.v2"
)

var (
	// thematic separator
	delim = `🎲`
)

// generic `interface{}` to `map[string]interface{}` converter.
func toMapStringInterface(i interface{}) (map[string]interface{}, error) {
	if quick, ok := i.(map[string]interface{}); ok {
		return quick, nil
	}
	var out map[string]interface{}
	tmp, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	json.Unmarshal(tmp, &out)
	return out, nil
}

// generic `interface{}` to JSON string function
func toJSON(i interface{}) (string, error) {
	b, err := json.Marshal(i)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func toTable(data map[string]interface{}) (string, error) {
	props := make([]string, 0, len(data)+1)
	if len(data) > 0 {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			v := data[k]

			props = append(props, fmt.Sprintf("%s %s %v", k, delim, v))
		}
	}
	str := columnOutput(props, &columnize.Config{
		Delim: delim,
	})
	return str, nil
}

func columnOutput(list []string, c *columnize.Config) string {
	if len(list) == 0 {
		return ""
	}

	if c == nil {
		c = &columnize.Config{}
	}
	if c.Glue == "" {
		c.Glue = "    "
	}
	if c.Empty == "" {
		c.Empty = "n/a"
	}

	return columnize.Format(list, c)
}

func toYaml(data map[string]interface{}) (string, error) {
	tmp, err := yaml.Marshal(data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(tmp)), nil
}

// toGoString renders i using repr, giving the --format=gostring output a
// debug view of the actual AST/result tree rather than its JSON shadow.
func toGoString(i interface{}) (string, error) {
	return repr.String(i, repr.Indent("  ")), nil
}

// toGraphviz renders i as a minimal DOT graph. No graphviz library is
// available in the dependency set this module draws from, so this builds
// the digraph text directly; it is not meant to replace a real AST
// visualization tool, just give --format=dot something to pipe to `dot`.
func toGraphviz(i interface{}) (string, error) {
	data, err := toJSON(i)
	if err != nil {
		return "", err
	}
	label := strings.ReplaceAll(data, `"`, `\"`)
	return fmt.Sprintf("digraph dice {\n  roll [shape=box label=\"%s\"];\n}\n", label), nil
}
