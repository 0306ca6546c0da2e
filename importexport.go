package dice

import (
	"context"
	"encoding/base64"
	"encoding/json"

	dicemath "github.com/rollwright/dice/math"
)

// diceRollPayload is the {notation, rolls} shape Export produces and Import
// accepts, per the result tree's external JSON/base64 convenience.
type diceRollPayload struct {
	Notation string             `json:"notation"`
	Rolls    ResultGroupElement `json:"rolls,omitempty"`
}

// Export serializes dr to the {notation, rolls} JSON shape, reusing the
// result tree's own MarshalJSON methods.
func (dr *DiceRoll) Export() (string, error) {
	data, err := json.Marshal(diceRollPayload{Notation: dr.Notation, Rolls: dr.Rolls})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExportBase64 is Export, base64-wrapped: the other shape Import accepts.
func (dr *DiceRoll) ExportBase64() (string, error) {
	data, err := dr.Export()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(data)), nil
}

// Import accepts a {notation, rolls?} object (map[string]interface{}), a
// JSON string of that shape, or a base64 string wrapping such a JSON
// string. When rolls is present the result tree is reconstructed from it and
// the dice are never re-rolled; when rolls is absent, notation is parsed and
// rolled fresh against gen (DefaultGenerator if nil). Unrecognized shapes
// produce a DataFormat error.
func Import(ctx context.Context, x interface{}, gen *Generator) (*DiceRoll, error) {
	payload, err := normalizeImportPayload(x)
	if err != nil {
		return nil, err
	}

	notation, _ := payload["notation"].(string)
	if notation == "" {
		return nil, DataFormat(nil, "import payload missing notation")
	}

	dr, err := NewDiceRoll(notation)
	if err != nil {
		return nil, err
	}

	rawRolls, hasRolls := payload["rolls"]
	if !hasRolls || rawRolls == nil {
		if err := dr.Roll(ctx, gen); err != nil {
			return nil, err
		}
		return dr, nil
	}

	rolls, err := reconstructElement(rawRolls)
	if err != nil {
		return nil, DataFormat(err, "import rolls payload")
	}
	dr.Rolls = rolls

	value, err := elementValue(rolls)
	if err != nil {
		return nil, DataFormat(err, "import rolls payload")
	}
	dr.Total = dicemath.Round2(value)

	if err := dr.computeBounds(ctx); err != nil {
		return nil, err
	}
	dr.Output = dr.buildOutput()
	return dr, nil
}

// normalizeImportPayload accepts any of Import's three input shapes and
// returns the decoded {notation, rolls} object.
func normalizeImportPayload(x interface{}) (map[string]interface{}, error) {
	switch v := x.(type) {
	case map[string]interface{}:
		return v, nil
	case string:
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(v), &payload); err == nil {
			return payload, nil
		}
		decoded, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, DataFormat(err, "import payload is neither JSON nor base64")
		}
		if err := json.Unmarshal(decoded, &payload); err != nil {
			return nil, DataFormat(err, "import payload base64-decodes to invalid JSON")
		}
		return payload, nil
	default:
		return nil, DataFormat(nil, "import payload has unsupported type %T", x)
	}
}

// reconstructElement rebuilds one ResultGroupElement from its decoded JSON
// form: an operator string and a number literal decode to themselves, and an
// object is dispatched on its "type" discriminator (the same tag each
// result-tree MarshalJSON method writes).
func reconstructElement(raw interface{}) (ResultGroupElement, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case float64:
		return v, nil
	case map[string]interface{}:
		switch v["type"] {
		case "result":
			return reconstructRollResult(v)
		case "roll-results":
			return reconstructRollResults(v)
		case "result-group":
			return reconstructResultGroup(v)
		default:
			return nil, InvalidArgument("unrecognized rolls node type %v", v["type"])
		}
	default:
		return nil, InvalidArgument("unrecognized rolls element %T", raw)
	}
}

func reconstructRollResult(m map[string]interface{}) (*RollResult, error) {
	initial, ok := m["initialValue"].(float64)
	if !ok {
		return nil, InvalidArgument("result node missing initialValue")
	}
	value, ok := m["value"].(float64)
	if !ok {
		return nil, InvalidArgument("result node missing value")
	}
	calc, ok := m["calculationValue"].(float64)
	if !ok {
		calc = value
	}
	useInTotal, _ := m["useInTotal"].(bool)

	r := &RollResult{initialValue: initial, value: value, useInTotal: useInTotal}
	r.SetCalculationValue(calc)
	for _, mod := range stringSlice(m["modifiers"]) {
		r.AddFlag(Flag(mod))
	}
	return r, nil
}

func reconstructRollResults(m map[string]interface{}) (*RollResults, error) {
	raw, _ := m["rolls"].([]interface{})
	rolls := make([]*RollResult, 0, len(raw))
	for _, re := range raw {
		rm, ok := re.(map[string]interface{})
		if !ok {
			return nil, InvalidArgument("roll-results node has non-object roll")
		}
		r, err := reconstructRollResult(rm)
		if err != nil {
			return nil, err
		}
		rolls = append(rolls, r)
	}
	return NewRollResults(rolls...), nil
}

func reconstructResultGroup(m map[string]interface{}) (*ResultGroup, error) {
	isRollGroup, _ := m["isRollGroup"].(bool)
	g := NewResultGroup(isRollGroup)

	raw, _ := m["results"].([]interface{})
	for _, re := range raw {
		el, err := reconstructElement(re)
		if err != nil {
			return nil, err
		}
		g.Append(el)
	}

	if useInTotal, ok := m["useInTotal"].(bool); ok {
		g.SetUseInTotal(useInTotal)
	}
	// calculationValue is always restored as an explicit override: a
	// RollGroup's per-element exclusions aren't part of the wire format, so
	// recomputing Value() from Elements alone could diverge from the
	// originally exported total.
	if calc, ok := m["calculationValue"].(float64); ok {
		g.SetCalculationValue(calc)
	}
	for _, mod := range stringSlice(m["modifiers"]) {
		g.AddFlag(Flag(mod))
	}
	return g, nil
}

func stringSlice(raw interface{}) []string {
	items, _ := raw.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
