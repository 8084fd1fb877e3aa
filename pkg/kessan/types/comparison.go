package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ComparisonRow is one period of a multi-period comparison table:
// {"period": "2025年4月期", "売上高": 36104, ...}.
type ComparisonRow struct {
	Period string
	Values LineItems
}

func (r *ComparisonRow) UnmarshalJSON(data []byte) error {
	var all LineItems
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("comparison row: expected object, got %v", tok)
	}
	var period string
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		if key == "period" {
			if err := dec.Decode(&period); err != nil {
				return fmt.Errorf("comparison row period: %w", err)
			}
			continue
		}
		var v float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("comparison row %q: %w", key, err)
		}
		all = append(all, LineItem{Label: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	r.Period = period
	r.Values = all
	return nil
}

func (r ComparisonRow) MarshalJSON() ([]byte, error) {
	vals, err := r.Values.MarshalJSON()
	if err != nil {
		return nil, err
	}
	p, err := json.Marshal(r.Period)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"period":`)
	buf.Write(p)
	if len(r.Values) > 0 {
		buf.WriteByte(',')
		buf.Write(vals[1:]) // drop leading '{'
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

func (r *ComparisonRow) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("comparison row: expected mapping at line %d", node.Line)
	}
	r.Period = ""
	r.Values = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if key == "period" {
			r.Period = node.Content[i+1].Value
			continue
		}
		var v float64
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("comparison row %q: %w", key, err)
		}
		r.Values = append(r.Values, LineItem{Label: key, Value: v})
	}
	return nil
}
