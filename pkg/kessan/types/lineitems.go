package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LineItem is one labelled amount.
type LineItem struct {
	Label string
	Value float64
}

// LineItems is an ordered label -> amount mapping. Decoding keeps the order
// of the source object so panels render in the order the record lists them.
type LineItems []LineItem

// Get returns the value for label.
func (li LineItems) Get(label string) (float64, bool) {
	for _, it := range li {
		if it.Label == label {
			return it.Value, true
		}
	}
	return 0, false
}

// Value returns the value for label, or 0 when absent.
func (li LineItems) Value(label string) float64 {
	v, _ := li.Get(label)
	return v
}

// Sum adds every value.
func (li LineItems) Sum() float64 {
	var total float64
	for _, it := range li {
		total += it.Value
	}
	return total
}

// Ordered returns the items with labels from first placed at the front, in
// that order, followed by the remaining items in their original order.
func (li LineItems) Ordered(first []string) LineItems {
	out := make(LineItems, 0, len(li))
	used := make(map[string]struct{}, len(first))
	for _, label := range first {
		if v, ok := li.Get(label); ok {
			out = append(out, LineItem{Label: label, Value: v})
			used[label] = struct{}{}
		}
	}
	for _, it := range li {
		if _, ok := used[it.Label]; ok {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (li *LineItems) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*li = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("line items: expected object, got %v", tok)
	}
	out := LineItems{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		label, _ := kt.(string)
		var v float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("line item %q: %w", label, err)
		}
		out = append(out, LineItem{Label: label, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*li = out
	return nil
}

func (li LineItems) MarshalJSON() ([]byte, error) {
	if li == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, it := range li {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(it.Label)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(it.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (li *LineItems) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line items: expected mapping at line %d", node.Line)
	}
	out := make(LineItems, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		label := node.Content[i].Value
		var v float64
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("line item %q: %w", label, err)
		}
		out = append(out, LineItem{Label: label, Value: v})
	}
	*li = out
	return nil
}
