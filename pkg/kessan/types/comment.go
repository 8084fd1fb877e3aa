package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CommentMode is the state of one comment slot override.
type CommentMode int

const (
	// CommentDefault uses the generated default text (null or absent).
	CommentDefault CommentMode = iota
	// CommentCustom uses Text verbatim.
	CommentCustom
	// CommentHidden suppresses the comment (false).
	CommentHidden
)

func (m CommentMode) String() string {
	switch m {
	case CommentCustom:
		return "custom"
	case CommentHidden:
		return "hidden"
	default:
		return "default"
	}
}

// CommentOverride is one comment slot: null/absent, a string, or false.
// The zero value is CommentDefault.
type CommentOverride struct {
	Mode CommentMode
	Text string
}

// CustomComment returns an override that shows s as is.
func CustomComment(s string) CommentOverride {
	return CommentOverride{Mode: CommentCustom, Text: s}
}

// HiddenComment returns an override that suppresses the slot.
func HiddenComment() CommentOverride {
	return CommentOverride{Mode: CommentHidden}
}

func (c *CommentOverride) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*c = CommentOverride{}
	case string:
		*c = CustomComment(v)
	case bool:
		if v {
			return fmt.Errorf("comment: true is not a valid override (use a string, false or null)")
		}
		*c = HiddenComment()
	default:
		return fmt.Errorf("comment: unsupported value %s", string(data))
	}
	return nil
}

func (c CommentOverride) MarshalJSON() ([]byte, error) {
	switch c.Mode {
	case CommentCustom:
		return json.Marshal(c.Text)
	case CommentHidden:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (c *CommentOverride) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("comment: expected scalar at line %d", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		*c = CommentOverride{}
	case "!!str":
		*c = CustomComment(node.Value)
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		if b {
			return fmt.Errorf("comment: true is not a valid override at line %d", node.Line)
		}
		*c = HiddenComment()
	default:
		return fmt.Errorf("comment: unsupported value %q at line %d", node.Value, node.Line)
	}
	return nil
}

// Comments holds overrides keyed by section ("bs", "cf") then slot key.
type Comments map[string]map[string]CommentOverride

// Get returns the override for section/key; absent slots are CommentDefault.
func (c Comments) Get(section, key string) CommentOverride {
	if c == nil {
		return CommentOverride{}
	}
	return c[section][key]
}
