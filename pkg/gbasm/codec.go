package gbasm

import "encoding/json"

// ----------------------------------------------------------------------------
// JSON dump surface (§6)
//
// Element is a closed tagged-variant sum; rather than expose a discriminator
// field on every struct, each variant marshals itself with its own "type"
// key via a json.Marshaler implementation, so a serialized element always
// carries its variant name alongside its payload fields.

type jsonOpcode struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Op       string `json:"op"`
	Operand1 string `json:"operand1"`
	Operand2 string `json:"operand2"`
	Comment  string `json:"comment"`
}

func (o Opcode) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonOpcode{"Opcode", o.Text, o.Op, o.Operand1, o.Operand2, o.Comment})
}

type jsonText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonText{"Text", t.Text})
}

type jsonInclude struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Target string `json:"target"`
}

func (i Include) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonInclude{"Include", i.Text, i.Target})
}

type jsonMacro struct {
	Type  string   `json:"type"`
	Label string   `json:"label"`
	Texts []string `json:"texts"`
	Text  string   `json:"text"`
}

func (m Macro) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMacro{"Macro", m.Label, m.Texts, m.Text})
}
