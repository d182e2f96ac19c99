package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Extraction records where and when a record was observed.
type Extraction struct {
	// Source tags the producer of the first observation (e.g. "vision:screenshot").
	Source string `json:"source"`
	// ExtractedAt is the first-seen timestamp. It survives updates.
	ExtractedAt time.Time `json:"extractedAt"`
	// UpdatedAt is set when a better observation replaced the record.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	// UpdateSource tags the producer of the last replacing observation.
	UpdateSource string `json:"updateSource,omitempty"`
}

// Item is a single game item extracted from a tooltip or inventory capture.
type Item struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Tier        *int       `json:"tier,omitempty"`
	Rarity      string     `json:"rarity,omitempty"`
	Confidence  float64    `json:"confidence"`
	Extraction  Extraction `json:"extraction"`
}

// Quantity is a loosely typed amount. Vision output reports plain numbers as well as
// ranges such as "0-1", so the value is kept as text and rendered as a JSON number
// whenever it is an integer.
type Quantity string

// MarshalJSON writes integral quantities as numbers and everything else as strings.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if n, err := strconv.Atoi(string(q)); err == nil {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(q))
}

// UnmarshalJSON accepts numbers, strings and null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = NewQuantity(n.String())
	return nil
}

// NewQuantity normalizes a textual amount: "2.0" becomes "2", whitespace is trimmed.
func NewQuantity(s string) Quantity {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return Quantity(strconv.FormatInt(int64(f), 10))
	}
	return Quantity(s)
}

// Material is one {item, qty} entry of a recipe's inputs or outputs.
type Material struct {
	Item string   `json:"item"`
	Qty  Quantity `json:"qty"`
}

// Requirements lists what a recipe needs besides its materials.
type Requirements struct {
	Profession string `json:"profession,omitempty"`
	Tool       string `json:"tool,omitempty"`
	Building   string `json:"building,omitempty"`
}

// IsEmpty reports whether no requirement field is set.
func (r Requirements) IsEmpty() bool {
	return r.Filled() == 0
}

// Filled counts the non-blank requirement fields.
func (r Requirements) Filled() int {
	n := 0
	for _, v := range []string{r.Profession, r.Tool, r.Building} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// Fields returns the requirements as field→value pairs, blanks included.
func (r Requirements) Fields() map[string]string {
	return map[string]string{
		"profession": r.Profession,
		"tool":       r.Tool,
		"building":   r.Building,
	}
}

// Craft is a recipe: materials turned into outputs under some requirements.
type Craft struct {
	Key          string       `json:"key"`
	Name         string       `json:"name"`
	Materials    []Material   `json:"materials"`
	Outputs      []Material   `json:"outputs"`
	Requirements Requirements `json:"requirements"`
	Confidence   float64      `json:"confidence"`
	Extraction   Extraction   `json:"extraction"`
}

// PrimaryMaterial returns the first material's item name, or "" when there is none.
func (c Craft) PrimaryMaterial() string {
	for _, m := range c.Materials {
		if name := strings.TrimSpace(m.Item); name != "" {
			return name
		}
	}
	return ""
}
