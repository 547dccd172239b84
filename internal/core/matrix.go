package core

import "strings"

// Axis is one configuration dimension whose values get cross-multiplied
// into job instances. Axes are declared per job family and never change
// after load.
type Axis struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

// Selection is one axis value picked for an instance.
type Selection struct {
	Axis  string `json:"axis"`
	Value string `json:"value"`
}

// Tuple is one point of the cross-product, in axis declaration order.
type Tuple []Selection

// Slug joins the tuple values into a stable identifier fragment,
// e.g. "ubuntu-latest-stable".
func (t Tuple) Slug() string {
	parts := make([]string, len(t))
	for i, sel := range t {
		parts[i] = sel.Value
	}
	return strings.Join(parts, "-")
}

// Value returns the selected value for the named axis, or "".
func (t Tuple) Value(axis string) string {
	for _, sel := range t {
		if sel.Axis == axis {
			return sel.Value
		}
	}
	return ""
}

// Expand produces the full cross-product of the axis value sets, in a
// deterministic order (first axis varies slowest). It is a pure
// function: no side effects, same input gives same output.
//
// No axes yields a single empty tuple, so a family with no matrix still
// gets exactly one instance. An axis with one value still multiplies.
func Expand(axes []Axis) []Tuple {
	tuples := []Tuple{{}}
	for _, axis := range axes {
		next := make([]Tuple, 0, len(tuples)*len(axis.Values))
		for _, t := range tuples {
			for _, v := range axis.Values {
				grown := make(Tuple, len(t), len(t)+1)
				copy(grown, t)
				grown = append(grown, Selection{Axis: axis.Name, Value: v})
				next = append(next, grown)
			}
		}
		tuples = next
	}
	return tuples
}
