package model

// Category tells whether a test file is expected to be accepted or
// rejected by the compiler. It is fixed by the directory the file came from.
type Category int

const (
	Valid Category = iota
	Invalid
)

// Categories lists categories in the order a stage runs them.
var Categories = []Category{Valid, Invalid}

// Dir returns the corpus directory name for the category.
func (c Category) Dir() string {
	if c == Invalid {
		return "invalid"
	}
	return "valid"
}

func (c Category) String() string {
	return c.Dir()
}
