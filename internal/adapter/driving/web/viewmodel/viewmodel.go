// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// TodoItemViewModel holds presentation-ready data for one row of the printable list.
type TodoItemViewModel struct {
	ID              int64
	Title           string
	DescriptionHTML string
	Done            bool
	UpdatedAt       string
}

// Mark is the checkbox glyph shown before the title.
func (t TodoItemViewModel) Mark() string {
	if t.Done {
		return "[x]"
	}
	return "[ ]"
}

// TodoPageViewModel holds one page of the printable todo list.
type TodoPageViewModel struct {
	Username string
	Items    []TodoItemViewModel
	Page     int
	Limit    int
	PrevPath string
	NextPath string
}

// HasPrev reports whether a previous page link should be rendered.
func (p TodoPageViewModel) HasPrev() bool { return p.PrevPath != "" }

// HasNext reports whether a next page link should be rendered.
func (p TodoPageViewModel) HasNext() bool { return p.NextPath != "" }
