// SPDX-License-Identifier: MPL-2.0

package verb

// Verb is a named installable unit.
type Verb struct {
	Name      string
	Category  Category
	Title     string
	Publisher string
	Year      string
	Actions   []Action
}

// New returns a verb with the given metadata and no actions.
func New(name string, category Category, title, publisher, year string) Verb {
	return Verb{Name: name, Category: category, Title: title, Publisher: publisher, Year: year}
}

// With returns a copy of v with actions appended.
func (v Verb) With(actions ...Action) Verb {
	out := v
	out.Actions = append(append([]Action(nil), v.Actions...), actions...)
	return out
}

// Dependencies returns the names of the verbs v calls, in declaration order.
func (v Verb) Dependencies() []string {
	var deps []string
	for _, a := range v.Actions {
		if call, ok := a.(CallVerb); ok {
			deps = append(deps, call.Name)
		}
	}
	return deps
}
