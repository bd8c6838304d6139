package compose

// FragmentKind distinguishes how a fragment's text came to be.
type FragmentKind string

const (
	// FragmentText is literal locked prose, reproduced verbatim.
	FragmentText FragmentKind = "text"
	// FragmentTemplate is the rendering of a named locked template.
	FragmentTemplate FragmentKind = "template"
	// FragmentValue is a bound raw value.
	FragmentValue FragmentKind = "value"
	// FragmentPlaceholder marks a required value that is missing; the
	// text is the visible placeholder, visually distinct from prose.
	FragmentPlaceholder FragmentKind = "placeholder"
)

// Fragment is one piece of section content.
type Fragment struct {
	Kind     FragmentKind
	Slot     string // slot id for value/placeholder fragments
	Template string // template name for template fragments
	Text     string
}

// Section is a titled run of fragments. Sections the visibility resolver
// omitted do not appear at all.
type Section struct {
	ID        string
	Title     string
	Fragments []Fragment
}

// Chapter is an ordered group of sections.
type Chapter struct {
	ID       string
	Title    string
	Sections []Section
}

// Document is the ordered model handed to the downstream layout stage.
// It is built fresh on every render and holds no reference back to the
// case graph.
type Document struct {
	Chapters []Chapter
}
