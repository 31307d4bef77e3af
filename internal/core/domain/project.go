package domain

// ProjectItem is an item of an evaluated project, tagged with its item type.
type ProjectItem struct {
	Type string
	Item *Item
}

// ProjectInstance is a snapshot of an evaluated project, cached so a later invocation can
// skip evaluation.
type ProjectInstance struct {
	FullPath   string
	Properties map[string]string
	Items      []ProjectItem
}
