package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Label identifies one buildable unit of the outer orchestrator.
type Label struct {
	Workspace string
	Package   string
	Name      string
}

// NewLabel creates a Label from its parts.
func NewLabel(workspace, pkg, name string) Label {
	return Label{Workspace: workspace, Package: pkg, Name: name}
}

// ParseLabel parses the "@workspace//package:name" form produced by Label.String.
// The workspace may be empty ("//package:name"). A missing ":name" defaults the name
// to the last package segment.
func ParseLabel(s string) (Label, error) {
	rest := strings.TrimPrefix(s, "@")
	workspace, pkgAndName, ok := strings.Cut(rest, "//")
	if !ok {
		return Label{}, zerr.With(zerr.Wrap(ErrInvalidLabel, "parse label"), "label", s)
	}
	if !strings.HasPrefix(s, "@") && workspace != "" {
		return Label{}, zerr.With(zerr.Wrap(ErrInvalidLabel, "parse label"), "label", s)
	}

	pkg, name, hasName := strings.Cut(pkgAndName, ":")
	if !hasName {
		name = pkg[strings.LastIndex(pkg, "/")+1:]
	}
	if name == "" || strings.ContainsAny(name, ":@") || strings.Contains(pkg, "//") {
		return Label{}, zerr.With(zerr.Wrap(ErrInvalidLabel, "parse label"), "label", s)
	}

	return Label{Workspace: workspace, Package: pkg, Name: name}, nil
}

// String renders the label as "@workspace//package:name".
func (l Label) String() string {
	var b strings.Builder
	b.Grow(len(l.Workspace) + len(l.Package) + len(l.Name) + 4)
	b.WriteByte('@')
	b.WriteString(l.Workspace)
	b.WriteString("//")
	b.WriteString(l.Package)
	b.WriteByte(':')
	b.WriteString(l.Name)
	return b.String()
}

// Key returns the case-insensitive map key of the label.
func (l Label) Key() string {
	return LabelKey(l.String())
}

// LabelKey normalizes a rendered label string into a map key.
func LabelKey(s string) string {
	return strings.ToLower(s)
}

// IsZero reports whether the label is unset.
func (l Label) IsZero() bool {
	return l == Label{}
}
