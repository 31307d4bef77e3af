package ports

// PathMapper converts paths between their real, sandbox-specific form and a virtual form
// that is stable across sandboxes and machines.
type PathMapper interface {
	// ToVirtual replaces real root prefixes in s with their virtual tokens.
	ToVirtual(s string) string
	// ToReal replaces virtual tokens in s with the real roots of this session.
	ToReal(s string) string
	// ToManifestPath converts an absolute path into a root-relative manifest path.
	ToManifestPath(path string) (string, bool)
	// Abs resolves a manifest-relative path against the execution root.
	Abs(path string) string
}
