package domain

// ManifestOutput names the artifacts the current invocation must write.
type ManifestOutput struct {
	Project string `json:"project" yaml:"project"`
	Result  string `json:"result" yaml:"result"`
}

// CacheManifest lists the inputs and outputs of one invocation's cache bridge.
type CacheManifest struct {
	Output ManifestOutput `json:"output" yaml:"output"`

	// Projects maps manifest-relative project paths to serialized project artifacts.
	Projects map[string]string `json:"projects" yaml:"projects"`

	// DependencyArtifacts lists dependency artifacts in postorder: every entry appears after
	// the artifacts of its own dependencies.
	DependencyArtifacts []string `json:"dependencyArtifacts" yaml:"dependencyArtifacts"`

	// Results is the legacy name of DependencyArtifacts.
	Results []string `json:"results" yaml:"results"`
}

// Artifacts returns the dependency artifact paths, falling back to the legacy field.
func (m *CacheManifest) Artifacts() []string {
	if len(m.DependencyArtifacts) > 0 {
		return m.DependencyArtifacts
	}
	return m.Results
}
