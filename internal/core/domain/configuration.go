package domain

import (
	"maps"
	"slices"
	"strings"
)

// InvalidConfigurationID marks a configuration that has not been assigned an identifier.
const InvalidConfigurationID = 0

// Configuration is one evaluated build configuration of the inner engine: a project path
// plus the global properties it was evaluated with. Its ID is engine-local and only valid
// within one engine session.
type Configuration struct {
	ID               int
	ProjectPath      string
	GlobalProperties map[string]string
	ToolsVersion     string
	TargetNames      []string

	// ExplicitlyLoaded keeps the engine from discarding the configuration when a build begins.
	ExplicitlyLoaded bool
}

// ConfigurationIdentity is the value two configurations must share to be the same
// configuration, regardless of their identifiers.
type ConfigurationIdentity string

// Identity returns the identity of the configuration. Project paths and property names
// compare case-insensitively, property values compare exactly.
func (c *Configuration) Identity() ConfigurationIdentity {
	keys := slices.Collect(maps.Keys(c.GlobalProperties))
	slices.SortFunc(keys, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	var b strings.Builder
	b.WriteString(strings.ToLower(c.ProjectPath))
	for _, k := range keys {
		b.WriteByte(0)
		b.WriteString(strings.ToLower(k))
		b.WriteByte('=')
		b.WriteString(c.GlobalProperties[k])
	}
	return ConfigurationIdentity(b.String())
}

// CloneWithID returns a copy of the configuration carrying a new identifier.
func (c *Configuration) CloneWithID(id int) *Configuration {
	clone := *c
	clone.ID = id
	clone.GlobalProperties = maps.Clone(c.GlobalProperties)
	clone.TargetNames = slices.Clone(c.TargetNames)
	return &clone
}
