// Package pathmap converts absolute paths between their sandbox-specific real form and the
// sandbox-independent virtual form stored in cache artifacts.
package pathmap

import (
	"strings"

	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Virtualizer rewrites the output base and execution root of one invocation to and from the
// $output_base and $exec_root tokens. It is immutable and safe for concurrent use.
type Virtualizer struct {
	outputBase string
	execRoot   string
	sep        byte
	foldCase   bool
}

// New creates a Virtualizer. execRoot must be outputBase itself or a descendant of it.
func New(outputBase, execRoot string) (*Virtualizer, error) {
	outputBase = trimSeparators(outputBase)
	execRoot = trimSeparators(execRoot)

	if !isAbs(outputBase) || !isAbs(execRoot) {
		return nil, invalidRoots(outputBase, execRoot)
	}

	v := &Virtualizer{
		outputBase: outputBase,
		execRoot:   execRoot,
		sep:        '/',
	}
	if isWindowsPath(outputBase) {
		v.sep = '\\'
		v.foldCase = true
	}

	if !v.hasRootPrefix(execRoot, 0, outputBase) ||
		(len(execRoot) > len(outputBase) && !isSeparator(execRoot[len(outputBase)])) {
		return nil, invalidRoots(outputBase, execRoot)
	}

	return v, nil
}

// OutputBase returns the real output base.
func (v *Virtualizer) OutputBase() string { return v.outputBase }

// ExecRoot returns the real execution root.
func (v *Virtualizer) ExecRoot() string { return v.execRoot }

// ToVirtual replaces every occurrence of the execution root or the output base in s with its
// token. Occurrences are only rewritten at path boundaries, so s may be a single path or a
// delimited list such as a search path or a "Key=Value" pair.
func (v *Virtualizer) ToVirtual(s string) string {
	return v.rewrite(s, [2]string{v.execRoot, domain.VirtualExecRoot},
		[2]string{v.outputBase, domain.VirtualOutputBase})
}

// ToReal replaces every $exec_root and $output_base token in s with the real root.
func (v *Virtualizer) ToReal(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return v.rewrite(s, [2]string{domain.VirtualExecRoot, v.execRoot},
		[2]string{domain.VirtualOutputBase, v.outputBase})
}

// ToManifestPath strips the root from path and returns the remainder with '/' separators.
// A leading external/ segment is dropped, so projects of external repositories are keyed by
// repository name. The result is the same across invocations with different output bases.
// Paths outside both roots report ok=false.
func (v *Virtualizer) ToManifestPath(path string) (string, bool) {
	path = v.ToReal(path)
	if !isAbs(path) {
		rest := strings.ReplaceAll(strings.TrimPrefix(path, "./"), "\\", "/")
		return strings.TrimPrefix(rest, domain.ExternalDir+"/"), true
	}

	for _, root := range []string{v.execRoot, v.outputBase} {
		if v.hasRootPrefix(path, 0, root) {
			rest := strings.TrimLeft(path[len(root):], "/\\")
			rest = strings.ReplaceAll(rest, "\\", "/")
			return strings.TrimPrefix(rest, domain.ExternalDir+"/"), true
		}
	}
	return path, false
}

// Abs resolves a manifest path to an absolute real path. Virtual paths are devirtualized,
// absolute paths are returned as is, and relative paths are joined to the execution root.
func (v *Virtualizer) Abs(path string) string {
	path = v.ToReal(path)
	if path == "" || isAbs(path) {
		return path
	}

	rel := strings.TrimPrefix(path, "./")
	if v.sep == '\\' {
		rel = strings.ReplaceAll(rel, "/", "\\")
	}
	return v.execRoot + string(v.sep) + rel
}

// rewrite scans s once and substitutes the first matching pair at every boundary position.
func (v *Virtualizer) rewrite(s string, pairs ...[2]string) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(s); i++ {
		if i > 0 && !isDelimiter(s[i-1]) {
			continue
		}
		for _, p := range pairs {
			if !v.hasRootPrefix(s, i, p[0]) {
				continue
			}
			if b.Len() == 0 {
				b.Grow(len(s))
			}
			b.WriteString(s[last:i])
			b.WriteString(p[1])
			i += len(p[0]) - 1
			last = i + 1
			break
		}
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// hasRootPrefix reports whether s[at:] starts with root and the match ends at a boundary.
func (v *Virtualizer) hasRootPrefix(s string, at int, root string) bool {
	end := at + len(root)
	if end > len(s) {
		return false
	}
	candidate := s[at:end]
	if v.foldCase {
		if !strings.EqualFold(candidate, root) {
			return false
		}
	} else if candidate != root {
		return false
	}
	return end == len(s) || isSeparator(s[end]) || isDelimiter(s[end])
}

func invalidRoots(outputBase, execRoot string) error {
	err := zerr.Wrap(domain.ErrInvalidRoots, "create path virtualizer")
	err = zerr.With(err, "output_base", outputBase)
	return zerr.With(err, "exec_root", execRoot)
}

func trimSeparators(p string) string {
	for len(p) > 1 && isSeparator(p[len(p)-1]) {
		if len(p) == 3 && p[1] == ':' {
			break
		}
		p = p[:len(p)-1]
	}
	return p
}

func isSeparator(c byte) bool {
	return c == '/' || c == '\\'
}

func isDelimiter(c byte) bool {
	switch c {
	case ';', ',', '=', ':', '"', '\'', '(', ')', '[', ']', ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isWindowsPath(p string) bool {
	if len(p) >= 2 && p[0] == '\\' && p[1] == '\\' {
		return true
	}
	return len(p) >= 3 && isLetter(p[0]) && p[1] == ':' && isSeparator(p[2])
}

func isAbs(p string) bool {
	return strings.HasPrefix(p, "/") || isWindowsPath(p)
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
