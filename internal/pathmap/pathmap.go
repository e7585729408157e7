// Package pathmap translates paths reported by a library manager into
// local filesystem paths using configured prefix mappings.
package pathmap

import (
	"strings"

	"github.com/scenesmith/scenesmith/internal/config"
)

// Mapper resolves remote paths against a fixed mapping set. The longest
// matching remote prefix wins.
type Mapper struct {
	mappings []config.PathMapping
}

// New builds a Mapper from configured mappings.
func New(mappings []config.PathMapping) *Mapper {
	return &Mapper{mappings: mappings}
}

// Translate maps a remote path to a local path. The second return is
// false when no mapping prefix matches; callers skip such paths.
func (m *Mapper) Translate(remotePath string) (string, bool) {
	var best *config.PathMapping
	bestLen := -1
	for i := range m.mappings {
		root := strings.TrimRight(m.mappings[i].RemoteRoot, "/")
		if root == "" || !strings.HasPrefix(remotePath, root) {
			continue
		}
		if len(root) > bestLen {
			best = &m.mappings[i]
			bestLen = len(root)
		}
	}
	if best == nil {
		return "", false
	}
	suffix := remotePath[bestLen:]
	return strings.TrimRight(best.LocalRoot, "/") + suffix, true
}

// Resolver adapts the mapper to the packaging classifier's callback shape.
func (m *Mapper) Resolver() func(string) (string, bool) {
	return m.Translate
}
