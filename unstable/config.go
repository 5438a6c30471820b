package unstable

import (
	"fmt"
	"strings"
)

const (
	// CatchAllFeature guards items annotated without a feature name.
	CatchAllFeature = "unstable"

	featurePrefix = CatchAllFeature + "-"
)

// Config holds the arguments of one `//unstable:api` directive.
type Config struct {
	// Feature is the name of the feature that enables the unstable API. When
	// empty the item is guarded by the catch-all feature.
	Feature string

	// Issue is a link or reference to a tracking issue, included in the
	// item's documentation when set.
	Issue string
}

// FeatureName returns the qualified feature name: the feature prefixed with
// "unstable-", or the catch-all "unstable".
func (c Config) FeatureName() string {
	if c.Feature == "" {
		return CatchAllFeature
	}
	return featurePrefix + c.Feature
}

// BuildTag returns the build tag that enables the feature. Build tags allow
// only letters, digits, underscores and dots, so dashes become underscores.
func (c Config) BuildTag() string {
	return strings.ReplaceAll(c.FeatureName(), "-", "_")
}

// Validate reports feature names that cannot be turned into a build tag.
func (c Config) Validate() error {
	if c.Feature == "" {
		return nil
	}
	for _, r := range c.Feature {
		if !validFeatureRune(r) {
			return fmt.Errorf("invalid character %q in feature name %q", r, c.Feature)
		}
	}
	return nil
}

func validFeatureRune(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	case r == '-', r == '_', r == '.':
		return true
	}
	return false
}
