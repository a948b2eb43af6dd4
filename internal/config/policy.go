package config

import (
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/normalization"
)

// CategoryPolicy decides what happens when two distinct category names
// slugify to the same value.
type CategoryPolicy string

const (
	// CategoryPolicyLenient merges the names, keeping the first-seen display name, and warns.
	CategoryPolicyLenient CategoryPolicy = "lenient"
	// CategoryPolicyStrict fails the build.
	CategoryPolicyStrict CategoryPolicy = "strict"
)

var categoryPolicyNormalizer = normalization.NewNormalizer(map[string]CategoryPolicy{
	"lenient": CategoryPolicyLenient,
	"strict":  CategoryPolicyStrict,
}, CategoryPolicyLenient)

// NormalizeCategoryPolicy folds raw into a known policy, defaulting to lenient.
func NormalizeCategoryPolicy(raw string) CategoryPolicy {
	return categoryPolicyNormalizer.Normalize(raw)
}
