package segment

// Rule pairs a predicate with the label assigned when it fires. Each
// classifier holds an ordered rule table; the first matching rule wins, so
// rule priority is the slice order and can be inspected in tests.
type Rule[P any] struct {
	When  func(P) bool
	Name  string
	Label string
}

// apply evaluates rules in order and returns the label of the first match,
// or fallback when no rule fires.
func apply[P any](rules []Rule[P], fallback string, profile P) string {
	for _, r := range rules {
		if r.When(profile) {
			return r.Label
		}
	}
	return fallback
}
