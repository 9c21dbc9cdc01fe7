package domain

// RuleResult is the outcome of one eligibility rule.
type RuleResult struct {
	OK          bool
	Description string
}

// EligibilitySummary is the ordered list of rule outcomes. Results keep
// evaluation order, which is also display order.
type EligibilitySummary struct {
	Results []RuleResult
}

// AllOK reports whether every rule passed. It is computed from Results on
// each call so it can never drift from them.
func (s EligibilitySummary) AllOK() bool {
	for _, r := range s.Results {
		if !r.OK {
			return false
		}
	}
	return true
}

// Failed returns the rules that did not pass, in order.
func (s EligibilitySummary) Failed() []RuleResult {
	var out []RuleResult
	for _, r := range s.Results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}
