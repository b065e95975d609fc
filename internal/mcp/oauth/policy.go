package oauth

// AccessPolicy decides whether a verified identity may invoke tools.
// The policy is a single-entry allow-list of GitHub logins. It is evaluated
// when an identity is verified and the decision travels with the issued
// tokens; the tool layer re-checks the decision on every invocation.
type AccessPolicy struct {
	// AllowedUser is the single GitHub login permitted to invoke tools.
	// Empty means open mode: every authenticated identity is granted.
	AllowedUser string
}

// Open reports whether the policy runs without an allow-list.
func (p AccessPolicy) Open() bool {
	return p.AllowedUser == ""
}

// Decide maps a claimed username to an access decision.
//
// With no allow-list configured, every identity (including the anonymous
// empty one) is granted. With an allow-list, an absent identity is denied
// and a present one must match exactly, case-sensitively.
func (p AccessPolicy) Decide(username string) Decision {
	if p.AllowedUser == "" {
		return DecisionGranted
	}
	if username == "" {
		return DecisionDenied
	}
	if username == p.AllowedUser {
		return DecisionGranted
	}
	return DecisionDenied
}
