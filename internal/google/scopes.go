package google

import (
	gmail "google.golang.org/api/gmail/v1"
)

// RequiredScopes computes the minimum OAuth scope set for the requested
// operation. The send scope is always required; the compose scope is added
// only for draft creation and the modify scope only when labels will be
// applied after delivery.
func RequiredScopes(draftMode, wantLabels bool) []string {
	scopes := []string{gmail.GmailSendScope}
	if draftMode {
		scopes = append(scopes, gmail.GmailComposeScope)
	}
	if wantLabels {
		scopes = append(scopes, gmail.GmailModifyScope)
	}
	return scopes
}

// scopeSuperset reports whether have covers every scope in want.
func scopeSuperset(have, want []string) bool {
	granted := make(map[string]struct{}, len(have))
	for _, s := range have {
		granted[s] = struct{}{}
	}
	for _, s := range want {
		if _, ok := granted[s]; !ok {
			return false
		}
	}
	return true
}
