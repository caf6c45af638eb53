package domain

import "time"

// Identity is one credential a user can sign in with. A user may link
// several (one local password plus federated logins); only local identities
// carry a password hash.
type Identity struct {
	ID           string
	UserID       string
	Provider     IdentityProvider
	ProviderID   string
	PasswordHash string // empty unless Provider is local
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether this identity can be verified against a
// password. Federated identities never can, and a local identity whose hash
// was cleared cannot either.
func (i *Identity) HasPassword() bool {
	return i != nil && i.Provider == IdentityProviderLocal && i.PasswordHash != ""
}

type IdentityProvider string

const (
	IdentityProviderLocal IdentityProvider = "local"
	IdentityProviderOIDC  IdentityProvider = "oidc"
	IdentityProviderSAML  IdentityProvider = "saml"
)
