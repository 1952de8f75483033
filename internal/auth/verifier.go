package auth

import (
	"context"
	"errors"

	"github.com/jcmexdev/maison-storefront/internal/auth/domain"
)

var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// CredentialVerifier checks a username/password pair. A real identity
// provider plugs in here; StaticVerifier is the demo table.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (domain.Identity, error)
}

type Credential struct {
	Password string
	Identity domain.Identity
}

var _ CredentialVerifier = (*StaticVerifier)(nil)

// StaticVerifier matches usernames and passwords exactly, case-sensitive.
type StaticVerifier struct {
	table map[string]Credential
}

func NewStaticVerifier(creds []Credential) *StaticVerifier {
	table := make(map[string]Credential, len(creds))
	for _, c := range creds {
		table[c.Identity.Username] = c
	}
	return &StaticVerifier{table: table}
}

// DefaultVerifier holds the demo accounts.
func DefaultVerifier() *StaticVerifier {
	return NewStaticVerifier([]Credential{
		{
			Password: "password",
			Identity: domain.Identity{ID: "usr_001", Username: "od", Name: "Olivia Durand", Email: "olivia@maison.example", Tier: domain.TierStandard},
		},
		{
			Password: "password",
			Identity: domain.Identity{ID: "usr_002", Username: "vip", Name: "Victor Laurent", Email: "victor@maison.example", Tier: domain.TierExclusive},
		},
		{
			Password: "guest123",
			Identity: domain.Identity{ID: "usr_003", Username: "guest", Name: "Guest Shopper", Email: "guest@maison.example", Tier: domain.TierStandard},
		},
	})
}

func (v *StaticVerifier) Verify(ctx context.Context, username, password string) (domain.Identity, error) {
	c, ok := v.table[username]
	if !ok || c.Password != password {
		return domain.Identity{}, ErrInvalidCredentials
	}
	return c.Identity, nil
}
