package domain

type Tier string

const (
	TierStandard  Tier = "standard"
	TierExclusive Tier = "exclusive"
)

// Identity is the signed-in shopper. At most one is active per browser.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Tier     Tier   `json:"tier"`
}

// EarnMultiplier is the loyalty coin multiplier for the tier.
func (t Tier) EarnMultiplier() int64 {
	if t == TierExclusive {
		return 2
	}
	return 1
}
