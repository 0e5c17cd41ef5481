package auth

import (
	"os"
	"strings"

	"github.com/nerdymedev/lekzzy-tech-store/models"
)

// SellerPolicy decides whether a user may use the back-office. It is
// injected wherever seller access is gated, so the policy is configuration,
// not code.
type SellerPolicy interface {
	IsSeller(user *models.User) bool
}

// AllowlistPolicy grants seller access to users carrying the seller role or
// appearing on a configured email allowlist.
type AllowlistPolicy struct {
	Emails map[string]bool
}

// NewAllowlistPolicy parses a comma-separated email list, typically the
// SELLER_EMAILS environment variable.
func NewAllowlistPolicy(emails string) *AllowlistPolicy {
	allow := make(map[string]bool)
	for _, email := range strings.Split(emails, ",") {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allow[email] = true
		}
	}
	return &AllowlistPolicy{Emails: allow}
}

// PolicyFromEnv builds the policy from SELLER_EMAILS.
func PolicyFromEnv() *AllowlistPolicy {
	return NewAllowlistPolicy(os.Getenv("SELLER_EMAILS"))
}

func (p *AllowlistPolicy) IsSeller(user *models.User) bool {
	if user == nil {
		return false
	}
	if user.Role == "seller" || user.Role == "admin" {
		return true
	}
	return p.Emails[strings.ToLower(user.Email)]
}
