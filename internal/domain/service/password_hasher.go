// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// Secret schemes selectable through auth.secretScheme.
const (
	SecretSchemePlain  = "plain"
	SecretSchemeBcrypt = "bcrypt"
)

// PasswordHasher turns an account secret into its stored form and verifies
// a login attempt against the stored form.
type PasswordHasher interface {
	// Hash returns the value to persist in Account.Password.
	Hash(password string) (string, error)

	// Check compares a plaintext attempt with a stored value.
	Check(password, stored string) bool

	// Scheme names the stored form, one of the SecretScheme constants.
	Scheme() string
}
