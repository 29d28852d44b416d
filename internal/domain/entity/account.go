package entity

// AccountStatus tells whether an account may log in.
type AccountStatus string

const (
	// StatusActive accounts can log in.
	StatusActive AccountStatus = "active"
	// StatusInactive accounts are kept for history but cannot log in.
	StatusInactive AccountStatus = "inactive"
)

// IsValid checks if the AccountStatus is a valid value.
func (s AccountStatus) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Account is a staff or administrator identity.
// The JSON layout is the persisted layout of the accounts collection.
type Account struct {
	ID       int           `json:"id"`       // Assigned by the record store, never changes.
	Username string        `json:"username"` // Login name, compared case-sensitively.
	Password string        `json:"password"` // Opaque secret: plaintext or a bcrypt hash depending on the secret scheme.
	FullName string        `json:"fullName"`
	Role     Role          `json:"role"`
	Status   AccountStatus `json:"status"`
}

// IsActive reports whether the account may log in.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// AccountPatch is a partial update of an Account. Nil fields are retained.
// It carries no ID field, so an update cannot change a record's identity.
type AccountPatch struct {
	Username *string
	Password *string
	FullName *string
	Role     *Role
	Status   *AccountStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p *AccountPatch) IsEmpty() bool {
	return p == nil || (p.Username == nil && p.Password == nil && p.FullName == nil && p.Role == nil && p.Status == nil)
}

// ApplyTo overwrites the supplied fields of a.
func (p *AccountPatch) ApplyTo(a *Account) {
	if p == nil {
		return
	}
	if p.Username != nil {
		a.Username = *p.Username
	}
	if p.Password != nil {
		a.Password = *p.Password
	}
	if p.FullName != nil {
		a.FullName = *p.FullName
	}
	if p.Role != nil {
		a.Role = *p.Role
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}
