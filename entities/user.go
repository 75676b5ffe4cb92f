package entities

// User is the session-facing record. It never carries a password.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	FarmName string `json:"farmName,omitempty"`
}

// RegistryEntry is a user as kept under micampo_users.
// Password holds the plaintext value written by older web clients; it is
// replaced by PasswordHash the first time the entry logs in.
type RegistryEntry struct {
	User
	PasswordHash string `json:"passwordHash,omitempty"`
	Password     string `json:"password,omitempty"`
}
