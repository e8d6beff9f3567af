package memory

import (
	"golang.org/x/crypto/bcrypt"

	"quizmaster-service/internal/domain"
)

// Credential seeds one entry of the built-in user list.
type Credential struct {
	ID       string
	Name     string
	Avatar   string
	Password string
}

// DefaultCredentials is the built-in user list.
func DefaultCredentials() []Credential {
	return []Credential{
		{ID: "admin", Name: "Admin User", Avatar: "👨‍💻", Password: "admin123"},
		{ID: "Deepali", Name: "Deepali", Avatar: "👩‍🎓", Password: "Test123"},
		{ID: "Azeem", Name: "Azeem", Avatar: "👩‍🎓", Password: "123Test"},
		{ID: "guest", Name: "Guest User", Avatar: "👤", Password: "guest"},
	}
}

// Identity is a fixed user list with bcrypt-hashed passwords. Implements
// app.Identity.
type Identity struct {
	users map[string]domain.User
}

// NewIdentity hashes the seed passwords and builds the lookup.
func NewIdentity(creds []Credential) (*Identity, error) {
	users := make(map[string]domain.User, len(creds))
	for _, c := range creds {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		users[c.ID] = domain.User{
			ID:           c.ID,
			Name:         c.Name,
			Avatar:       c.Avatar,
			PasswordHash: hash,
		}
	}
	return &Identity{users: users}, nil
}

func (i *Identity) FindByCredentials(id, secret string) (domain.User, error) {
	user, ok := i.users[id]
	if !ok {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(secret)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (i *Identity) FindByID(id string) (domain.User, error) {
	user, ok := i.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}
