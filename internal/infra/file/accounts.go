package file

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"logicquest/internal/domain"
)

// Accounts authenticates against a usernames file and an instructor keys file,
// one entry per line. Key lines are either plain keys or bcrypt hashes.
type Accounts struct {
	usernames string
	keys      string
}

func NewAccounts(usernamesPath, keysPath string) *Accounts {
	return &Accounts{usernames: usernamesPath, keys: keysPath}
}

// Authenticate grants RolePlayer to a known user and RoleInstructor when key matches.
func (a *Accounts) Authenticate(_ context.Context, username, key string) (domain.Role, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.RolePlayer, domain.ErrUnknownUser
	}
	names, err := readLines(a.usernames)
	if err != nil {
		return domain.RolePlayer, fmt.Errorf("read usernames: %w", err)
	}
	if !containsLine(names, username) {
		return domain.RolePlayer, fmt.Errorf("%w: %s", domain.ErrUnknownUser, username)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return domain.RolePlayer, nil
	}
	keys, err := readLines(a.keys)
	if err != nil {
		return domain.RolePlayer, fmt.Errorf("read keys: %w", err)
	}
	for _, k := range keys {
		if keyMatches(strings.TrimSpace(k), key) {
			return domain.RoleInstructor, nil
		}
	}
	return domain.RolePlayer, domain.ErrInvalidKey
}

func keyMatches(stored, key string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(key)) == nil
	}
	return stored == key
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) == want {
			return true
		}
	}
	return false
}
