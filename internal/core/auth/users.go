package auth

import (
	"net/url"
	"strings"
	"time"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/schema"
)

const CollectionName = "users"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func avatarFor(email string) string {
	return "https://i.pravatar.cc/150?u=" + url.QueryEscape(email)
}

// UsersDefinition describes the users collection. Emails are unique
// regardless of case.
func UsersDefinition() *collection.Definition[User] {
	return &collection.Definition[User]{
		Name: CollectionName,
		Schema: schema.Object("user", map[string]*schema.Property{
			"email":        schema.Email(),
			"passwordHash": schema.String(),
			"name":         schema.Text(),
			"role":         schema.Enum(RoleUser, RoleAdmin),
			"status":       schema.Enum(StatusActive, StatusSuspended),
			"avatar":       schema.String(),
		}, []string{"email", "name"}),
		Envelope:     func(u *User) *collection.Envelope { return &u.Envelope },
		SearchFields: func(u *User) []string { return []string{u.Name, u.Email} },
		Filters: map[string]func(*User) string{
			"role":   func(u *User) string { return u.Role },
			"status": func(u *User) string { return u.Status },
		},
		DisplayName: func(u *User) string { return u.Name },
		Unique:      func(u *User) string { return normalizeEmail(u.Email) },
		Defaults: func(p map[string]interface{}, _ time.Time) {
			email, _ := p["email"].(string)
			p["email"] = normalizeEmail(email)
			if s, _ := p["role"].(string); s == "" {
				p["role"] = RoleUser
			}
			if s, _ := p["status"].(string); s == "" {
				p["status"] = StatusActive
			}
			if s, _ := p["avatar"].(string); s == "" {
				p["avatar"] = avatarFor(normalizeEmail(email))
			}
		},
		Placement:    collection.Append,
		DefaultLimit: collection.DefaultLimit,
	}
}
