// Package user represents the reporter identity: canonical email, login,
// display name, and per-section alias overrides.
package user

import (
	"fmt"
	"regexp"
	"strings"

	"did/internal/errs"
)

var emailRe = regexp.MustCompile(`^[^@\s<>]+@[^@\s<>]+\.[^@\s<>]+$`)

// Alias overrides the identity a single source section sees. Either
// field may be empty, meaning no override.
type Alias struct {
	Email string
	Login string
}

// User is one reporter. Login defaults to the local part of Email.
type User struct {
	Email   string
	Login   string
	Name    string
	Aliases map[string]Alias
}

// Parse reads a user from its string form:
//
//	some@email.org
//	Name Surname <some@email.org>
//	some@email.org; jira: JIRANAME; gh: GITHUBLOGIN
//
// A bare-word alias overrides the login only; an alias containing an
// address replaces both email and login.
func Parse(raw string) (*User, error) {
	parts := strings.Split(raw, ";")
	u := &User{Aliases: map[string]Alias{}}

	email, name, err := parseAddress(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	u.Email = email
	u.Name = name
	u.Login = localPart(email)

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		section, value, found := strings.Cut(part, ":")
		if !found {
			return nil, errs.Usagef("invalid alias %q in %q, expected \"section: alias\"", part, raw)
		}
		u.Aliases[strings.TrimSpace(section)] = parseAlias(strings.TrimSpace(value))
	}
	return u, nil
}

// ParseList parses every --email value, splitting comma-separated lists,
// preserving order.
func ParseList(values []string) ([]*User, error) {
	var users []*User
	for _, value := range values {
		for _, raw := range strings.Split(value, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			u, err := Parse(raw)
			if err != nil {
				return nil, err
			}
			users = append(users, u)
		}
	}
	return users, nil
}

// Clone returns a copy of the user with the alias for the given section
// applied, if any. Without an alias the copy is identical.
func (u *User) Clone(section string) *User {
	c := &User{
		Email:   u.Email,
		Login:   u.Login,
		Name:    u.Name,
		Aliases: u.Aliases,
	}
	if alias, ok := u.Aliases[section]; ok {
		if alias.Email != "" {
			c.Email = alias.Email
		}
		if alias.Login != "" {
			c.Login = alias.Login
		}
	}
	return c
}

// SetAlias records a section override, replacing any inline alias for
// the same section. Config-section aliases use this to take precedence.
func (u *User) SetAlias(section string, alias Alias) {
	if u.Aliases == nil {
		u.Aliases = map[string]Alias{}
	}
	cur := u.Aliases[section]
	if alias.Email != "" {
		cur.Email = alias.Email
		if alias.Login == "" {
			cur.Login = localPart(alias.Email)
		}
	}
	if alias.Login != "" {
		cur.Login = alias.Login
	}
	u.Aliases[section] = cur
}

func (u *User) String() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	}
	return u.Email
}

// parseAddress accepts "addr@dom" or `Display Name <addr@dom>`; the
// domain is lower-cased, the address validated.
func parseAddress(raw string) (email, name string, err error) {
	email = raw
	if open := strings.Index(raw, "<"); open >= 0 {
		closing := strings.Index(raw, ">")
		if closing < open {
			return "", "", errs.Usagef("invalid email address %q", raw)
		}
		name = strings.Trim(strings.TrimSpace(raw[:open]), `"`)
		email = raw[open+1 : closing]
	}
	local, domain, found := strings.Cut(email, "@")
	if found {
		email = local + "@" + strings.ToLower(domain)
	}
	if !emailRe.MatchString(email) {
		return "", "", errs.Usagef("invalid email address %q", raw)
	}
	return email, name, nil
}

// parseAlias distinguishes a full address from a bare login word.
func parseAlias(value string) Alias {
	if strings.Contains(value, "@") {
		return Alias{Email: value, Login: localPart(value)}
	}
	return Alias{Login: value}
}

func localPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
