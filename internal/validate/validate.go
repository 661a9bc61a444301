// Package validate holds the input rules shared by the domain services.
// Each check records problems on a *model.ValidationError instead of returning early,
// so a single response can report every bad field.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/podtracker/internal/model"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 32
	PasswordMinLength = 6
	BioMaxLength      = 255
	DisplayNameMax    = 100
	NameMaxLength     = 100
	DescriptionMax    = 2000
	MaxLinks          = 10
	URLMaxLength      = 2048
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Email checks address syntax and returns the normalized (trimmed, lower-cased) form
func Email(v *model.ValidationError, field, email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		v.Add(field, "is required")
		return normalized
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized || !strings.Contains(normalized[strings.LastIndex(normalized, "@")+1:], ".") {
		v.Add(field, "must be a valid email address")
	}
	return normalized
}

// Username checks length and allowed characters
func Username(v *model.ValidationError, field, username string) string {
	username = strings.TrimSpace(username)
	n := utf8.RuneCountInString(username)
	switch {
	case n < UsernameMinLength || n > UsernameMaxLength:
		v.Add(field, fmt.Sprintf("must be between %d and %d characters", UsernameMinLength, UsernameMaxLength))
	case !usernamePattern.MatchString(username):
		v.Add(field, "may only contain letters, digits, '_', '.' and '-'")
	}
	return username
}

// Password checks the minimum length. Passwords are never trimmed.
func Password(v *model.ValidationError, field, password string) {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		v.Add(field, fmt.Sprintf("must be at least %d characters", PasswordMinLength))
	}
}

// Required trims s and checks it is non-empty and at most max characters
func Required(v *model.ValidationError, field, s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		v.Add(field, "is required")
		return s
	}
	MaxLength(v, field, s, max)
	return s
}

// MaxLength checks s is at most max characters
func MaxLength(v *model.ValidationError, field, s string, max int) {
	if utf8.RuneCountInString(s) > max {
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// HTTPURL checks s is an absolute http or https URL
func HTTPURL(v *model.ValidationError, field, s string) {
	if !isHTTPURL(s) {
		v.Add(field, "must be an absolute http(s) URL")
	}
}

// URLs checks every entry with HTTPURL and caps the list length
func URLs(v *model.ValidationError, field string, urls []string, max int) {
	if len(urls) > max {
		v.Add(field, fmt.Sprintf("must contain at most %d entries", max))
		return
	}
	for i, u := range urls {
		if !isHTTPURL(u) {
			v.Add(fmt.Sprintf("%s[%d]", field, i), "must be an absolute http(s) URL")
		}
	}
}

func isHTTPURL(s string) bool {
	if s == "" || len(s) > URLMaxLength {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Commanders trims each card name and checks there are one or two non-empty names
func Commanders(v *model.ValidationError, field string, commanders []string) []string {
	out := make([]string, 0, len(commanders))
	for i, c := range commanders {
		c = strings.TrimSpace(c)
		if c == "" {
			v.Add(fmt.Sprintf("%s[%d]", field, i), "must not be empty")
			continue
		}
		MaxLength(v, fmt.Sprintf("%s[%d]", field, i), c, NameMaxLength*2)
		out = append(out, c)
	}
	if len(commanders) == 0 {
		v.Add(field, "at least one commander is required")
	} else if len(commanders) > model.MaxCommanders {
		v.Add(field, fmt.Sprintf("at most %d commanders are allowed", model.MaxCommanders))
	}
	return out
}
