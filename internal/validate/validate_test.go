package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/podtracker/internal/model"
)

func fields(v *model.ValidationError) []string {
	out := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		out[i] = f.Field
	}
	return out
}

func TestEmail(t *testing.T) {
	v := &model.ValidationError{}
	assert.Equal(t, "alice@example.com", Email(v, "email", "  Alice@Example.COM "))
	assert.NoError(t, v.Err())

	for _, bad := range []string{"", "alice", "alice@", "@example.com", "Alice <alice@example.com>", "alice@localhost"} {
		v := &model.ValidationError{}
		Email(v, "email", bad)
		assert.ErrorIs(t, v.Err(), model.ErrValidation, bad)
	}
}

func TestUsername(t *testing.T) {
	for _, good := range []string{"bob", "alice_99", "j.doe-x", strings.Repeat("a", 32)} {
		v := &model.ValidationError{}
		Username(v, "username", good)
		assert.NoError(t, v.Err(), good)
	}
	for _, bad := range []string{"", "ab", strings.Repeat("a", 33), "has space", "emoji🙂"} {
		v := &model.ValidationError{}
		Username(v, "username", bad)
		assert.Equal(t, []string{"username"}, fields(v), bad)
	}
}

func TestPassword(t *testing.T) {
	v := &model.ValidationError{}
	Password(v, "password", "12345")
	assert.Equal(t, []string{"password"}, fields(v))

	v = &model.ValidationError{}
	Password(v, "password", "123456")
	assert.NoError(t, v.Err())
}

func TestRequired(t *testing.T) {
	v := &model.ValidationError{}
	assert.Equal(t, "Thursday", Required(v, "name", "  Thursday ", NameMaxLength))
	Required(v, "blank", "   ", NameMaxLength)
	Required(v, "long", strings.Repeat("x", NameMaxLength+1), NameMaxLength)
	assert.Equal(t, []string{"blank", "long"}, fields(v))
}

func TestURLs(t *testing.T) {
	v := &model.ValidationError{}
	URLs(v, "links", []string{"https://moxfield.com/decks/1", "ftp://x.org", "/relative", "http://ok.example"}, MaxLinks)
	assert.Equal(t, []string{"links[1]", "links[2]"}, fields(v))

	v = &model.ValidationError{}
	URLs(v, "links", make([]string, MaxLinks+1), MaxLinks)
	assert.Equal(t, []string{"links"}, fields(v))

	v = &model.ValidationError{}
	HTTPURL(v, "avatarUrl", "https://cdn.example.com/a.png")
	assert.NoError(t, v.Err())
}

func TestCommanders(t *testing.T) {
	v := &model.ValidationError{}
	got := Commanders(v, "commanders", []string{" Thrasios, Triton Hero ", "Tymna the Weaver"})
	assert.NoError(t, v.Err())
	assert.Equal(t, []string{"Thrasios, Triton Hero", "Tymna the Weaver"}, got)

	v = &model.ValidationError{}
	Commanders(v, "commanders", nil)
	assert.Equal(t, []string{"commanders"}, fields(v))

	v = &model.ValidationError{}
	Commanders(v, "commanders", []string{"a", "b", "c"})
	assert.Equal(t, []string{"commanders"}, fields(v))

	v = &model.ValidationError{}
	Commanders(v, "commanders", []string{"  "})
	assert.Equal(t, []string{"commanders[0]"}, fields(v))
}
