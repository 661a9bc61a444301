package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetMembersKeepsOwnerFirst(t *testing.T) {
	pod := &Pod{OwnerID: "owner"}
	pod.SetMembers([]UserID{"a", "owner", "b", "a"})

	assert.Equal(t, []UserID{"owner", "a", "b"}, pod.MemberIDs)
	assert.True(t, pod.HasMember("owner"))
	assert.True(t, pod.HasMember("b"))
	assert.False(t, pod.HasMember("c"))
}

func TestSetMembersEmptyLeavesOwner(t *testing.T) {
	pod := &Pod{OwnerID: "owner"}
	pod.SetMembers(nil)

	assert.Equal(t, []UserID{"owner"}, pod.MemberIDs)
}

func TestSetDecksDropsDuplicates(t *testing.T) {
	pod := &Pod{}
	pod.SetDecks([]DeckID{"d2", "d1", "d2"})

	assert.Equal(t, []DeckID{"d2", "d1"}, pod.DeckIDs)
}

func TestPodNameKey(t *testing.T) {
	tests := []struct {
		name  string
		scope PodNameScope
		input string
		want  string
	}{
		{"global folds case", PodNameScopeGlobal, "Friday Night", "friday night"},
		{"global trims", PodNameScopeGlobal, "  Friday  ", "friday"},
		{"owner prefixes owner id", PodNameScopeOwner, "Friday", "u1/friday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PodNameKey(tt.scope, "u1", tt.input))
		})
	}
}

func TestPodCloneIsDeep(t *testing.T) {
	pod := &Pod{OwnerID: "owner", DeckIDs: []DeckID{"d1"}}
	pod.SetMembers([]UserID{"a"})

	c := pod.Clone()
	c.MemberIDs[1] = "changed"
	c.DeckIDs[0] = "changed"

	assert.Equal(t, UserID("a"), pod.MemberIDs[1])
	assert.Equal(t, DeckID("d1"), pod.DeckIDs[0])
}
