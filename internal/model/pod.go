package model

import (
	"slices"
	"strings"
	"time"
)

// PodID uniquely identifies a pod
type PodID string

// PodNameScope decides how widely pod names must be unique
type PodNameScope string

const (
	PodNameScopeGlobal PodNameScope = "global" // No two pods share a name
	PodNameScopeOwner  PodNameScope = "owner"  // Names are unique per owner
)

// Pod is a recurring group of players who play games together
type Pod struct {
	ID        PodID
	OwnerID   UserID
	Name      string
	NameKey   string   // uniqueness key, see PodNameKey
	MemberIDs []UserID // always contains OwnerID
	DeckIDs   []DeckID // registered decks, not exclusive to this pod
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PodNameKey derives the unique key stored for a pod name under the given scope
func PodNameKey(scope PodNameScope, owner UserID, name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if scope == PodNameScopeOwner {
		return string(owner) + "/" + key
	}
	return key
}

// IsOwner returns true if the user owns the pod
func (p *Pod) IsOwner(userID UserID) bool {
	return p.OwnerID == userID
}

// HasMember returns true if the user is the owner or a member
func (p *Pod) HasMember(userID UserID) bool {
	return p.IsOwner(userID) || slices.Contains(p.MemberIDs, userID)
}

// SetMembers replaces the member set, re-adding the owner and dropping duplicates
func (p *Pod) SetMembers(ids []UserID) {
	p.MemberIDs = UniqueUserIDs(append([]UserID{p.OwnerID}, ids...))
}

// SetDecks replaces the deck set, dropping duplicates
func (p *Pod) SetDecks(ids []DeckID) {
	p.DeckIDs = UniqueDeckIDs(ids)
}

// Clone returns a deep copy of the pod
func (p *Pod) Clone() *Pod {
	c := *p
	c.MemberIDs = slices.Clone(p.MemberIDs)
	c.DeckIDs = slices.Clone(p.DeckIDs)
	return &c
}

// UniqueUserIDs returns ids with duplicates removed, preserving first-seen order
func UniqueUserIDs(ids []UserID) []UserID {
	return unique(ids)
}

// UniqueDeckIDs returns ids with duplicates removed, preserving first-seen order
func UniqueDeckIDs(ids []DeckID) []DeckID {
	return unique(ids)
}

func unique[T comparable](ids []T) []T {
	seen := make(map[T]struct{}, len(ids))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
