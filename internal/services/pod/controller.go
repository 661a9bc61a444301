package pod

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/mcoot/podtracker/internal/dependencies/clock"
	"github.com/mcoot/podtracker/internal/dependencies/ids"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/storage"
	"github.com/mcoot/podtracker/internal/validate"
)

// Config holds pod policy settings
type Config struct {
	NameScope model.PodNameScope
}

// DefaultConfig returns default pod configuration
func DefaultConfig() Config {
	return Config{NameScope: model.PodNameScopeGlobal}
}

// Input is the data for a new pod
type Input struct {
	Name      string
	MemberIDs []model.UserID
	DeckIDs   []model.DeckID
}

// Update carries the pod fields to change. Nil fields are left alone; member
// and deck sets are replaced wholesale when provided.
type Update struct {
	Name      *string
	MemberIDs []model.UserID
	DeckIDs   []model.DeckID
}

// Controller manages pods and their membership.
// Members can see a pod; only its owner can change or delete it.
type Controller struct {
	storage   storage.Storage
	clock     clock.Clock
	ids       ids.Generator
	nameScope model.PodNameScope
	logger    *slog.Logger
}

// NewController creates a new pod controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	ids ids.Generator,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.NameScope == "" {
		cfg.NameScope = DefaultConfig().NameScope
	}
	return &Controller{
		storage:   storage,
		clock:     clock,
		ids:       ids,
		nameScope: cfg.NameScope,
		logger:    logger,
	}
}

// Create makes a new pod owned by the caller. The caller is always a member.
func (c *Controller) Create(ctx context.Context, id model.Identity, in Input) (*model.Pod, error) {
	verr := &model.ValidationError{}
	name := validate.Required(verr, "name", in.Name, validate.NameMaxLength)
	if err := c.checkMembers(ctx, verr, in.MemberIDs); err != nil {
		return nil, err
	}
	owners, err := c.deckOwners(ctx, in.DeckIDs)
	if err != nil {
		return nil, err
	}
	members := append([]model.UserID{id.UserID}, in.MemberIDs...)
	checkDecks(verr, in.DeckIDs, owners, members)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	pod := &model.Pod{
		ID:        model.PodID(c.ids.NewID()),
		OwnerID:   id.UserID,
		Name:      name,
		NameKey:   model.PodNameKey(c.nameScope, id.UserID, name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	pod.SetMembers(in.MemberIDs)
	pod.SetDecks(in.DeckIDs)

	if err := c.storage.InsertPod(ctx, pod); err != nil {
		return nil, err
	}

	c.logger.Info("pod created",
		slog.String("pod_id", string(pod.ID)),
		slog.String("owner_id", string(pod.OwnerID)),
		slog.Int("member_count", len(pod.MemberIDs)),
	)
	return pod, nil
}

// List returns every pod the caller owns or belongs to
func (c *Controller) List(ctx context.Context, id model.Identity) ([]*model.Pod, error) {
	return c.storage.FindPods(ctx, storage.PodFilter{MemberID: id.UserID})
}

// Get returns a pod the caller can see
func (c *Controller) Get(ctx context.Context, id model.Identity, podID model.PodID) (*model.Pod, error) {
	pod, err := c.storage.GetPod(ctx, podID)
	if err != nil {
		return nil, err
	}
	if !pod.HasMember(id.UserID) {
		return nil, model.ErrPodNotFound
	}
	return pod, nil
}

// Update changes a pod the caller owns. The owner stays a member whatever
// member set is supplied.
//
// Decks must belong to members of the resulting pod. Replacing the members
// without supplying decks drops the decks of anyone who left.
func (c *Controller) Update(ctx context.Context, id model.Identity, podID model.PodID, upd Update) (*model.Pod, error) {
	verr := &model.ValidationError{}
	var name string
	if upd.Name != nil {
		name = validate.Required(verr, "name", *upd.Name, validate.NameMaxLength)
	}
	if err := c.checkMembers(ctx, verr, upd.MemberIDs); err != nil {
		return nil, err
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	// Deck owners never change, so they can be resolved before the atomic update
	var owners map[model.DeckID]model.UserID
	switch {
	case upd.DeckIDs != nil:
		var err error
		if owners, err = c.deckOwners(ctx, upd.DeckIDs); err != nil {
			return nil, err
		}
	case upd.MemberIDs != nil:
		current, err := c.storage.GetPod(ctx, podID)
		if err != nil {
			return nil, err
		}
		if owners, err = c.deckOwners(ctx, current.DeckIDs); err != nil {
			return nil, err
		}
	}

	pod, err := c.storage.UpdatePod(ctx, podID, func(p *model.Pod) error {
		if err := authorizeOwner(p, id); err != nil {
			return err
		}
		if upd.Name != nil {
			p.Name = name
			p.NameKey = model.PodNameKey(c.nameScope, p.OwnerID, name)
		}
		if upd.MemberIDs != nil {
			p.SetMembers(upd.MemberIDs)
		}
		switch {
		case upd.DeckIDs != nil:
			deckErr := &model.ValidationError{}
			checkDecks(deckErr, upd.DeckIDs, owners, p.MemberIDs)
			if err := deckErr.Err(); err != nil {
				return err
			}
			p.SetDecks(upd.DeckIDs)
		case upd.MemberIDs != nil:
			p.DeckIDs = slices.DeleteFunc(p.DeckIDs, func(d model.DeckID) bool {
				owner, ok := owners[d]
				return !ok || !slices.Contains(p.MemberIDs, owner)
			})
		}
		p.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("pod updated",
		slog.String("pod_id", string(pod.ID)),
		slog.Int("member_count", len(pod.MemberIDs)),
	)
	return pod, nil
}

// Delete removes a pod the caller owns, along with every game recorded in it
func (c *Controller) Delete(ctx context.Context, id model.Identity, podID model.PodID) error {
	pod, err := c.storage.GetPod(ctx, podID)
	if err != nil {
		return err
	}
	if err := authorizeOwner(pod, id); err != nil {
		return err
	}
	if err := c.storage.DeletePod(ctx, podID); err != nil {
		return err
	}

	c.logger.Info("pod deleted", slog.String("pod_id", string(podID)))
	return nil
}

// AddMembers adds users to a pod the caller owns, keeping existing members
func (c *Controller) AddMembers(ctx context.Context, id model.Identity, podID model.PodID, memberIDs []model.UserID) (*model.Pod, error) {
	verr := &model.ValidationError{}
	if len(memberIDs) == 0 {
		verr.Add("memberIds", "at least one member is required")
	}
	if err := c.checkMembers(ctx, verr, memberIDs); err != nil {
		return nil, err
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	pod, err := c.storage.GetPod(ctx, podID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(pod, id); err != nil {
		return nil, err
	}

	related := make([]string, len(memberIDs))
	for i, m := range memberIDs {
		related[i] = string(m)
	}
	if err := c.storage.Connect(ctx, storage.RelationPodMembers, string(podID), related); err != nil {
		return nil, err
	}

	c.logger.Info("pod members added",
		slog.String("pod_id", string(podID)),
		slog.Int("added", len(memberIDs)),
	)
	return c.storage.GetPod(ctx, podID)
}

// authorizeOwner hides the pod from outsiders and forbids members who are not the owner
func authorizeOwner(p *model.Pod, id model.Identity) error {
	if !p.HasMember(id.UserID) {
		return model.ErrPodNotFound
	}
	if !p.IsOwner(id.UserID) {
		return model.ErrNotPodOwner
	}
	return nil
}

// checkMembers records unknown member ids as a validation problem
func (c *Controller) checkMembers(ctx context.Context, verr *model.ValidationError, memberIDs []model.UserID) error {
	if len(memberIDs) == 0 {
		return nil
	}
	missing, err := c.storage.MissingUsers(ctx, memberIDs)
	if err != nil {
		return fmt.Errorf("check members: %w", err)
	}
	if len(missing) > 0 {
		verr.Add("memberIds", "unknown users: "+joinIDs(missing))
	}
	return nil
}

// deckOwners maps each stored deck among deckIDs to its owner
func (c *Controller) deckOwners(ctx context.Context, deckIDs []model.DeckID) (map[model.DeckID]model.UserID, error) {
	owners := map[model.DeckID]model.UserID{}
	if len(deckIDs) == 0 {
		return owners, nil
	}
	decks, err := c.storage.FindDecks(ctx, storage.DeckFilter{IDs: model.UniqueDeckIDs(deckIDs)})
	if err != nil {
		return nil, fmt.Errorf("check decks: %w", err)
	}
	for _, d := range decks {
		owners[d.ID] = d.OwnerID
	}
	return owners, nil
}

// checkDecks records decks that are missing or not owned by one of members.
// Both cases read the same so a private deck cannot be told apart from no deck.
func checkDecks(verr *model.ValidationError, deckIDs []model.DeckID, owners map[model.DeckID]model.UserID, members []model.UserID) {
	var unknown []model.DeckID
	for _, d := range model.UniqueDeckIDs(deckIDs) {
		owner, ok := owners[d]
		if !ok || !slices.Contains(members, owner) {
			unknown = append(unknown, d)
		}
	}
	if len(unknown) > 0 {
		verr.Add("deckIds", "unknown decks: "+joinIDs(unknown))
	}
}

func joinIDs[T ~string](ids []T) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
