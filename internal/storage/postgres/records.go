package postgres

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/mcoot/podtracker/internal/model"
)

// Timestamps are set by the services from their clock, so gorm's
// automatic create/update time tracking is switched off on every record.

type userRecord struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	Username     string    `gorm:"size:32;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	DisplayName  *string   `gorm:"size:100"`
	Bio          *string   `gorm:"size:255"`
	AvatarURL    *string   `gorm:"size:2048"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (userRecord) TableName() string { return "users" }

type deckRecord struct {
	ID          string         `gorm:"primaryKey;size:36"`
	OwnerID     string         `gorm:"size:36;index;not null"`
	Name        string         `gorm:"size:100;not null"`
	Commanders  datatypes.JSON `gorm:"not null"`
	Description *string
	Links       datatypes.JSON
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (deckRecord) TableName() string { return "decks" }

type podRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	OwnerID   string    `gorm:"size:36;index;not null"`
	Name      string    `gorm:"size:100;not null"`
	NameKey   string    `gorm:"size:160;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (podRecord) TableName() string { return "pods" }

type podMemberRecord struct {
	PodID    string `gorm:"primaryKey;size:36"`
	UserID   string `gorm:"primaryKey;size:36;index"`
	Position int    `gorm:"not null"`
}

func (podMemberRecord) TableName() string { return "pod_members" }

type podDeckRecord struct {
	PodID    string `gorm:"primaryKey;size:36"`
	DeckID   string `gorm:"primaryKey;size:36;index"`
	Position int    `gorm:"not null"`
}

func (podDeckRecord) TableName() string { return "pod_decks" }

type gameRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	PodID     string    `gorm:"size:36;index;not null"`
	StartTime time.Time `gorm:"not null;index"`
	EndTime   *time.Time
	WinnerID  *string   `gorm:"size:36"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (gameRecord) TableName() string { return "games" }

type gamePlayerRecord struct {
	GameID   string `gorm:"primaryKey;size:36"`
	UserID   string `gorm:"primaryKey;size:36;index"`
	Position int    `gorm:"not null"`
}

func (gamePlayerRecord) TableName() string { return "game_players" }

// allRecords lists every table, in creation order
func allRecords() []any {
	return []any{
		&userRecord{},
		&deckRecord{},
		&podRecord{},
		&podMemberRecord{},
		&podDeckRecord{},
		&gameRecord{},
		&gamePlayerRecord{},
	}
}

// Conversions

func userToRecord(u *model.User) *userRecord {
	return &userRecord{
		ID:           string(u.ID),
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		Bio:          u.Bio,
		AvatarURL:    u.AvatarURL,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *userRecord) toModel() *model.User {
	return &model.User{
		ID:           model.UserID(r.ID),
		Email:        r.Email,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		DisplayName:  r.DisplayName,
		Bio:          r.Bio,
		AvatarURL:    r.AvatarURL,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func deckToRecord(d *model.Deck) (*deckRecord, error) {
	commanders, err := encodeStrings(d.Commanders)
	if err != nil {
		return nil, err
	}
	links, err := encodeStrings(d.Links)
	if err != nil {
		return nil, err
	}
	return &deckRecord{
		ID:          string(d.ID),
		OwnerID:     string(d.OwnerID),
		Name:        d.Name,
		Commanders:  commanders,
		Description: d.Description,
		Links:       links,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (r *deckRecord) toModel() (*model.Deck, error) {
	commanders, err := decodeStrings(r.Commanders)
	if err != nil {
		return nil, err
	}
	links, err := decodeStrings(r.Links)
	if err != nil {
		return nil, err
	}
	return &model.Deck{
		ID:          model.DeckID(r.ID),
		OwnerID:     model.UserID(r.OwnerID),
		Name:        r.Name,
		Commanders:  commanders,
		Description: r.Description,
		Links:       links,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func podToRecord(p *model.Pod) *podRecord {
	return &podRecord{
		ID:        string(p.ID),
		OwnerID:   string(p.OwnerID),
		Name:      p.Name,
		NameKey:   p.NameKey,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *podRecord) toModel(members []model.UserID, decks []model.DeckID) *model.Pod {
	return &model.Pod{
		ID:        model.PodID(r.ID),
		OwnerID:   model.UserID(r.OwnerID),
		Name:      r.Name,
		NameKey:   r.NameKey,
		MemberIDs: members,
		DeckIDs:   decks,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func gameToRecord(g *model.Game) *gameRecord {
	rec := &gameRecord{
		ID:        string(g.ID),
		PodID:     string(g.PodID),
		StartTime: g.StartTime,
		EndTime:   g.EndTime,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if g.WinnerID != nil {
		w := string(*g.WinnerID)
		rec.WinnerID = &w
	}
	return rec
}

func (r *gameRecord) toModel(players []model.UserID) *model.Game {
	g := &model.Game{
		ID:        model.GameID(r.ID),
		PodID:     model.PodID(r.PodID),
		PlayerIDs: players,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.WinnerID != nil {
		w := model.UserID(*r.WinnerID)
		g.WinnerID = &w
	}
	return g
}

func encodeStrings(values []string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func decodeStrings(data datatypes.JSON) ([]string, error) {
	values := []string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func memberRecords(podID model.PodID, ids []model.UserID, offset int) []podMemberRecord {
	recs := make([]podMemberRecord, len(ids))
	for i, id := range ids {
		recs[i] = podMemberRecord{PodID: string(podID), UserID: string(id), Position: offset + i}
	}
	return recs
}

func podDeckRecords(podID model.PodID, ids []model.DeckID, offset int) []podDeckRecord {
	recs := make([]podDeckRecord, len(ids))
	for i, id := range ids {
		recs[i] = podDeckRecord{PodID: string(podID), DeckID: string(id), Position: offset + i}
	}
	return recs
}

func playerRecords(gameID model.GameID, ids []model.UserID, offset int) []gamePlayerRecord {
	recs := make([]gamePlayerRecord, len(ids))
	for i, id := range ids {
		recs[i] = gamePlayerRecord{GameID: string(gameID), UserID: string(id), Position: offset + i}
	}
	return recs
}
