package catalog

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roundtracker/backend/internal/models"
)

// Definition is an achievement resolved against stored ids.
type Definition struct {
	ID          uint
	Slug        string
	Name        string
	Description string
	Type        models.AchievementType
	MapSlug     string
	MapID       uint // 0 means any map
	EasterEggID uint
	XPReward    int
	Criteria    models.AchievementCriteria
}

// MapRef is a stored map.
type MapRef struct {
	ID       uint
	Slug     string
	Name     string
	GameSlug string
	RoundCap int
}

// Catalog is the synced, read-only view handed to services.
type Catalog struct {
	achievements []Definition
	maps         []MapRef
	mapsBySlug   map[string]MapRef
}

// Achievements returns the active definitions.
func (c *Catalog) Achievements() []Definition {
	out := make([]Definition, len(c.achievements))
	copy(out, c.achievements)
	return out
}

// Maps returns every map in catalog order.
func (c *Catalog) Maps() []MapRef {
	out := make([]MapRef, len(c.maps))
	copy(out, c.maps)
	return out
}

// Map looks a map up by slug.
func (c *Catalog) Map(slug string) (MapRef, bool) {
	m, ok := c.mapsBySlug[slug]
	return m, ok
}

// New builds a Catalog from already-resolved parts. Sync is the usual way in.
func New(maps []MapRef, defs []Definition) *Catalog {
	c := &Catalog{
		achievements: append([]Definition(nil), defs...),
		maps:         append([]MapRef(nil), maps...),
		mapsBySlug:   make(map[string]MapRef, len(maps)),
	}
	for _, m := range c.maps {
		c.mapsBySlug[m.Slug] = m
	}
	return c
}

// Sync upserts f into the database in one transaction and returns the
// resolved catalog. Achievements missing from f are deactivated, never
// deleted, so existing unlocks keep their reference.
func Sync(ctx context.Context, db *gorm.DB, f *File) (*Catalog, error) {
	var cat *Catalog
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maps []MapRef
		mapIDs := map[string]uint{}
		eggIDs := map[string]uint{}

		for i, g := range f.Games {
			game, err := upsertBySlug(tx, models.Game{Slug: g.Slug, Name: g.Name, SortOrder: i}, g.Slug, "name", "sort_order")
			if err != nil {
				return fmt.Errorf("upsert game %s: %w", g.Slug, err)
			}

			for _, m := range g.Maps {
				row, err := upsertBySlug(tx, models.Map{GameID: game.ID, Slug: m.Slug, Name: m.Name, RoundCap: m.RoundCap}, m.Slug, "game_id", "name", "round_cap")
				if err != nil {
					return fmt.Errorf("upsert map %s: %w", m.Slug, err)
				}
				mapIDs[m.Slug] = row.ID
				maps = append(maps, MapRef{ID: row.ID, Slug: m.Slug, Name: m.Name, GameSlug: g.Slug, RoundCap: m.RoundCap})

				for _, e := range m.EasterEggs {
					egg, err := upsertBySlug(tx, models.EasterEgg{MapID: row.ID, Slug: e.Slug, Name: e.Name, Type: e.Type}, e.Slug, "map_id", "name", "type")
					if err != nil {
						return fmt.Errorf("upsert easter egg %s: %w", e.Slug, err)
					}
					eggIDs[e.Slug] = egg.ID
				}
			}
		}

		var defs []Definition
		slugs := make([]string, 0, len(f.Achievements))
		for _, a := range f.Achievements {
			// The (map_slug, name, type) unique index rejects a definition that
			// collides with a different stored slug.
			row, err := upsertBySlug(tx, models.Achievement{
				Slug:        a.Slug,
				MapSlug:     a.Map,
				Name:        a.Name,
				Type:        a.Type,
				Description: a.Description,
				XPReward:    a.XPReward,
				Criteria:    datatypes.NewJSONType(a.Criteria),
				IsActive:    !a.Inactive,
			}, a.Slug, "map_slug", "name", "type", "description", "xp_reward", "criteria", "is_active")
			if err != nil {
				return fmt.Errorf("upsert achievement %s: %w", a.Slug, err)
			}
			slugs = append(slugs, a.Slug)
			if !row.IsActive {
				continue
			}
			defs = append(defs, Definition{
				ID:          row.ID,
				Slug:        row.Slug,
				Name:        row.Name,
				Description: row.Description,
				Type:        row.Type,
				MapSlug:     a.Map,
				MapID:       mapIDs[a.Map],
				EasterEggID: eggIDs[a.Criteria.EasterEggSlug],
				XPReward:    row.XPReward,
				Criteria:    a.Criteria,
			})
		}

		stale := tx.Model(&models.Achievement{})
		if len(slugs) > 0 {
			stale = stale.Where("slug NOT IN ?", slugs)
		} else {
			stale = stale.Where("1 = 1")
		}
		if err := stale.Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate stale achievements: %w", err)
		}

		cat = New(maps, defs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// upsertBySlug inserts value or, when its slug exists, updates cols. It
// returns the stored row, since the driver's insert id is unreliable on conflict.
func upsertBySlug[T any](tx *gorm.DB, value T, slug string, cols ...string) (T, error) {
	var stored T
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns(append(cols, "updated_at")),
	}).Create(&value).Error
	if err != nil {
		return stored, err
	}
	err = tx.Where("slug = ?", slug).First(&stored).Error
	return stored, err
}
