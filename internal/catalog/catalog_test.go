package catalog

import (
	"context"
	"strings"
	"testing"

	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/testutil"
)

const smallCatalog = `
games:
  - slug: bo1
    name: Black Ops
    maps:
      - slug: kino
        name: Kino der Toten
        round_cap: 100
        easter_eggs:
          - slug: kino-115
            name: "115"
            type: MUSICAL
achievements:
  - slug: kino-50
    map: kino
    name: Round 50
    type: ROUND_MILESTONE
    xp_reward: 400
    criteria:
      round: 50
  - slug: kino-song
    map: kino
    name: "115"
    type: EASTER_EGG_COMPLETE
    xp_reward: 150
    criteria:
      easter_egg: kino-115
`

func TestLoad_DefaultCatalogIsValid(t *testing.T) {
	f, err := Load("")
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if len(f.Games) == 0 || len(f.Achievements) == 0 {
		t.Fatalf("default catalog is empty: %d games, %d achievements", len(f.Games), len(f.Achievements))
	}
}

func TestParse_RejectsDuplicateKey(t *testing.T) {
	doc := smallCatalog + `
  - slug: kino-50-again
    map: kino
    name: Round 50
    type: ROUND_MILESTONE
    xp_reward: 400
    criteria:
      round: 60
`
	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "same map, name and type") {
		t.Fatalf("Parse() error = %v, want duplicate key error", err)
	}
}

func TestParse_SameNameOnDifferentMapsIsFine(t *testing.T) {
	doc := strings.Replace(smallCatalog, "achievements:", `  - slug: bo1b
    name: Black Ops Extra
    maps:
      - slug: five
        name: Five
achievements:
  - slug: five-50
    map: five
    name: Round 50
    type: ROUND_MILESTONE
    xp_reward: 400
    criteria:
      round: 50`, 1)
	if _, err := Parse([]byte(doc)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown map",
			doc:  "achievements:\n  - {slug: a, map: nowhere, name: A, type: ROUND_MILESTONE, criteria: {round: 5}}\n",
			want: "unknown map",
		},
		{
			name: "milestone without round",
			doc:  "achievements:\n  - {slug: a, name: A, type: ROUND_MILESTONE}\n",
			want: "needs a round",
		},
		{
			name: "bad challenge type",
			doc:  "achievements:\n  - {slug: a, name: A, type: CHALLENGE_COMPLETE, criteria: {challenge_type: UPSIDE_DOWN}}\n",
			want: "unknown challenge type",
		},
		{
			name: "unknown easter egg",
			doc:  "achievements:\n  - {slug: a, name: A, type: EASTER_EGG_COMPLETE, criteria: {easter_egg: nope}}\n",
			want: "unknown easter egg",
		},
		{
			name: "unknown achievement type",
			doc:  "achievements:\n  - {slug: a, name: A, type: LEVEL_UP}\n",
			want: "unknown type",
		},
		{
			name: "bad egg type",
			doc:  "games:\n  - {slug: g, name: G, maps: [{slug: m, name: M, easter_eggs: [{slug: e, name: E, type: SECRET}]}]}\n",
			want: "unknown type",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Parse() error = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestSync_ResolvesIDsAndIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	f, err := Parse([]byte(smallCatalog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	first, err := Sync(context.Background(), db, f)
	if err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	second, err := Sync(context.Background(), db, f)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	var count int64
	db.Model(&models.Achievement{}).Count(&count)
	if count != 2 {
		t.Fatalf("achievement rows = %d, want 2", count)
	}

	kino, ok := second.Map("kino")
	if !ok || kino.ID == 0 || kino.RoundCap != 100 {
		t.Fatalf("Map(kino) = %+v, %v", kino, ok)
	}
	defs := second.Achievements()
	if len(defs) != 2 {
		t.Fatalf("definitions = %d, want 2", len(defs))
	}
	for i, d := range defs {
		if d.ID == 0 || d.ID != first.Achievements()[i].ID {
			t.Errorf("definition %s id unstable: %d vs %d", d.Slug, d.ID, first.Achievements()[i].ID)
		}
		if d.MapID != kino.ID {
			t.Errorf("definition %s MapID = %d, want %d", d.Slug, d.MapID, kino.ID)
		}
	}
	if defs[1].EasterEggID == 0 {
		t.Error("easter egg achievement should resolve its egg id")
	}
}

func TestSync_DeactivatesRemovedAchievements(t *testing.T) {
	db := testutil.NewDB(t)
	f, _ := Parse([]byte(smallCatalog))
	if _, err := Sync(context.Background(), db, f); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	f.Achievements = f.Achievements[:1]
	cat, err := Sync(context.Background(), db, f)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if n := len(cat.Achievements()); n != 1 {
		t.Fatalf("active definitions = %d, want 1", n)
	}

	var removed models.Achievement
	if err := db.Where("slug = ?", "kino-song").First(&removed).Error; err != nil {
		t.Fatalf("removed achievement row should remain: %v", err)
	}
	if removed.IsActive {
		t.Error("removed achievement should be inactive")
	}
}

func TestSync_StoredKeyCollisionFails(t *testing.T) {
	db := testutil.NewDB(t)
	f, _ := Parse([]byte(smallCatalog))
	if _, err := Sync(context.Background(), db, f); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	// Same (map, name, type) as kino-50 under a new slug.
	f.Achievements[0].Slug = "kino-50-renamed"
	if _, err := Sync(context.Background(), db, f); err == nil {
		t.Fatal("Sync should reject a definition colliding with a stored key")
	}
}
