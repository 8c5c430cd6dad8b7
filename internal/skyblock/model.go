package skyblock

import (
	"strings"

	"github.com/icefrost/icebot/internal/leveling"
)

// Profile is one SkyBlock profile as returned by the profiles endpoint.
// Only the fields the bot reads are modelled.
type Profile struct {
	ProfileID string            `json:"profile_id"`
	CuteName  string            `json:"cute_name"`
	Selected  bool              `json:"selected"`
	GameMode  string            `json:"game_mode"`
	Members   map[string]Member `json:"members"`
}

// Member is a player's slice of a profile, keyed by undashed UUID.
type Member struct {
	LastSave      int64         `json:"last_save"`
	PlayerData    PlayerData    `json:"player_data"`
	Leveling      Leveling      `json:"leveling"`
	MiningCore    MiningCore    `json:"mining_core"`
	Dungeons      Dungeons      `json:"dungeons"`
	Slayer        Slayer        `json:"slayer"`
	PetsData      PetsData      `json:"pets_data"`
	JacobsContest JacobsContest `json:"jacobs_contest"`
}

// PlayerData carries the per-skill XP counters ("SKILL_FARMING", ...).
type PlayerData struct {
	Experience map[string]float64 `json:"experience"`
}

// Leveling carries the SkyBlock level XP (level = XP / 100).
type Leveling struct {
	Experience float64 `json:"experience"`
}

// MiningCore carries Heart of the Mountain XP.
type MiningCore struct {
	Experience float64 `json:"experience"`
}

// Dungeons carries Catacombs and class progression.
type Dungeons struct {
	DungeonTypes         DungeonTypes          `json:"dungeon_types"`
	PlayerClasses        map[string]ClassStats `json:"player_classes"`
	SelectedDungeonClass string                `json:"selected_dungeon_class"`
}

// DungeonTypes holds per-dungeon progression; only Catacombs is read.
type DungeonTypes struct {
	Catacombs CatacombsStats `json:"catacombs"`
}

// CatacombsStats holds Catacombs XP.
type CatacombsStats struct {
	Experience float64 `json:"experience"`
}

// ClassStats holds one dungeon class's XP.
type ClassStats struct {
	Experience float64 `json:"experience"`
}

// Slayer carries per-boss slayer progress.
type Slayer struct {
	SlayerBosses map[string]SlayerBoss `json:"slayer_bosses"`
}

// SlayerBoss holds one boss's cumulative slayer XP.
type SlayerBoss struct {
	XP float64 `json:"xp"`
}

// PetsData carries pet care info; sacrificed pet types raise the Taming cap.
type PetsData struct {
	PetCare PetCare `json:"pet_care"`
}

// PetCare lists the distinct pet types sacrificed.
type PetCare struct {
	PetTypesSacrificed []string `json:"pet_types_sacrificed"`
}

// JacobsContest carries farming contest perks.
type JacobsContest struct {
	Perks JacobsPerks `json:"perks"`
}

// JacobsPerks holds the Farming level cap bonus.
type JacobsPerks struct {
	FarmingLevelCap int `json:"farming_level_cap"`
}

// SkillXP returns the cumulative XP for a skill name ("mining" ->
// experience["SKILL_MINING"]). Missing skills return 0.
func (m Member) SkillXP(skill string) float64 {
	return m.PlayerData.Experience["SKILL_"+strings.ToUpper(skill)]
}

// SkillXPBySkill returns XP for every standard skill, keyed by skill name.
func (m Member) SkillXPBySkill() map[string]float64 {
	out := make(map[string]float64, len(leveling.AverageSkills))
	for _, skill := range leveling.AverageSkills {
		out[skill] = m.SkillXP(skill)
	}
	return out
}

// ClassXPByClass returns XP for every dungeon class, keyed by class name.
func (m Member) ClassXPByClass() map[string]float64 {
	out := make(map[string]float64, len(leveling.ClassNames))
	for _, class := range leveling.ClassNames {
		out[class] = m.Dungeons.PlayerClasses[class].Experience
	}
	return out
}

// LevelingContext extracts the cap-adjusting fields for the leveling engine.
func (m Member) LevelingContext() *leveling.MemberContext {
	return &leveling.MemberContext{
		PetTypesSacrificed:   len(m.PetsData.PetCare.PetTypesSacrificed),
		FarmingLevelCapBonus: m.JacobsContest.Perks.FarmingLevelCap,
	}
}

// LatestProfile picks the profile to answer for: the API-flagged selected
// profile the player is a member of, otherwise the one with the member's
// newest last_save. Returns nil when the player is in none of them.
func LatestProfile(profiles []Profile, uuid string) *Profile {
	for i := range profiles {
		if profiles[i].Selected {
			if _, ok := profiles[i].Members[uuid]; ok {
				return &profiles[i]
			}
		}
	}

	var latest *Profile
	var latestSave int64 = -1
	for i := range profiles {
		member, ok := profiles[i].Members[uuid]
		if !ok {
			continue
		}
		if member.LastSave > latestSave {
			latestSave = member.LastSave
			latest = &profiles[i]
		}
	}
	return latest
}

// FindProfile returns the profile with the given cute name (case-insensitive)
// that the player is a member of, or nil.
func FindProfile(profiles []Profile, uuid, cuteName string) *Profile {
	for i := range profiles {
		if !strings.EqualFold(profiles[i].CuteName, cuteName) {
			continue
		}
		if _, ok := profiles[i].Members[uuid]; ok {
			return &profiles[i]
		}
	}
	return nil
}
