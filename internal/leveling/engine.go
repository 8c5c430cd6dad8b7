package leveling

import "log/slog"

// Fixed caps for the dungeon progressions. Catacombs stops at 100, the five
// player classes share the first 50 entries of the same table.
const (
	DungeonMaxLevel = 100
	ClassMaxLevel   = 50
)

// AverageSkills lists the skills that count towards the skill average,
// in display order.
var AverageSkills = []string{
	"farming", "mining", "combat", "foraging", "fishing",
	"enchanting", "alchemy", "taming", "carpentry",
}

// ClassNames lists the five dungeon classes that make up the class average.
var ClassNames = []string{"healer", "mage", "berserk", "archer", "tank"}

// MemberContext carries the per-player fields that adjust skill level caps.
// A nil context means "no member data", which leaves every cap at its base.
type MemberContext struct {
	// Number of distinct pet types sacrificed; every one up to 10 raises
	// the Taming cap by one level beyond 50.
	PetTypesSacrificed int
	// Jacob's contest perk bonus added to the Farming base cap of 50.
	FarmingLevelCapBonus int
}

// EffectiveMaxLevel returns the dynamically adjusted level cap for a skill:
// the configured base cap (default 50), plus Taming pet-sacrifice bonuses
// (capped at +10) or the Farming contest perk bonus.
func (d *Data) EffectiveMaxLevel(skill string, ctx *MemberContext) int {
	maxLevel, ok := d.LevelCaps[skill]
	if !ok {
		maxLevel = DefaultSkillCap
	}
	if ctx == nil {
		return maxLevel
	}
	switch skill {
	case "taming":
		maxLevel = DefaultSkillCap + min(ctx.PetTypesSacrificed, 10)
	case "farming":
		// The perk bonus is bounded by the game, not clamped here.
		maxLevel = DefaultSkillCap + ctx.FarmingLevelCapBonus
	}
	return maxLevel
}

// SkillLevel converts cumulative skill XP into a fractional level in
// [0, effective cap]. XP at or past the full requirement returns the highest
// reachable level exactly: the cap, or the table length when the table is
// shorter than the cap. Anything below interpolates within the current level.
func (d *Data) SkillLevel(skill string, xp float64, ctx *MemberContext) float64 {
	if len(d.XPTable) == 0 {
		return 0
	}
	maxLevel := d.EffectiveMaxLevel(skill, ctx)
	if xp >= d.XPTable.Sum(maxLevel) {
		return float64(min(maxLevel, len(d.XPTable)))
	}
	return walkDeltas(d.XPTable, xp, maxLevel)
}

// SkillAverage returns the arithmetic mean of the standard skill levels.
// xpBySkill maps skill name to cumulative XP; skills the API omitted count
// as level 0.
func (d *Data) SkillAverage(xpBySkill map[string]float64, ctx *MemberContext) float64 {
	var total float64
	for _, skill := range AverageSkills {
		total += d.SkillLevel(skill, xpBySkill[skill], ctx)
	}
	return total / float64(len(AverageSkills))
}

// DungeonLevel converts Catacombs XP into a fractional level capped at 100.
func (d *Data) DungeonLevel(xp float64) float64 {
	if len(d.CatacombsXP) == 0 {
		return 0
	}
	if xp >= d.CatacombsXP.Sum(DungeonMaxLevel) {
		return float64(min(DungeonMaxLevel, len(d.CatacombsXP)))
	}
	return walkDeltas(d.CatacombsXP, xp, DungeonMaxLevel)
}

// ClassLevel converts dungeon class XP into a fractional level. Classes use
// the first 50 entries of the Catacombs table and cap at 50.
func (d *Data) ClassLevel(xp float64) float64 {
	if len(d.CatacombsXP) == 0 {
		return 0
	}
	if xp >= d.CatacombsXP.Sum(ClassMaxLevel) {
		return float64(min(ClassMaxLevel, len(d.CatacombsXP)))
	}
	return walkDeltas(d.CatacombsXP, xp, ClassMaxLevel)
}

// ClassAverage returns the mean of the five class levels.
// xpByClass maps class name to cumulative XP; missing classes count as 0.
func (d *Data) ClassAverage(xpByClass map[string]float64) float64 {
	var total float64
	for _, class := range ClassNames {
		total += d.ClassLevel(xpByClass[class])
	}
	return total / float64(len(ClassNames))
}

// HotmLevel converts Heart of the Mountain XP into a fractional level.
// The max level is the bracket table's length.
func (d *Data) HotmLevel(xp float64) float64 {
	if len(d.HotmBrackets) == 0 {
		return 0
	}
	maxLevel := len(d.HotmBrackets)
	if xp >= d.HotmBrackets.Sum(maxLevel) {
		return float64(maxLevel)
	}
	return walkDeltas(d.HotmBrackets, xp, maxLevel)
}

// SlayerLevel returns the integer slayer level for a boss: the number of
// cumulative thresholds the XP meets. Slayer levels are milestones, never
// fractional, and never extrapolate past the table.
func (d *Data) SlayerLevel(boss string, xp float64) int {
	thresholds, ok := d.SlayerXP[boss]
	if !ok {
		return 0
	}
	level := 0
	for _, threshold := range thresholds {
		if xp < threshold {
			break
		}
		level++
	}
	return level
}

// XPForTargetLevel returns the cumulative Catacombs XP required to fully
// complete the 1-based target level. Targets beyond the table degrade to the
// whole-table total with a warning instead of failing.
func (d *Data) XPForTargetLevel(target int) float64 {
	if len(d.CatacombsXP) == 0 {
		slog.Warn("catacombs table empty, cannot compute target level XP", "target", target)
		return 0
	}
	if target <= 0 {
		return 0
	}
	if target > len(d.CatacombsXP) {
		slog.Warn("target level exceeds catacombs table, using max level XP",
			"target", target, "table_levels", len(d.CatacombsXP))
	}
	return d.CatacombsXP.Sum(target)
}

// walkDeltas accumulates the delta table until xp no longer covers the next
// level, then interpolates within it. A zero-cost step returns the integer
// level without interpolating. The result is clamped to [0, maxLevel].
func walkDeltas(table DeltaTable, xp float64, maxLevel int) float64 {
	var completed float64
	level := 0
	for i, step := range table {
		if i >= maxLevel {
			break
		}
		before := completed
		completed += step
		if xp >= completed {
			level++
			continue
		}
		if step <= 0 {
			return clampLevel(float64(level), maxLevel)
		}
		progress := (xp - before) / step
		return clampLevel(float64(level)+progress, maxLevel)
	}
	return clampLevel(float64(level), maxLevel)
}

func clampLevel(level float64, maxLevel int) float64 {
	return min(max(level, 0), float64(maxLevel))
}
