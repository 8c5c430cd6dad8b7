package leveling

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// DeltaTable is an ordered list of per-level XP costs: entry i is the XP
// required to go from level i to level i+1 (index 0 = cost of level 1).
type DeltaTable []float64

// ThresholdTable is an ordered list of cumulative XP thresholds: entry i is
// the total XP required to reach level i+1 outright. Used only for slayers,
// whose requirements are authored as absolute milestones rather than deltas.
type ThresholdTable []float64

// Sum returns the total XP cost of the first n levels of the table.
// n larger than the table sums the whole table.
func (t DeltaTable) Sum(n int) float64 {
	if n > len(t) {
		n = len(t)
	}
	var total float64
	for i := 0; i < n; i++ {
		total += t[i]
	}
	return total
}

// DefaultSkillCap is the base max level for skills without an explicit cap.
const DefaultSkillCap = 50

// Data holds every XP table the bot needs. It is loaded once at startup and
// never mutated afterwards, so it is safe to share across goroutines.
type Data struct {
	XPTable      DeltaTable
	LevelCaps    map[string]int
	CatacombsXP  DeltaTable
	HotmBrackets DeltaTable
	SlayerXP     map[string]ThresholdTable
}

// levelingFile mirrors the layout of leveling.json.
type levelingFile struct {
	LevelingXP   []float64            `json:"leveling_xp"`
	LevelingCaps map[string]int       `json:"leveling_caps"`
	Catacombs    []float64            `json:"catacombs"`
	HOTM         []float64            `json:"HOTM"`
	SlayerXP     map[string][]float64 `json:"slayer_xp"`
}

// Empty returns a Data with all tables empty. Every calculation degrades to
// level 0 on empty tables, so a bot running on Empty still answers commands.
func Empty() *Data {
	return &Data{
		LevelCaps: map[string]int{},
		SlayerXP:  map[string]ThresholdTable{},
	}
}

// Load reads the leveling tables from a JSON file. A missing or unreadable
// file yields empty tables rather than an error: the calculations all treat
// empty tables as "level 0" and the bot stays up.
func Load(path string) *Data {
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Error("leveling data not loaded, level calculations will return 0", "path", path, "err", err)
		return Empty()
	}

	data, err := Parse(raw)
	if err != nil {
		slog.Error("leveling data not parsed, level calculations will return 0", "path", path, "err", err)
		return Empty()
	}

	slog.Info("leveling data loaded",
		"path", path,
		"skill_levels", len(data.XPTable),
		"catacombs_levels", len(data.CatacombsXP),
		"hotm_levels", len(data.HotmBrackets),
		"slayer_bosses", len(data.SlayerXP))
	return data
}

// Parse decodes leveling.json bytes into Data. Absent fields decode to empty
// tables.
func Parse(raw []byte) (*Data, error) {
	var f levelingFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing leveling data: %w", err)
	}

	data := &Data{
		XPTable:      DeltaTable(f.LevelingXP),
		LevelCaps:    f.LevelingCaps,
		CatacombsXP:  DeltaTable(f.Catacombs),
		HotmBrackets: DeltaTable(f.HOTM),
		SlayerXP:     map[string]ThresholdTable{},
	}
	if data.LevelCaps == nil {
		data.LevelCaps = map[string]int{}
	}
	for boss, thresholds := range f.SlayerXP {
		data.SlayerXP[boss] = ThresholdTable(thresholds)
	}
	return data, nil
}
