package leveling

import (
	"math"
	"testing"
)

func testData() *Data {
	return &Data{
		XPTable:      DeltaTable{100, 200, 300},
		LevelCaps:    map[string]int{},
		CatacombsXP:  DeltaTable{50, 100, 150, 200, 250},
		HotmBrackets: DeltaTable{3000, 9000, 25000},
		SlayerXP: map[string]ThresholdTable{
			"zombie": {5, 15, 200, 1000},
		},
	}
}

func TestSkillLevel(t *testing.T) {
	d := testData()

	tests := []struct {
		name string
		xp   float64
		want float64
	}{
		{"zero xp", 0, 0},
		{"exactly level 1", 100, 1},
		{"partway into level 2", 150, 1.25},
		{"table exhausted", 600, 3}, // table shorter than cap: plain exhaustion
		{"beyond table", 999999, 3}, // no extrapolation in the capped variant
		{"partial first level", 50, 0.5},
	}

	for _, tt := range tests {
		got := d.SkillLevel("mining", tt.xp, nil)
		if got != tt.want {
			t.Errorf("%s: SkillLevel(mining, %v) = %v, want %v", tt.name, tt.xp, got, tt.want)
		}
	}
}

func TestSkillLevelMonotonic(t *testing.T) {
	d := testData()
	prev := -1.0
	for xp := 0.0; xp <= 700; xp += 7 {
		got := d.SkillLevel("mining", xp, nil)
		if got < prev {
			t.Fatalf("SkillLevel not monotonic: level(%v) = %v < %v", xp, got, prev)
		}
		prev = got
	}
}

func TestSkillLevelEmptyTable(t *testing.T) {
	d := Empty()
	for _, xp := range []float64{0, 100, 1e12} {
		if got := d.SkillLevel("mining", xp, nil); got != 0 {
			t.Errorf("SkillLevel on empty table with xp=%v = %v, want 0", xp, got)
		}
	}
}

func TestSkillLevelZeroStep(t *testing.T) {
	d := Empty()
	d.XPTable = DeltaTable{100, 0, 300}
	// The free level 2 is paid outright; interpolation happens inside the
	// 300-cost level 3, and the zero entry never divides.
	want := 2 + 50.0/300.0
	got := d.SkillLevel("mining", 150, nil)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("SkillLevel with zero step = %v, want %v", got, want)
	}
}

func TestExhaustedTableReturnsTableLength(t *testing.T) {
	d := testData()
	// Every table here is shorter than its cap: exhaustion returns the count
	// of completed levels, never the cap itself.
	if got := d.SkillLevel("mining", 1e12, nil); got != 3 {
		t.Errorf("SkillLevel(huge) on 3-entry table = %v, want 3", got)
	}
	if got := d.ClassLevel(1e12); got != 5 {
		t.Errorf("ClassLevel(huge) on 5-entry table = %v, want 5", got)
	}
	if got := d.DungeonLevel(1e12); got != 5 {
		t.Errorf("DungeonLevel(huge) on 5-entry table = %v, want 5", got)
	}
}

func TestEffectiveMaxLevel(t *testing.T) {
	d := testData()
	d.LevelCaps["enchanting"] = 60

	tests := []struct {
		name  string
		skill string
		ctx   *MemberContext
		want  int
	}{
		{"default cap", "mining", nil, 50},
		{"configured cap", "enchanting", nil, 60},
		{"taming no context", "taming", nil, 50},
		{"taming 3 sacrificed", "taming", &MemberContext{PetTypesSacrificed: 3}, 53},
		{"taming bonus capped at 10", "taming", &MemberContext{PetTypesSacrificed: 12}, 60},
		{"farming perk bonus", "farming", &MemberContext{FarmingLevelCapBonus: 10}, 60},
		{"farming no bonus", "farming", &MemberContext{}, 50},
	}

	for _, tt := range tests {
		got := d.EffectiveMaxLevel(tt.skill, tt.ctx)
		if got != tt.want {
			t.Errorf("%s: EffectiveMaxLevel(%s) = %d, want %d", tt.name, tt.skill, got, tt.want)
		}
	}
}

func TestSkillLevelCapClamp(t *testing.T) {
	d := Empty()
	// 55 levels of 100 XP each, taming capped at 50 + 3.
	d.XPTable = make(DeltaTable, 55)
	for i := range d.XPTable {
		d.XPTable[i] = 100
	}
	ctx := &MemberContext{PetTypesSacrificed: 3}
	if got := d.SkillLevel("taming", 1e12, ctx); got != 53 {
		t.Errorf("SkillLevel(taming, huge) = %v, want 53", got)
	}
	// Exactly at the cap requirement.
	if got := d.SkillLevel("taming", 5300, ctx); got != 53 {
		t.Errorf("SkillLevel(taming, 5300) = %v, want 53", got)
	}
	// One XP short of the cap interpolates inside level 53.
	got := d.SkillLevel("taming", 5299, ctx)
	if got >= 53 || got < 52.9 {
		t.Errorf("SkillLevel(taming, 5299) = %v, want just below 53", got)
	}
}

func TestClassLevel(t *testing.T) {
	d := testData()
	// Cumulative: 50, 150, 300, 500, 750. 225 sits halfway through level 3's
	// 150-cost step: 2 + (225-150)/150 = 2.5.
	if got := d.ClassLevel(225); got != 2.5 {
		t.Errorf("ClassLevel(225) = %v, want 2.5", got)
	}
	if got := d.ClassLevel(0); got != 0 {
		t.Errorf("ClassLevel(0) = %v, want 0", got)
	}
	if got := d.ClassLevel(750); got != 5 {
		t.Errorf("ClassLevel(750) = %v, want 5", got)
	}
}

func TestClassLevelUsesFirst50Entries(t *testing.T) {
	d := Empty()
	d.CatacombsXP = make(DeltaTable, 100)
	for i := range d.CatacombsXP {
		d.CatacombsXP[i] = 100
	}
	if got := d.ClassLevel(1e12); got != 50 {
		t.Errorf("ClassLevel(huge) = %v, want 50", got)
	}
	if got := d.ClassLevel(5000); got != 50 {
		t.Errorf("ClassLevel(sum of first 50) = %v, want 50", got)
	}
}

func TestClassAverage(t *testing.T) {
	d := testData()
	xp := map[string]float64{
		"healer": 750, "mage": 750, "berserk": 750, "archer": 750, "tank": 0,
	}
	want := (5.0*4 + 0) / 5
	if got := d.ClassAverage(xp); got != want {
		t.Errorf("ClassAverage = %v, want %v", got, want)
	}
}

func TestDungeonLevel(t *testing.T) {
	d := Empty()
	d.CatacombsXP = make(DeltaTable, 100)
	for i := range d.CatacombsXP {
		d.CatacombsXP[i] = 100
	}

	tests := []struct {
		xp   float64
		want float64
	}{
		{0, 0},
		{100, 1},
		{150, 1.5},
		{10000, 100},
		{1e12, 100},
	}
	for _, tt := range tests {
		if got := d.DungeonLevel(tt.xp); got != tt.want {
			t.Errorf("DungeonLevel(%v) = %v, want %v", tt.xp, got, tt.want)
		}
	}
}

func TestDungeonLevelMaxUsesFirst100Entries(t *testing.T) {
	d := Empty()
	// 105 entries: only the first 100 count towards the max requirement.
	d.CatacombsXP = make(DeltaTable, 105)
	for i := range d.CatacombsXP {
		d.CatacombsXP[i] = 100
	}
	if got := d.DungeonLevel(10000); got != 100 {
		t.Errorf("DungeonLevel(sum of first 100) = %v, want 100", got)
	}
}

func TestHotmLevel(t *testing.T) {
	d := testData()
	tests := []struct {
		xp   float64
		want float64
	}{
		{0, 0},
		{3000, 1},
		{7500, 1.5},
		{37000, 3}, // exact total, max level = table length
		{1e12, 3},
	}
	for _, tt := range tests {
		if got := d.HotmLevel(tt.xp); got != tt.want {
			t.Errorf("HotmLevel(%v) = %v, want %v", tt.xp, got, tt.want)
		}
	}
	if got := Empty().HotmLevel(5000); got != 0 {
		t.Errorf("HotmLevel on empty table = %v, want 0", got)
	}
}

func TestSlayerLevel(t *testing.T) {
	d := testData()
	tests := []struct {
		boss string
		xp   float64
		want int
	}{
		{"zombie", 0, 0},
		{"zombie", 4, 0},
		{"zombie", 5, 1},
		{"zombie", 14, 1},
		{"zombie", 15, 2},
		{"zombie", 1000, 4},
		{"zombie", 999999, 4}, // no extrapolation for slayers
		{"wolf", 999999, 0},   // unknown boss
	}
	for _, tt := range tests {
		if got := d.SlayerLevel(tt.boss, tt.xp); got != tt.want {
			t.Errorf("SlayerLevel(%s, %v) = %d, want %d", tt.boss, tt.xp, got, tt.want)
		}
	}
}

func TestSkillAverage(t *testing.T) {
	d := testData()
	xp := map[string]float64{"mining": 600, "combat": 100}
	// mining 3 + combat 1, seven skills at 0, nine skills total.
	want := 4.0 / 9.0
	if got := d.SkillAverage(xp, nil); math.Abs(got-want) > 1e-12 {
		t.Errorf("SkillAverage = %v, want %v", got, want)
	}
}

func TestXPForTargetLevel(t *testing.T) {
	d := testData()
	tests := []struct {
		target int
		want   float64
	}{
		{0, 0},
		{-3, 0},
		{1, 50},
		{3, 300},
		{5, 750},
		{50, 750}, // beyond the table: whole-table total
	}
	for _, tt := range tests {
		if got := d.XPForTargetLevel(tt.target); got != tt.want {
			t.Errorf("XPForTargetLevel(%d) = %v, want %v", tt.target, got, tt.want)
		}
	}
	if got := Empty().XPForTargetLevel(10); got != 0 {
		t.Errorf("XPForTargetLevel on empty table = %v, want 0", got)
	}
}
