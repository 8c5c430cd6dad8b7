package twitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icefrost/icebot/internal/skyblock"
)

func TestParseRtcaArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		ign     string
		profile string
		target  int
		floor   string
		wantErr bool
	}{
		{name: "no args", target: 50, floor: "m7"},
		{name: "ign only", args: []string{"Steve"}, ign: "Steve", target: 50, floor: "m7"},
		{name: "ign and profile", args: []string{"Steve", "Apple"}, ign: "Steve", profile: "Apple", target: 50, floor: "m7"},
		{name: "target first", args: []string{"45", "m6"}, target: 45, floor: "m6"},
		{name: "everything", args: []string{"Steve", "Apple", "42", "M6"}, ign: "Steve", profile: "Apple", target: 42, floor: "m6"},
		{name: "floor before ign", args: []string{"m6", "Steve"}, ign: "Steve", target: 50, floor: "m6"},
		{name: "target zero", args: []string{"0"}, wantErr: true},
		{name: "target above class cap", args: []string{"55"}, wantErr: true},
		{name: "too many words", args: []string{"a", "b", "c"}, wantErr: true},
	}

	for _, tt := range tests {
		ign, profile, target, floor, err := parseRtcaArgs(tt.args)
		if tt.wantErr {
			assert.ErrorIs(t, err, errUsage, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.ign, ign, tt.name)
		assert.Equal(t, tt.profile, profile, tt.name)
		assert.Equal(t, tt.target, target, tt.name)
		assert.Equal(t, tt.floor, floor, tt.name)
	}
}

func TestSimulateRuns(t *testing.T) {
	// One class needing 1000 XP at 100/run takes exactly 10 active runs.
	total, perClass := simulateRuns(map[string]float64{"mage": 1000}, 100, 25)
	assert.Equal(t, 10, total)
	assert.Equal(t, 10, perClass["mage"])

	// A small secondary need is covered by passive XP while the bottleneck
	// class is played.
	total, perClass = simulateRuns(map[string]float64{"mage": 1000, "tank": 100}, 100, 25)
	assert.Equal(t, 10, total)
	assert.Equal(t, 10, perClass["mage"])
	assert.Equal(t, 0, perClass["tank"])
}

func TestSimulateRunsEmpty(t *testing.T) {
	total, perClass := simulateRuns(map[string]float64{}, 100, 25)
	assert.Equal(t, 0, total)
	assert.Empty(t, perClass)
}

func TestRtcaCommand(t *testing.T) {
	member := testMember()
	source := &fakeSource{
		uuid: testUUID,
		profiles: []skyblock.Profile{{
			CuteName: "Apple",
			Selected: true,
			Members:  map[string]skyblock.Member{testUUID: member},
		}},
	}
	b := newTestBot(source, nil)

	reply := dispatch(t, b, "#rtca Steve 4")
	assert.Contains(t, reply, "Steve needs ~")
	assert.Contains(t, reply, "M7 runs to reach CA 4")
	assert.True(t, source.lastFresh, "rtca must bypass the profile cache")
}

func TestRtcaAlreadyReached(t *testing.T) {
	member := testMember()
	// Max out every class: the test catacombs table totals 750 XP for 50.
	member.Dungeons.PlayerClasses = map[string]skyblock.ClassStats{
		"healer": {Experience: 1e6}, "mage": {Experience: 1e6}, "berserk": {Experience: 1e6},
		"archer": {Experience: 1e6}, "tank": {Experience: 1e6},
	}
	source := &fakeSource{
		uuid: testUUID,
		profiles: []skyblock.Profile{{
			CuteName: "Apple",
			Selected: true,
			Members:  map[string]skyblock.Member{testUUID: member},
		}},
	}
	b := newTestBot(source, nil)

	reply := dispatch(t, b, "#rtca Steve 5")
	assert.Contains(t, reply, "already reached or surpassed Class Average 5")
}

func TestRtcaNoClassData(t *testing.T) {
	member := testMember()
	member.Dungeons.PlayerClasses = nil
	source := &fakeSource{
		uuid: testUUID,
		profiles: []skyblock.Profile{{
			CuteName: "Apple",
			Selected: true,
			Members:  map[string]skyblock.Member{testUUID: member},
		}},
	}
	b := newTestBot(source, nil)

	assert.Contains(t, dispatch(t, b, "#rtca Steve"), "has no class data")
}
