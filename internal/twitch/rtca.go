package twitch

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/icefrost/icebot/internal/leveling"
)

// Class XP awarded per dungeon run on the master-mode floors, before boosts.
const (
	baseM6ClassXP = 105000
	baseM7ClassXP = 340000
)

// classXPBoost approximates the stacked class XP buffs active on a run.
const classXPBoost = 1.06

// passiveShare is the fraction of run XP granted to the classes not being
// played.
const passiveShare = 0.25

const maxSimulatedRuns = 100000

func (b *Bot) cmdRtca(ctx context.Context, inv Invocation) (string, error) {
	ign, profileName, target, floor, err := parseRtcaArgs(inv.Args)
	if err != nil {
		return "", err
	}

	playerInv := Invocation{Author: inv.Author}
	if ign != "" {
		playerInv.Args = []string{ign}
		if profileName != "" {
			playerInv.Args = append(playerInv.Args, profileName)
		}
	}

	// Estimators want current XP, not a five-minute-old snapshot.
	ign, profile, member, err := b.memberFor(ctx, playerInv, true)
	if err != nil {
		return "", err
	}
	if len(member.Dungeons.PlayerClasses) == 0 {
		return fmt.Sprintf("'%s' has no class data in profile '%s'.", ign, profile.CuteName), nil
	}

	classXP := member.ClassXPByClass()
	currentCA := b.data.ClassAverage(classXP)

	requiredXP := b.data.XPForTargetLevel(target)
	needed := make(map[string]float64)
	for _, class := range leveling.ClassNames {
		if b.data.ClassLevel(classXP[class]) >= float64(target) {
			continue
		}
		if remaining := requiredXP - classXP[class]; remaining > 0 {
			needed[class] = remaining
		}
	}
	if len(needed) == 0 {
		return fmt.Sprintf("%s (CA %.2f) has already reached or surpassed Class Average %d.",
			ign, currentCA, target), nil
	}

	xpPerRun := float64(baseM7ClassXP)
	floorName := "M7"
	if floor == "m6" {
		xpPerRun = baseM6ClassXP
		floorName = "M6"
	}
	xpPerRun *= classXPBoost

	total, perClass := simulateRuns(needed, xpPerRun, xpPerRun*passiveShare)

	parts := make([]string, 0, len(leveling.ClassNames))
	for _, class := range leveling.ClassNames {
		if runs := perClass[class]; runs > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", title(class), runs))
		}
	}
	return fmt.Sprintf("%s needs ~%d %s runs to reach CA %d (active: %s) | Current CA: %.2f",
		ign, total, floorName, target, strings.Join(parts, ", "), currentCA), nil
}

// parseRtcaArgs sorts the free-form arguments into ign, profile, target CA
// and floor. Floors and small integers are recognized anywhere, so
// "#rtca 55 m6" works without naming a player.
func parseRtcaArgs(args []string) (ign, profileName string, target int, floor string, err error) {
	target = 50
	floor = "m7"

	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case lower == "m6" || lower == "m7":
			floor = lower
		case isSmallInt(lower):
			n, _ := strconv.Atoi(lower)
			if n < 1 || n > leveling.ClassMaxLevel {
				return "", "", 0, "", fmt.Errorf("target CA must be between 1 and %d: %w", leveling.ClassMaxLevel, errUsage)
			}
			target = n
		case ign == "":
			ign = arg
		case profileName == "":
			profileName = arg
		default:
			return "", "", 0, "", fmt.Errorf("too many arguments: %w", errUsage)
		}
	}
	return ign, profileName, target, floor, nil
}

func isSmallInt(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n < 100
}

// simulateRuns plays runs one at a time: the class needing the most runs is
// played actively and receives the full run XP, everyone else gets the
// passive share. Returns the total run count and active runs per class.
func simulateRuns(needed map[string]float64, activeGain, passiveGain float64) (int, map[string]int) {
	perClass := make(map[string]int, len(leveling.ClassNames))
	total := 0

	for len(needed) > 0 && total < maxSimulatedRuns {
		total++

		bottleneck := ""
		maxRuns := -1.0
		for _, class := range leveling.ClassNames {
			remaining, ok := needed[class]
			if !ok {
				continue
			}
			runs := math.Ceil(remaining / activeGain)
			if runs > maxRuns {
				maxRuns = runs
				bottleneck = class
			}
		}
		perClass[bottleneck]++

		for class, remaining := range needed {
			gain := passiveGain
			if class == bottleneck {
				gain = activeGain
			}
			if remaining-gain > 0 {
				needed[class] = remaining - gain
			} else {
				delete(needed, class)
			}
		}
	}
	return total, perClass
}
