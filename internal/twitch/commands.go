package twitch

import (
	"context"
	"fmt"
	"strings"

	"github.com/icefrost/icebot/internal/leveling"
)

// slayerBossOrder is the display order for the slayer command.
var slayerBossOrder = []string{"zombie", "spider", "wolf", "enderman", "blaze", "vampire"}

func (b *Bot) registerCommands() {
	b.register("ping", "", b.cmdPing)
	b.register("help", "", b.cmdHelp, "commands")
	b.register("skills", "[ign] [profile]", b.cmdSkills, "sa")
	b.register("skilllevel", "<skill> [ign] [profile]", b.cmdSkillLevel, "sl")
	b.register("oskill", "[ign] [profile]", b.cmdOverflowSkills, "oskills", "skillo", "skillso", "overflow")
	b.register("cata", "[ign] [profile]", b.cmdCata, "dungeon", "dungeons")
	b.register("classaverage", "[ign] [profile]", b.cmdClassAverage, "ca")
	b.register("hotm", "[ign] [profile]", b.cmdHotm)
	b.register("slayer", "[ign] [profile]", b.cmdSlayer, "slayers")
	b.register("sblvl", "[ign] [profile]", b.cmdSblvl)
	b.register("link", "<minecraft_ign>", b.cmdLink)
	b.register("unlink", "", b.cmdUnlink)
	b.register("rtca", "[ign] [profile] [target_ca=50] [floor=m7]", b.cmdRtca)
}

func (b *Bot) cmdPing(ctx context.Context, inv Invocation) (string, error) {
	return "Pong!", nil
}

func (b *Bot) cmdHelp(ctx context.Context, inv Invocation) (string, error) {
	prefix := b.cfg.Prefix
	names := b.commandNames()
	for i, name := range names {
		names[i] = prefix + name
	}
	return "Available commands: " + strings.Join(names, " "), nil
}

func (b *Bot) cmdSkills(ctx context.Context, inv Invocation) (string, error) {
	ign, profile, member, err := b.memberFor(ctx, inv, false)
	if err != nil {
		return "", err
	}
	average := b.data.SkillAverage(member.SkillXPBySkill(), member.LevelingContext())
	return fmt.Sprintf("%s's Skill Average in profile '%s' is approximately %.2f.",
		ign, profile.CuteName, average), nil
}

func (b *Bot) cmdSkillLevel(ctx context.Context, inv Invocation) (string, error) {
	if len(inv.Args) == 0 {
		return "", fmt.Errorf("missing skill: %w", errUsage)
	}
	skill := strings.ToLower(inv.Args[0])
	if !validSkill(skill) {
		return fmt.Sprintf("Invalid skill '%s'. Valid skills are: %s.",
			inv.Args[0], strings.Join(skillTitles(), ", ")), nil
	}

	rest := Invocation{Author: inv.Author, Args: inv.Args[1:]}
	ign, _, member, err := b.memberFor(ctx, rest, false)
	if err != nil {
		return "", err
	}

	xp := member.SkillXP(skill)
	level := leveling.OverflowLevel(b.data.XPTable, xp)
	return fmt.Sprintf("%s's %s level: %.2f (%s XP)",
		ign, title(skill), level, leveling.FormatPrice(xp)), nil
}

func (b *Bot) cmdOverflowSkills(ctx context.Context, inv Invocation) (string, error) {
	ign, _, member, err := b.memberFor(ctx, inv, false)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(leveling.AverageSkills))
	for _, skill := range leveling.AverageSkills {
		level := leveling.OverflowLevel(b.data.XPTable, member.SkillXP(skill))
		parts = append(parts, fmt.Sprintf("%s %.2f", title(skill), level))
	}
	return ign + ": " + strings.Join(parts, " | "), nil
}

func (b *Bot) cmdCata(ctx context.Context, inv Invocation) (string, error) {
	ign, profile, member, err := b.memberFor(ctx, inv, false)
	if err != nil {
		return "", err
	}
	xp := member.Dungeons.DungeonTypes.Catacombs.Experience
	level := b.data.DungeonLevel(xp)
	return fmt.Sprintf("%s's Catacombs level in profile '%s' is %.2f (XP: %s)",
		ign, profile.CuteName, level, leveling.FormatPrice(xp)), nil
}

func (b *Bot) cmdClassAverage(ctx context.Context, inv Invocation) (string, error) {
	ign, profile, member, err := b.memberFor(ctx, inv, false)
	if err != nil {
		return "", err
	}
	if len(member.Dungeons.PlayerClasses) == 0 {
		return fmt.Sprintf("'%s' has no class data in profile '%s'.", ign, profile.CuteName), nil
	}

	classXP := member.ClassXPByClass()
	parts := make([]string, 0, len(leveling.ClassNames))
	for _, class := range leveling.ClassNames {
		parts = append(parts, fmt.Sprintf("%s %.2f", title(class), b.data.ClassLevel(classXP[class])))
	}
	return fmt.Sprintf("%s's class levels in profile '%s': %s | Average: %.2f",
		ign, profile.CuteName, strings.Join(parts, " | "), b.data.ClassAverage(classXP)), nil
}

func (b *Bot) cmdHotm(ctx context.Context, inv Invocation) (string, error) {
	ign, profile, member, err := b.memberFor(ctx, inv, false)
	if err != nil {
		return "", err
	}
	xp := member.MiningCore.Experience
	level := b.data.HotmLevel(xp)
	return fmt.Sprintf("%s's HotM level is %.2f (XP: %s) (Profile: '%s')",
		ign, level, leveling.FormatPrice(xp), profile.CuteName), nil
}

func (b *Bot) cmdSlayer(ctx context.Context, inv Invocation) (string, error) {
	ign, profile, member, err := b.memberFor(ctx, inv, false)
	if err != nil {
		return "", err
	}
	bosses := member.Slayer.SlayerBosses
	if len(bosses) == 0 {
		return fmt.Sprintf("'%s' has no slayer data in profile '%s'.", ign, profile.CuteName), nil
	}

	parts := make([]string, 0, len(slayerBossOrder))
	for _, boss := range slayerBossOrder {
		xp := bosses[boss].XP
		level := b.data.SlayerLevel(boss, xp)
		parts = append(parts, fmt.Sprintf("%s %d (%s XP)", title(boss), level, leveling.FormatPrice(xp)))
	}
	return fmt.Sprintf("%s's Slayers (Profile: '%s'): %s",
		ign, profile.CuteName, strings.Join(parts, " | ")), nil
}

func (b *Bot) cmdSblvl(ctx context.Context, inv Invocation) (string, error) {
	ign, profile, member, err := b.memberFor(ctx, inv, false)
	if err != nil {
		return "", err
	}
	level := member.Leveling.Experience / 100
	return fmt.Sprintf("%s's SkyBlock level in profile '%s' is %.2f.",
		ign, profile.CuteName, level), nil
}

func (b *Bot) cmdLink(ctx context.Context, inv Invocation) (string, error) {
	if len(inv.Args) == 0 {
		linked, err := b.links.Get(ctx, inv.Author)
		if err != nil {
			return "", fmt.Errorf("looking up link: %w", err)
		}
		if linked == "" {
			return fmt.Sprintf("@%s You are not linked to any Minecraft IGN. Use %slink <minecraft_ign>.",
				inv.Author, b.cfg.Prefix), nil
		}
		return fmt.Sprintf("@%s You are currently linked to Minecraft IGN: %s", inv.Author, linked), nil
	}

	ign := inv.Args[0]
	if _, err := b.source.ResolveUUID(ctx, ign); err != nil {
		return fmt.Sprintf("@%s '%s' does not appear to be a valid Minecraft username.", inv.Author, ign), nil
	}
	if err := b.links.Set(ctx, inv.Author, ign); err != nil {
		return "", fmt.Errorf("saving link: %w", err)
	}
	return fmt.Sprintf("@%s Successfully linked to Minecraft IGN: %s", inv.Author, ign), nil
}

func (b *Bot) cmdUnlink(ctx context.Context, inv Invocation) (string, error) {
	existed, err := b.links.Delete(ctx, inv.Author)
	if err != nil {
		return "", fmt.Errorf("removing link: %w", err)
	}
	if !existed {
		return fmt.Sprintf("@%s You are not linked to any Minecraft IGN.", inv.Author), nil
	}
	return fmt.Sprintf("@%s Successfully unlinked.", inv.Author), nil
}

func validSkill(skill string) bool {
	for _, s := range leveling.AverageSkills {
		if s == skill {
			return true
		}
	}
	return false
}

func skillTitles() []string {
	out := make([]string, len(leveling.AverageSkills))
	for i, s := range leveling.AverageSkills {
		out[i] = title(s)
	}
	return out
}

// title upper-cases the first letter; skill and class names are ASCII.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
