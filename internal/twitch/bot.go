package twitch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/icefrost/icebot/internal/config"
	"github.com/icefrost/icebot/internal/leveling"
	"github.com/icefrost/icebot/internal/skyblock"
)

// MaxMessageLen is the chat reply budget; Twitch cuts messages past ~500
// characters and the bot stays safely below that.
const MaxMessageLen = 480

const commandTimeout = 15 * time.Second

// ProfileSource provides resolved player profile data. Implemented by
// skyblock.Client.
type ProfileSource interface {
	ResolveUUID(ctx context.Context, username string) (string, error)
	PlayerProfile(ctx context.Context, username, profileName string, fresh bool) (string, *skyblock.Profile, error)
}

// LinkStore persists chat-user to IGN links. Implemented by
// db.LinkRepository.
type LinkStore interface {
	Get(ctx context.Context, twitchUser string) (string, error)
	Set(ctx context.Context, twitchUser, ign string) error
	Delete(ctx context.Context, twitchUser string) (bool, error)
}

// Invocation is one parsed command call from chat.
type Invocation struct {
	Author string
	Args   []string
}

// HandlerFunc executes a command and returns the chat reply.
type HandlerFunc func(ctx context.Context, inv Invocation) (string, error)

type command struct {
	name    string
	aliases []string
	usage   string
	handler HandlerFunc
}

// Bot reads chat, dispatches prefix commands and replies within the message
// budget.
type Bot struct {
	cfg      config.TwitchConfig
	data     *leveling.Data
	source   ProfileSource
	links    LinkStore
	registry map[string]*command
	names    []string // primary names, for help
	served   atomic.Int64
	started  time.Time
}

// NewBot wires the command set against the given data sources.
func NewBot(cfg config.TwitchConfig, data *leveling.Data, source ProfileSource, links LinkStore) *Bot {
	if cfg.Prefix == "" {
		cfg.Prefix = "#"
	}
	b := &Bot{
		cfg:      cfg,
		data:     data,
		source:   source,
		links:    links,
		registry: make(map[string]*command),
		started:  time.Now(),
	}
	b.registerCommands()
	return b
}

func (b *Bot) register(name, usage string, handler HandlerFunc, aliases ...string) {
	cmd := &command{name: name, aliases: aliases, usage: usage, handler: handler}
	b.registry[name] = cmd
	for _, alias := range aliases {
		b.registry[alias] = cmd
	}
	b.names = append(b.names, name)
}

// Run connects to chat and serves commands until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	conn, err := Dial(ctx, b.cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Unblock the read loop on shutdown.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		line, err := conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading from chat: %w", err)
		}

		if payload, ok := IsPing(line); ok {
			if err := conn.SendRaw("PONG " + payload); err != nil {
				slog.Warn("pong failed", "err", err)
			}
			continue
		}

		msg := ParsePrivmsg(line)
		if msg == nil || msg.Channel != conn.Channel() {
			continue
		}
		if msg.Author == strings.ToLower(b.cfg.Nick) {
			continue // own echo
		}

		reply, ok := b.Dispatch(ctx, msg)
		if !ok {
			continue
		}
		if err := conn.Say(reply); err != nil {
			slog.Warn("reply failed", "err", err)
		}
	}
}

// Dispatch parses a chat message as a command and executes it. Returns the
// reply text and whether there is anything to send.
func (b *Bot) Dispatch(ctx context.Context, msg *Message) (string, bool) {
	if !strings.HasPrefix(msg.Text, b.cfg.Prefix) {
		return "", false
	}

	fields := strings.Fields(msg.Text[len(b.cfg.Prefix):])
	if len(fields) == 0 {
		return "", false
	}
	name := strings.ToLower(fields[0])
	cmd, ok := b.registry[name]
	if !ok {
		return "", false
	}

	inv := Invocation{Author: msg.Author, Args: fields[1:]}

	cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	b.served.Add(1)
	reply, err := cmd.handler(cmdCtx, inv)
	if err != nil {
		reply = b.errorReply(cmd, inv, err)
	}
	if reply == "" {
		return "", false
	}
	return Truncate(reply, MaxMessageLen), true
}

// errorReply converts handler errors into chat-friendly messages.
func (b *Bot) errorReply(cmd *command, inv Invocation, err error) string {
	switch {
	case errors.Is(err, skyblock.ErrPlayerNotFound):
		return "Could not find that Minecraft account."
	case errors.Is(err, skyblock.ErrNoProfiles):
		return "That player has no SkyBlock profiles (or no profile by that name)."
	case errors.Is(err, errUsage):
		return fmt.Sprintf("Usage: %s%s %s", b.cfg.Prefix, cmd.name, cmd.usage)
	case errors.Is(err, context.DeadlineExceeded):
		return "The upstream API took too long, try again in a bit."
	}
	slog.Error("command failed", "command", cmd.name, "author", inv.Author, "err", err)
	return "An unexpected error occurred, try again later."
}

// errUsage marks argument errors that should print the command usage.
var errUsage = errors.New("bad arguments")

// targetPlayer resolves which player a command is about: explicit argument,
// the caller's linked IGN, or the caller's own chat name.
func (b *Bot) targetPlayer(ctx context.Context, inv Invocation) (ign, profileName string, err error) {
	if len(inv.Args) > 2 {
		return "", "", fmt.Errorf("expected [ign] [profile]: %w", errUsage)
	}
	if len(inv.Args) >= 1 {
		ign = inv.Args[0]
	}
	if len(inv.Args) == 2 {
		profileName = inv.Args[1]
	}
	if ign != "" {
		return ign, profileName, nil
	}

	linked, err := b.links.Get(ctx, inv.Author)
	if err != nil {
		slog.Warn("link lookup failed, falling back to chat name", "user", inv.Author, "err", err)
		linked = ""
	}
	if linked != "" {
		return linked, profileName, nil
	}
	return inv.Author, profileName, nil
}

// memberFor fetches the profile member data the command should report on.
func (b *Bot) memberFor(ctx context.Context, inv Invocation, fresh bool) (ign string, profile *skyblock.Profile, member skyblock.Member, err error) {
	ign, profileName, err := b.targetPlayer(ctx, inv)
	if err != nil {
		return "", nil, skyblock.Member{}, err
	}
	id, profile, err := b.source.PlayerProfile(ctx, ign, profileName, fresh)
	if err != nil {
		return ign, nil, skyblock.Member{}, err
	}
	member, ok := profile.Members[id]
	if !ok {
		return ign, profile, skyblock.Member{}, fmt.Errorf("member %s missing from profile %s: %w", id, profile.CuteName, skyblock.ErrNoProfiles)
	}
	return ign, profile, member, nil
}

// CommandsServed reports how many commands have been dispatched.
func (b *Bot) CommandsServed() int64 {
	return b.served.Load()
}

// Uptime reports how long the bot has been running.
func (b *Bot) Uptime() time.Duration {
	return time.Since(b.started)
}

// Truncate cuts text to at most limit runes, marking the cut with an
// ellipsis.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

// commandNames returns the primary command names in sorted order.
func (b *Bot) commandNames() []string {
	names := make([]string, len(b.names))
	copy(names, b.names)
	sort.Strings(names)
	return names
}
