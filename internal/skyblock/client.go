package skyblock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/icefrost/icebot/internal/cache"
	"github.com/icefrost/icebot/internal/config"
)

// ErrPlayerNotFound is returned when the username resolver knows no such
// Minecraft account.
var ErrPlayerNotFound = errors.New("player not found")

// ErrNoProfiles is returned when a resolved player has no SkyBlock profiles.
var ErrNoProfiles = errors.New("player has no skyblock profiles")

const requestTimeout = 10 * time.Second

// Client fetches player data from the Mojang-style resolver and the Hypixel
// profiles endpoint, caching both lookups with a TTL.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	mojangURL   string
	profilesURL string

	uuids    *cache.Cache[string]
	profiles *cache.Cache[[]Profile]
}

// NewClient builds a client from config. ttl governs both caches.
func NewClient(cfg config.HypixelConfig, ttl time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		apiKey:      cfg.APIKey,
		mojangURL:   strings.TrimRight(cfg.MojangURL, "/"),
		profilesURL: cfg.ProfilesURL,
		uuids:       cache.New[string](ttl),
		profiles:    cache.New[[]Profile](ttl),
	}
}

// ResolveUUID resolves a Minecraft username to its undashed UUID.
func (c *Client) ResolveUUID(ctx context.Context, username string) (string, error) {
	key := strings.ToLower(username)
	if id, ok := c.uuids.Get(key); ok {
		return id, nil
	}

	reqURL := c.mojangURL + "/" + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("building uuid request for %q: %w", username, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolving uuid for %q: %w", username, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNoContent, http.StatusNotFound:
		return "", fmt.Errorf("resolving uuid for %q: %w", username, ErrPlayerNotFound)
	default:
		return "", fmt.Errorf("resolving uuid for %q: unexpected status %d", username, resp.StatusCode)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding uuid response for %q: %w", username, err)
	}
	if body.ID == "" {
		return "", fmt.Errorf("resolving uuid for %q: %w", username, ErrPlayerNotFound)
	}

	// The resolver returns 32 hex chars; profile member maps key by the same
	// undashed form. Round-trip through uuid.Parse to reject garbage.
	parsed, err := uuid.Parse(body.ID)
	if err != nil {
		return "", fmt.Errorf("invalid uuid %q for %q: %w", body.ID, username, err)
	}
	id := strings.ReplaceAll(parsed.String(), "-", "")

	c.uuids.Set(key, id)
	return id, nil
}

// profilesEnvelope is the Hypixel API response wrapper.
type profilesEnvelope struct {
	Success  bool      `json:"success"`
	Cause    string    `json:"cause"`
	Profiles []Profile `json:"profiles"`
}

// Profiles fetches all SkyBlock profiles for a UUID. fresh bypasses the
// cache (used by estimators that need up-to-date XP).
func (c *Client) Profiles(ctx context.Context, id string, fresh bool) ([]Profile, error) {
	if !fresh {
		if profiles, ok := c.profiles.Get(id); ok {
			return profiles, nil
		}
	}

	reqURL := fmt.Sprintf("%s?key=%s&uuid=%s", c.profilesURL, url.QueryEscape(c.apiKey), url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building profiles request for %q: %w", id, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching profiles for %q: %w", id, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading profiles response for %q: %w", id, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching profiles for %q: status %d", id, resp.StatusCode)
	}

	var envelope profilesEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decoding profiles response for %q: %w", id, err)
	}
	if !envelope.Success {
		cause := envelope.Cause
		if cause == "" {
			cause = "unknown reason"
		}
		return nil, fmt.Errorf("profiles API rejected request for %q: %s", id, cause)
	}

	// success with null profiles means a player who never played SkyBlock.
	profiles := envelope.Profiles
	if profiles == nil {
		profiles = []Profile{}
	}

	c.profiles.Set(id, profiles)
	slog.Debug("profiles fetched", "uuid", id, "count", len(profiles))
	return profiles, nil
}

// PlayerProfile resolves a username and returns the profile to answer from:
// the named profile when profileName is non-empty, otherwise the latest one.
func (c *Client) PlayerProfile(ctx context.Context, username, profileName string, fresh bool) (string, *Profile, error) {
	id, err := c.ResolveUUID(ctx, username)
	if err != nil {
		return "", nil, err
	}

	profiles, err := c.Profiles(ctx, id, fresh)
	if err != nil {
		return "", nil, err
	}
	if len(profiles) == 0 {
		return id, nil, fmt.Errorf("profiles for %q: %w", username, ErrNoProfiles)
	}

	var profile *Profile
	if profileName != "" {
		profile = FindProfile(profiles, id, profileName)
	} else {
		profile = LatestProfile(profiles, id)
	}
	if profile == nil {
		return id, nil, fmt.Errorf("profiles for %q: %w", username, ErrNoProfiles)
	}
	return id, profile, nil
}

// InvalidatePlayer drops cached data for a username and, when known, its
// profiles.
func (c *Client) InvalidatePlayer(username string) {
	key := strings.ToLower(username)
	if id, ok := c.uuids.Get(key); ok {
		c.profiles.Delete(id)
	}
	c.uuids.Delete(key)
}

// CacheStats reports current cache sizes for the status endpoint.
func (c *Client) CacheStats() (uuids, profiles int) {
	return c.uuids.Len(), c.profiles.Len()
}

// Caches exposes both caches for the background janitor.
func (c *Client) Caches() []interface{ CleanupExpired() int } {
	return []interface{ CleanupExpired() int }{c.uuids, c.profiles}
}
