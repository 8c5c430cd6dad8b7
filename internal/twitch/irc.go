package twitch

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/icefrost/icebot/internal/config"
)

// Conn is a logged-in IRC connection to a Twitch chat channel.
type Conn struct {
	conn    *tls.Conn
	reader  *bufio.Reader
	writeMu sync.Mutex
	channel string
}

// Dial connects to the Twitch IRC endpoint over TLS, authenticates and joins
// the configured channel.
func Dial(ctx context.Context, cfg config.TwitchConfig) (*Conn, error) {
	dialer := &tls.Dialer{}
	raw, err := dialer.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", cfg.Addr, err)
	}

	c := &Conn{
		conn:    raw.(*tls.Conn),
		reader:  bufio.NewReader(raw),
		channel: strings.TrimPrefix(strings.ToLower(cfg.Channel), "#"),
	}

	token := cfg.Token
	if token != "" && !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}

	if err := c.SendRaw("PASS " + token); err != nil {
		c.Close()
		return nil, fmt.Errorf("sending PASS: %w", err)
	}
	if err := c.SendRaw("NICK " + strings.ToLower(cfg.Nick)); err != nil {
		c.Close()
		return nil, fmt.Errorf("sending NICK: %w", err)
	}
	if err := c.SendRaw("JOIN #" + c.channel); err != nil {
		c.Close()
		return nil, fmt.Errorf("joining #%s: %w", c.channel, err)
	}

	slog.Info("connected to twitch chat", "addr", cfg.Addr, "channel", c.channel, "nick", cfg.Nick)
	return c, nil
}

// ReadLine blocks until the next IRC line arrives.
func (c *Conn) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// SendRaw writes one IRC line. Safe for concurrent use.
func (c *Conn) SendRaw(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write([]byte(line + "\r\n")); err != nil {
		return fmt.Errorf("writing %q: %w", strings.Fields(line)[0], err)
	}
	return nil
}

// Say sends a chat message to the joined channel.
func (c *Conn) Say(text string) error {
	return c.SendRaw(fmt.Sprintf("PRIVMSG #%s :%s", c.channel, text))
}

// Channel returns the joined channel name without the '#'.
func (c *Conn) Channel() string {
	return c.channel
}

// Close tears down the connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}
