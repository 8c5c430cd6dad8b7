package twitch

import "strings"

// Message is a parsed PRIVMSG from chat.
type Message struct {
	Author  string
	Channel string
	Text    string
}

// IsPing reports whether the line is a server keepalive, returning the
// payload to echo back.
func IsPing(line string) (string, bool) {
	if payload, ok := strings.CutPrefix(line, "PING "); ok {
		return payload, true
	}
	return "", false
}

// ParsePrivmsg parses an IRC line of the form
//
//	:nick!user@host PRIVMSG #channel :message text
//
// Returns nil for anything that is not a channel message. Leading IRCv3 tags
// (@key=value;... ) are skipped.
func ParsePrivmsg(line string) *Message {
	if strings.HasPrefix(line, "@") {
		_, rest, ok := strings.Cut(line, " ")
		if !ok {
			return nil
		}
		line = rest
	}

	if !strings.HasPrefix(line, ":") {
		return nil
	}
	prefix, rest, ok := strings.Cut(line[1:], " ")
	if !ok {
		return nil
	}

	command, rest, ok := strings.Cut(rest, " ")
	if !ok || command != "PRIVMSG" {
		return nil
	}

	target, text, ok := strings.Cut(rest, " :")
	if !ok {
		return nil
	}

	author := prefix
	if i := strings.IndexByte(prefix, '!'); i >= 0 {
		author = prefix[:i]
	}

	return &Message{
		Author:  strings.ToLower(author),
		Channel: strings.TrimPrefix(strings.ToLower(strings.TrimSpace(target)), "#"),
		Text:    text,
	}
}
