package domain

import (
	"strings"
	"time"
)

// anonymousAuthor is shown when a commit carries neither a login nor an author name.
const anonymousAuthor = "anon"

// CommitSummary is the condensed form of one recent commit.
type CommitSummary struct {
	Hash        string    `json:"hash"`
	Message     string    `json:"message"`
	URL         string    `json:"url"`
	CommittedAt time.Time `json:"committed_at"`
	Author      string    `json:"author"`
}

// ResolveAuthor picks the display name of a commit author.
// The platform login wins over the raw commit name.
func ResolveAuthor(login, name string) string {
	if login != "" {
		return login
	}
	if name != "" {
		return name
	}
	return anonymousAuthor
}

// FirstLine returns the subject line of a commit message.
func FirstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimRight(line, "\r")
}
