// Package announce is an optional integration that posts gadget activations
// to a Discord channel. The dependency is explicit: availability is probed
// once at startup and the result cached, after which every call site treats
// the announcer as a plain interface that may be a no-op stub.
package announce

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/aethergame/vanitycore/internal/domain"
)

// Announcer publishes noteworthy cosmetic events to an external channel.
type Announcer interface {
	// Available reports whether the integration was configured and reachable
	// at startup.
	Available() bool

	// AnnounceActivation posts an accepted gadget activation. Best-effort
	// and non-blocking; failures are logged, never returned.
	AnnounceActivation(account string, item domain.Item)

	// Close releases the underlying connection, if any.
	Close()
}

// New probes the Discord integration once. An empty token or a failed
// session open yields the no-op stub, and the server runs without
// announcements.
func New(token, channelID string) Announcer {
	if token == "" || channelID == "" {
		slog.Info("Activation announcer not configured, using no-op stub")
		return noopAnnouncer{}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		slog.Warn("Activation announcer unavailable, using no-op stub", "error", err)
		return noopAnnouncer{}
	}
	if err := session.Open(); err != nil {
		slog.Warn("Activation announcer failed to connect, using no-op stub", "error", err)
		return noopAnnouncer{}
	}

	slog.Info("Activation announcer connected", "channel", channelID)
	return &discordAnnouncer{session: session, channelID: channelID}
}

// discordAnnouncer posts to a fixed channel over one shared session.
type discordAnnouncer struct {
	session   *discordgo.Session
	channelID string
}

func (d *discordAnnouncer) Available() bool { return true }

func (d *discordAnnouncer) AnnounceActivation(account string, item domain.Item) {
	msg := fmt.Sprintf("**%s** set off a %s!", account, item.DisplayName)
	go func() {
		if _, err := d.session.ChannelMessageSend(d.channelID, msg); err != nil {
			slog.Warn("Failed to announce activation", "error", err, "item", item.ID)
		}
	}()
}

func (d *discordAnnouncer) Close() {
	if err := d.session.Close(); err != nil {
		slog.Warn("Failed to close announcer session", "error", err)
	}
}

// noopAnnouncer is the stub used when the integration is absent.
type noopAnnouncer struct{}

func (noopAnnouncer) Available() bool                        { return false }
func (noopAnnouncer) AnnounceActivation(string, domain.Item) {}
func (noopAnnouncer) Close()                                 {}
