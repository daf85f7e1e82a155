package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/topi314/strava-challenge/internal/xtime"
	"github.com/topi314/strava-challenge/server/scoring"
)

// ColorStrava is the Strava brand orange.
const ColorStrava = 0xFC4C02

// Discord rejects embeds with more fields.
const maxEmbedFields = 25

var medals = []string{"🥇", "🥈", "🥉"}

func LeaderboardMessage(season int, lb scoring.Leaderboard, prizes []int64, updatedAt time.Time) discord.WebhookMessageCreate {
	embed := discord.Embed{
		Title:     fmt.Sprintf("Leaderboard %d", season),
		Color:     ColorStrava,
		Timestamp: &updatedAt,
	}

	if len(lb) == 0 {
		embed.Description = "No results yet. Get moving!"
		return discord.WebhookMessageCreate{Embeds: []discord.Embed{embed}}
	}

	embed.Description = "Updated " + discord.NewTimestamp(discord.TimestampStyleShortDateTime, updatedAt).String()

	shown := lb
	if len(shown) > maxEmbedFields {
		shown = shown[:maxEmbedFields-1]
	}
	for i, entry := range shown {
		var prize int64
		if i < len(prizes) {
			prize = prizes[i]
		}
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  entryTitle(entry),
			Value: entryValue(entry, prize),
		})
	}
	if hidden := len(lb) - len(shown); hidden > 0 {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  "…",
			Value: fmt.Sprintf("and %d more", hidden),
		})
	}

	return discord.WebhookMessageCreate{Embeds: []discord.Embed{embed}}
}

func entryTitle(entry scoring.Entry) string {
	prefix := strconv.Itoa(entry.Position) + "."
	if entry.Position <= len(medals) && entry.Total > 0 {
		prefix = medals[entry.Position-1]
	}
	return prefix + " " + entry.Participant
}

func entryValue(entry scoring.Entry, prize int64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%d** points · %s", entry.Total, xtime.FormatMovingTime(entry.MovingTime))
	if prize > 0 {
		fmt.Fprintf(&sb, " · prize %d", prize)
	}

	var counted []string
	for _, c := range entry.Categories {
		if c.Counted {
			counted = append(counted, fmt.Sprintf("%s %d", c.Category, c.Points))
		}
	}
	if len(counted) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(counted, ", "))
	}
	return sb.String()
}

// DisabledAthletesMessage names athletes that need to connect Strava again.
func DisabledAthletesMessage(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "`" + name + "`"
	}
	return fmt.Sprintf("Strava access expired for %s. Run the auth link again to keep counting.", strings.Join(quoted, ", "))
}
