package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"

	"github.com/topi314/strava-challenge/server/scoring"
)

// ColorPayments is the embed color of the payment summary.
const ColorPayments = 0x3498DB

// PaymentsMessage summarizes what every participant owes for the weeks before week.
// The participant paying the most is marked.
func PaymentsMessage(season int, week int, currency string, payments []scoring.Payment) discord.WebhookMessageCreate {
	embed := discord.Embed{
		Title: fmt.Sprintf("Payments %d", season),
		Color: ColorPayments,
	}

	if len(payments) == 0 {
		embed.Description = "No athletes connected."
		return discord.WebhookMessageCreate{Embeds: []discord.Embed{embed}}
	}

	embed.Description = fmt.Sprintf("Weekly minimum up to week %d · total %s", week-1, formatAmount(scoring.TotalPayments(payments), currency))

	var most int64
	for _, p := range payments {
		most = max(most, p.Amount)
	}

	shown := payments
	if len(shown) > maxEmbedFields {
		shown = shown[:maxEmbedFields-1]
	}
	for _, p := range shown {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  p.Participant,
			Value: paymentValue(p, currency, p.Amount == most),
		})
	}
	if hidden := len(payments) - len(shown); hidden > 0 {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  "…",
			Value: fmt.Sprintf("and %d more", hidden),
		})
	}

	return discord.WebhookMessageCreate{Embeds: []discord.Embed{embed}}
}

func paymentValue(p scoring.Payment, currency string, most bool) string {
	if p.Amount == 0 {
		value := "pays nothing 💩"
		if len(p.JokerWeeks) > 0 {
			value += "\njokers: " + joinWeeks(p.JokerWeeks)
		}
		return value
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "pays **%s**", formatAmount(p.Amount, currency))
	if most {
		sb.WriteString(" 🤑")
	}
	sb.WriteString("\nweeks: " + joinWeeks(p.MissedWeeks))
	if len(p.JokerWeeks) > 0 {
		sb.WriteString("\njokers: " + joinWeeks(p.JokerWeeks))
	}
	return sb.String()
}

func formatAmount(amount int64, currency string) string {
	if currency == "" {
		return strconv.FormatInt(amount, 10)
	}
	return strconv.FormatInt(amount, 10) + " " + currency
}

func joinWeeks(weeks []int) string {
	parts := make([]string, len(weeks))
	for i, w := range weeks {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, ", ")
}
