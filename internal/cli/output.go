package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mcoot/podtracker/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		o.printJSON(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		return
	}
	fmt.Fprintf(o.w, "Error: %s\n", err)
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
		return
	}
	fmt.Fprintln(o.w, msg)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.User:
		o.printUser(v)
	case response.AuthResponse:
		o.printUser(v.User)
		fmt.Fprintf(o.w, "Token expires: %s\n", formatTime(v.ExpiresAt))
	case response.Deck:
		o.printDeck(v)
	case []response.Deck:
		o.printDeckTable(v)
	case response.Pod:
		o.printPod(v)
	case []response.Pod:
		o.printPodTable(v)
	case response.Game:
		o.printGame(v)
	case []response.Game:
		o.printGameTable(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printUser(u response.User) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", u.Username, u.ID)
	fmt.Fprintf(o.w, "Email: %s\n", u.Email)
	if u.DisplayName != nil {
		fmt.Fprintf(o.w, "Display name: %s\n", *u.DisplayName)
	}
	if u.Bio != nil {
		fmt.Fprintf(o.w, "Bio: %s\n", *u.Bio)
	}
	if u.AvatarURL != nil {
		fmt.Fprintf(o.w, "Avatar: %s\n", *u.AvatarURL)
	}
}

func (o *Output) printDeck(d response.Deck) {
	fmt.Fprintf(o.w, "Deck: %s (%s)\n", d.Name, d.ID)
	fmt.Fprintf(o.w, "Commanders: %s\n", strings.Join(d.Commanders, ", "))
	if d.Description != nil {
		fmt.Fprintf(o.w, "Description: %s\n", *d.Description)
	}
	for _, link := range d.Links {
		fmt.Fprintf(o.w, "  - %s\n", link)
	}
}

func (o *Output) printPod(p response.Pod) {
	fmt.Fprintf(o.w, "Pod: %s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(o.w, "Owner: %s\n", p.OwnerID)
	fmt.Fprintf(o.w, "Members (%d): %s\n", len(p.MemberIDs), strings.Join(p.MemberIDs, ", "))
	fmt.Fprintf(o.w, "Decks (%d): %s\n", len(p.DeckIDs), strings.Join(p.DeckIDs, ", "))
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Pod: %s\n", g.PodID)
	fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	fmt.Fprintf(o.w, "Players: %s\n", strings.Join(g.PlayerIDs, ", "))
	fmt.Fprintf(o.w, "Started: %s\n", formatTime(g.StartTime))
	if g.EndTime != nil {
		fmt.Fprintf(o.w, "Ended: %s\n", formatTime(*g.EndTime))
	}
	if g.WinnerID != nil {
		fmt.Fprintf(o.w, "Winner: %s\n", *g.WinnerID)
	}
}

func (o *Output) printDeckTable(decks []response.Deck) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOMMANDERS")
	for _, d := range decks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, d.Name, strings.Join(d.Commanders, ", "))
	}
	_ = tw.Flush()
}

func (o *Output) printPodTable(pods []response.Pod) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tOWNER\tMEMBERS")
	for _, p := range pods {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.OwnerID, len(p.MemberIDs))
	}
	_ = tw.Flush()
}

func (o *Output) printGameTable(games []response.Game) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPOD\tSTATUS\tSTARTED\tWINNER")
	for _, g := range games {
		winner := "-"
		if g.WinnerID != nil {
			winner = *g.WinnerID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", g.ID, g.PodID, g.Status, formatTime(g.StartTime), winner)
	}
	_ = tw.Flush()
}

func formatTime(t time.Time) string {
	return t.Local().Format(time.DateTime)
}
