package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/podtracker/internal/api/request"
	"github.com/mcoot/podtracker/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game record commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameUpdateCmd())
	cmd.AddCommand(newGameWinCmd())
	cmd.AddCommand(newGameDeleteCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var podID, start string
	var players []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a game in a pod you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateGameRequest{PodID: podID, PlayerIDs: players}
			if start != "" {
				t, err := parseTime(start)
				if err != nil {
					return err
				}
				req.StartTime = &t
			}

			var game response.Game
			if err := client.Post(cmd.Context(), "/api/v1/games", req, &game); err != nil {
				return err
			}
			output(cmd).Print(game)
			return nil
		},
	}

	cmd.Flags().StringVar(&podID, "pod", "", "Pod id (required)")
	cmd.Flags().StringSliceVar(&players, "player", nil, "Player user id (repeatable or comma separated)")
	cmd.Flags().StringVar(&start, "start", "", "Start time, RFC 3339 (default now)")
	_ = cmd.MarkFlagRequired("pod")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games you played in, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var games []response.Game
			if err := client.Get(cmd.Context(), "/api/v1/games", &games); err != nil {
				return err
			}
			output(cmd).Print(games)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var game response.Game
			if err := client.Get(cmd.Context(), "/api/v1/games/"+args[0], &game); err != nil {
				return err
			}
			output(cmd).Print(game)
			return nil
		},
	}
}

func newGameUpdateCmd() *cobra.Command {
	var podID, end, winner string
	var players []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change game fields (only the flags given are sent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			changedString(cmd, body, "pod", "podId", podID)
			changedStrings(cmd, body, "player", "playerIds", players)
			changedString(cmd, body, "winner", "winnerId", winner)
			if cmd.Flags().Changed("end") {
				t, err := parseTime(end)
				if err != nil {
					return err
				}
				body["endTime"] = t
			}
			if len(body) == 0 {
				return fmt.Errorf("nothing to update")
			}

			return patchGame(cmd, args[0], body)
		},
	}

	cmd.Flags().StringVar(&podID, "pod", "", "Move the game to this pod")
	cmd.Flags().StringSliceVar(&players, "player", nil, "Replace the players (repeatable or comma separated)")
	cmd.Flags().StringVar(&end, "end", "", "End time, RFC 3339")
	cmd.Flags().StringVar(&winner, "winner", "", "Winner user id (completes the game)")

	return cmd
}

func newGameWinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "win <id> <winner-id>",
		Short: "Record the winner, completing the game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return patchGame(cmd, args[0], map[string]any{"winnerId": args[1]})
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/games/"+args[0]); err != nil {
				return err
			}
			output(cmd).PrintMessage(fmt.Sprintf("Deleted game %s", args[0]))
			return nil
		},
	}
}

func patchGame(cmd *cobra.Command, id string, body map[string]any) error {
	var game response.Game
	if err := client.Patch(cmd.Context(), "/api/v1/games/"+id, body, &game); err != nil {
		return err
	}
	output(cmd).Print(game)
	return nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339, e.g. 2024-05-01T19:30:00Z", s)
	}
	return t, nil
}
