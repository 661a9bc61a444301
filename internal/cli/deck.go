package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/podtracker/internal/api/response"
)

func newDeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Deck commands",
	}

	cmd.AddCommand(newDeckCreateCmd())
	cmd.AddCommand(newDeckListCmd())
	cmd.AddCommand(newDeckGetCmd())
	cmd.AddCommand(newDeckUpdateCmd())
	cmd.AddCommand(newDeckDeleteCmd())

	return cmd
}

// deckFlags binds the flags shared by deck create and update
type deckFlags struct {
	name        string
	commanders  []string
	description string
	links       []string
}

func (f *deckFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Deck name")
	cmd.Flags().StringArrayVar(&f.commanders, "commander", nil, "Commander card name (repeatable)")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringArrayVar(&f.links, "link", nil, "External link (repeatable)")
}

func (f *deckFlags) body(cmd *cobra.Command) map[string]any {
	body := map[string]any{}
	changedString(cmd, body, "name", "name", f.name)
	changedStrings(cmd, body, "commander", "commanders", f.commanders)
	changedString(cmd, body, "description", "description", f.description)
	changedStrings(cmd, body, "link", "links", f.links)
	return body
}

func newDeckCreateCmd() *cobra.Command {
	var flags deckFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			var deck response.Deck
			if err := client.Post(cmd.Context(), "/api/v1/decks", flags.body(cmd), &deck); err != nil {
				return err
			}
			output(cmd).Print(deck)
			return nil
		},
	}

	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("commander")

	return cmd
}

func newDeckListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your decks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var decks []response.Deck
			if err := client.Get(cmd.Context(), "/api/v1/decks", &decks); err != nil {
				return err
			}
			output(cmd).Print(decks)
			return nil
		},
	}
}

func newDeckGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var deck response.Deck
			if err := client.Get(cmd.Context(), "/api/v1/decks/"+args[0], &deck); err != nil {
				return err
			}
			output(cmd).Print(deck)
			return nil
		},
	}
}

func newDeckUpdateCmd() *cobra.Command {
	var flags deckFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change deck fields (only the flags given are sent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := flags.body(cmd)
			if len(body) == 0 {
				return fmt.Errorf("nothing to update")
			}
			var deck response.Deck
			if err := client.Patch(cmd.Context(), "/api/v1/decks/"+args[0], body, &deck); err != nil {
				return err
			}
			output(cmd).Print(deck)
			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}

func newDeckDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/decks/"+args[0]); err != nil {
				return err
			}
			output(cmd).PrintMessage(fmt.Sprintf("Deleted deck %s", args[0]))
			return nil
		},
	}
}
