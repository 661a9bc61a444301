package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/podtracker/internal/api/request"
	"github.com/mcoot/podtracker/internal/api/response"
)

func newPodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pod",
		Short: "Pod commands",
	}

	cmd.AddCommand(newPodCreateCmd())
	cmd.AddCommand(newPodListCmd())
	cmd.AddCommand(newPodGetCmd())
	cmd.AddCommand(newPodUpdateCmd())
	cmd.AddCommand(newPodAddMembersCmd())
	cmd.AddCommand(newPodDeleteCmd())

	return cmd
}

// podFlags binds the flags shared by pod create and update
type podFlags struct {
	name    string
	members []string
	decks   []string
}

func (f *podFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Pod name")
	cmd.Flags().StringSliceVar(&f.members, "member", nil, "Member user id (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&f.decks, "deck", nil, "Deck id (repeatable or comma separated)")
}

func (f *podFlags) body(cmd *cobra.Command) map[string]any {
	body := map[string]any{}
	changedString(cmd, body, "name", "name", f.name)
	changedStrings(cmd, body, "member", "memberIds", f.members)
	changedStrings(cmd, body, "deck", "deckIds", f.decks)
	return body
}

func newPodCreateCmd() *cobra.Command {
	var flags podFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pod you own",
		RunE: func(cmd *cobra.Command, args []string) error {
			var pod response.Pod
			if err := client.Post(cmd.Context(), "/api/v1/pods", flags.body(cmd), &pod); err != nil {
				return err
			}
			output(cmd).Print(pod)
			return nil
		},
	}

	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPodListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pods you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			var pods []response.Pod
			if err := client.Get(cmd.Context(), "/api/v1/pods", &pods); err != nil {
				return err
			}
			output(cmd).Print(pods)
			return nil
		},
	}
}

func newPodGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a pod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pod response.Pod
			if err := client.Get(cmd.Context(), "/api/v1/pods/"+args[0], &pod); err != nil {
				return err
			}
			output(cmd).Print(pod)
			return nil
		},
	}
}

func newPodUpdateCmd() *cobra.Command {
	var flags podFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change pod fields (owner only; only the flags given are sent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := flags.body(cmd)
			if len(body) == 0 {
				return fmt.Errorf("nothing to update")
			}
			var pod response.Pod
			if err := client.Patch(cmd.Context(), "/api/v1/pods/"+args[0], body, &pod); err != nil {
				return err
			}
			output(cmd).Print(pod)
			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}

func newPodAddMembersCmd() *cobra.Command {
	var members []string

	cmd := &cobra.Command{
		Use:   "add-members <id>",
		Short: "Add members to a pod, keeping existing ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.AddMembersRequest{MemberIDs: members}
			var pod response.Pod
			if err := client.Post(cmd.Context(), "/api/v1/pods/"+args[0]+"/members", req, &pod); err != nil {
				return err
			}
			output(cmd).Print(pod)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&members, "member", nil, "Member user id (repeatable or comma separated)")
	_ = cmd.MarkFlagRequired("member")

	return cmd
}

func newPodDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pod and its games",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/pods/"+args[0]); err != nil {
				return err
			}
			output(cmd).PrintMessage(fmt.Sprintf("Deleted pod %s", args[0]))
			return nil
		},
	}
}
