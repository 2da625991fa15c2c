package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/spigell/talentscout/internal/render"
	"github.com/spigell/talentscout/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect stored screening sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, newest first",
	Run: func(_ *cobra.Command, _ []string) {
		if err := listSessions(); err != nil {
			log.Fatal(err)
		}
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [ID]",
	Short: "Show the profile, answers and evaluation of a session",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := showSession(cmd, args); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd)

	sessionsShowCmd.Flags().BoolP("transcript", "t", false, "print the whole conversation as well")
}

func listSessions() error {
	ctx := context.Background()

	a, err := newApplication(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	summaries, err := a.store.List(ctx)
	if err != nil {
		return err
	}

	fmt.Println(render.Sessions(summaries))
	return nil
}

func showSession(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApplication(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		summaries, err := a.store.List(ctx)
		if err != nil {
			return err
		}
		id, err = selectSession(summaries)
		if err != nil {
			return err
		}
	}

	state, err := a.store.Load(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("session %q does not exist", id)
	}
	if err != nil {
		return err
	}

	fmt.Println(render.Profile(state.Profile))
	fmt.Println(render.Answers(state.Questions, state.Answers))
	fmt.Println(render.Evaluation(state))

	if withTranscript, _ := cmd.Flags().GetBool("transcript"); withTranscript {
		fmt.Println(render.Transcript(state.Transcript))
	}

	return nil
}

func selectSession(summaries []session.Summary) (string, error) {
	if len(summaries) == 0 {
		return "", errors.New("there are no stored sessions")
	}

	items := make([]string, 0, len(summaries))
	for _, s := range summaries {
		name := s.Candidate
		if name == "" {
			name = "unknown candidate"
		}
		items = append(items, fmt.Sprintf("%s  %s  %s", s.ID, name, s.Stage))
	}

	prompt := promptui.Select{
		Label: "Select a session",
		Items: items,
		Size:  10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return summaries[index].ID, nil
}
