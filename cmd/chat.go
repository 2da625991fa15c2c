package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/render"
	"github.com/spigell/talentscout/internal/screening"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a new screening conversation or resume a stored one",
	Run: func(cmd *cobra.Command, _ []string) {
		if err := chat(cmd); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("session", "s", "", "id of a stored session to resume")
}

func chat(cmd *cobra.Command) error {
	ctx := context.Background()

	a, err := newApplication(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	id, _ := cmd.Flags().GetString("session")

	var state screening.State
	if id == "" {
		state, err = a.service.Start(ctx)
	} else {
		state, err = a.service.Get(ctx, id)
	}
	if err != nil {
		return err
	}

	lg := logger.WithFields(a.logger, logger.SessionFields(state.ID, string(state.Stage))...)
	lg.Info("chat session opened")

	fmt.Println(render.Transcript(state.Transcript))
	if state.Ended() {
		return showOutcome(ctx, a, state.ID)
	}

	prompt := promptui.Prompt{
		Label: "You",
	}

	for {
		input, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			reply, err := a.service.End(ctx, state.ID)
			if err != nil {
				return err
			}
			printReply(reply)
			return showOutcome(ctx, a, state.ID)
		}
		if err != nil {
			return fmt.Errorf("reading candidate input: %w", err)
		}

		reply, err := a.service.Handle(ctx, state.ID, input)
		if err != nil {
			return err
		}
		if reply.Err != nil {
			lg.Warn("turn completed with an oracle failure", zap.Error(reply.Err))
		}

		printReply(reply)
		if reply.Stage == screening.StageConvoEnd {
			return showOutcome(ctx, a, state.ID)
		}
	}
}

func printReply(reply screening.Reply) {
	fmt.Println(render.Message(screening.Message{Role: screening.RoleAssistant, Content: reply.Text}))
}

func showOutcome(ctx context.Context, a *application, id string) error {
	state, err := a.service.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println(render.Evaluation(state))
	fmt.Printf("Session id: %s\n", state.ID)
	return nil
}
