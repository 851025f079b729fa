package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/linkbot/internal/binding"
	"github.com/user/linkbot/internal/line"
)

var (
	pushName   string
	pushUserID string
)

func init() {
	rootCmd.AddCommand(pushCmd)
	pushCmd.Flags().StringVar(&pushName, "name", "", "bound display name to target")
	pushCmd.Flags().StringVar(&pushUserID, "user-id", "", "platform userId to target")
}

var pushCmd = &cobra.Command{
	Use:   "push <text>",
	Short: "Send a push message to a bound user",
	Args:  cobra.ExactArgs(1),
	RunE:  runPush,
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if cfg.Line.ChannelAccessToken == "" {
		return fmt.Errorf("missing CHANNEL_ACCESS_TOKEN")
	}

	target := pushUserID
	if target == "" && pushName != "" {
		store := binding.NewStore(cfg.BindingsPath())
		uid, ok := store.Load().UserID(pushName)
		if !ok {
			return fmt.Errorf("no binding for name: %s", pushName)
		}
		target = uid
	}
	if target == "" {
		target = cfg.Push.OperatorUserID
	}
	if target == "" {
		return fmt.Errorf("no target: pass --name or --user-id, or set push.operator_user_id")
	}

	client, err := line.NewClient(cfg.Line.ChannelAccessToken)
	if err != nil {
		return err
	}
	if err := client.Push(cmd.Context(), target, args[0]); err != nil {
		return fmt.Errorf("push: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Pushed to %s\n", target)
	return nil
}
