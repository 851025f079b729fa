// Package command parses inbound text messages into the bot's fixed
// set of intents and computes the outbound reply.
package command

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/linkbot/internal/binding"
)

const (
	queryKeyword = "查詢"
	bindKeyword  = "連結"
)

// User-facing reply strings.
const (
	msgNotBound       = "目前尚未綁定 請先進行綁定"
	msgBindFormat     = "❌ 請輸入格式：連結 您的全名"
	msgBindWriteFail  = "❌ 連結失敗，檔案寫入錯誤。"
	msgNoOtherFeature = "抱歉 目前尚未有其他功能"
	msgBindPrompt     = `請輸入"連結 您的全名"進行綁定`
)

// ConfirmationAck is the generic acknowledgment sent down the reply
// channel when the bind confirmation itself went out as a push.
const ConfirmationAck = "綁定結果已透過私訊傳送 ✅"

// Reply is the computed response for one inbound text message.
// Confirmation marks bind confirmations, which carry the raw userId and
// prefer the push channel for delivery.
type Reply struct {
	Text         string
	Confirmation bool
}

// Interpreter maps inbound text to replies, reading and writing the
// binding store for the query and bind commands.
type Interpreter struct {
	store *binding.Store
}

func New(store *binding.Store) *Interpreter {
	return &Interpreter{store: store}
}

// Respond computes the reply for one message from userID. Commands are
// matched case-sensitively by prefix on the trimmed text, first match
// wins; anything unrecognized (including empty text) falls through to
// the generic branch.
func (it *Interpreter) Respond(userID, text string) Reply {
	text = strings.TrimSpace(text)
	snap := it.store.Load()

	switch {
	case strings.HasPrefix(text, queryKeyword):
		if name, _ := snap.Name(userID); name != "" {
			return Reply{Text: fmt.Sprintf("目前已綁定 %s ✅", name)}
		}
		return Reply{Text: msgNotBound}

	case strings.HasPrefix(text, bindKeyword):
		// A well-formed bind is keyword, space, non-empty name, from an
		// event that carries a userId. Anything else keyword-shaped is
		// answered with the format hint.
		rest := strings.TrimPrefix(text, bindKeyword)
		newName := strings.TrimSpace(rest)
		if newName == "" || userID == "" || !strings.HasPrefix(rest, " ") {
			return Reply{Text: msgBindFormat}
		}

		outcome, err := it.store.BindUser(userID, newName)
		if err != nil {
			slog.Error("binding write failed", "user_id", userID, "error", err)
			return Reply{Text: msgBindWriteFail}
		}

		word := "已綁定"
		if outcome == binding.OutcomeUpdated {
			word = "已更新綁定"
		}
		return Reply{
			Text:         fmt.Sprintf("%s：%s ✅\n你的 userId 是：%s", word, newName, userID),
			Confirmation: true,
		}

	default:
		if name, _ := snap.Name(userID); name != "" {
			return Reply{Text: msgNoOtherFeature}
		}
		return Reply{Text: msgBindPrompt}
	}
}
