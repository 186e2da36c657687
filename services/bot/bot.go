// Package bot orchestrates inbound LINE webhook events: new searches,
// next-page postbacks and follows.
package bot

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/chiehyu/popodoc/logger"
	"github.com/chiehyu/popodoc/services/search"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

const replySessionExpired = "搜尋已過期，請重新搜尋"
const replyPaginationError = "抱歉，處理分頁請求錯誤"

const actionNextPage = "next_page"

var reportCommands = []string{"report", "回報", "回報波波", "波波回報"}
var helpCommands = []string{"help", "幫助"}

// Replier delivers composed message parts for a reply token.
type Replier interface {
	Reply(replyToken string, messages []messaging_api.MessageInterface) error
}

// SessionStore remembers the last criteria per user. Get returning false
// means the session expired or never existed.
type SessionStore interface {
	Put(userID string, criteria search.Criteria)
	Get(userID string) (search.Criteria, bool)
}

type Service struct {
	logger   logger.Logger
	search   *search.Service
	sessions SessionStore
	replier  Replier
}

func New(logger logger.Logger, searchService *search.Service, sessions SessionStore, replier Replier) *Service {
	return &Service{
		logger:   logger,
		search:   searchService,
		sessions: sessions,
		replier:  replier,
	}
}

// HandleEvents dispatches each webhook event to its handler. Unrecognized
// event kinds are ignored. A failure on one event does not stop the rest.
func (s *Service) HandleEvents(ctx context.Context, events []webhook.EventInterface) {
	for _, event := range events {
		switch e := event.(type) {
		case webhook.MessageEvent:
			s.handleMessage(ctx, e)
		case webhook.PostbackEvent:
			s.handlePostback(ctx, e)
		case webhook.FollowEvent:
			s.handleFollow(e)
		}
	}
}

func (s *Service) handleMessage(ctx context.Context, event webhook.MessageEvent) {
	textMessage, ok := event.Message.(webhook.TextMessageContent)
	if !ok {
		return
	}

	userID := sourceUserID(event.Source)
	message := strings.TrimSpace(textMessage.Text)
	s.logger.Info("[Request]", "user_id", userID, "message", message)

	if isCommand(message, reportCommands) {
		return
	}

	if isCommand(message, helpCommands) {
		s.replyHelp(event.ReplyToken)
		return
	}

	criteria := search.ParseCriteria(message)
	s.sessions.Put(userID, criteria)

	people, stats, err := s.search.Search(ctx, criteria, 0)
	if err != nil {
		s.logger.Error("search failed", "user_id", userID, "message", message, "err", err.Error())
		return
	}

	messages, err := composeSearchReply(criteria, people, stats)
	if err != nil {
		s.logger.Error("could not compose search reply", "user_id", userID, "err", err.Error())
		return
	}

	if err := s.replier.Reply(event.ReplyToken, messages); err != nil {
		s.logger.Error("could not reply to message", "user_id", userID, "err", err.Error())
	}
}

func (s *Service) handlePostback(ctx context.Context, event webhook.PostbackEvent) {
	if event.Postback == nil {
		return
	}

	userID := sourceUserID(event.Source)
	data := event.Postback.Data
	s.logger.Info("[Postback]", "user_id", userID, "data", data)

	values, err := url.ParseQuery(data)
	if err != nil || values.Get("action") != actionNextPage {
		// unrecognized payloads are ignored
		return
	}

	criteria, found := s.sessions.Get(userID)
	if !found {
		s.replyText(event.ReplyToken, replySessionExpired)
		return
	}

	if err := s.handleNextPage(ctx, event.ReplyToken, criteria, values.Get("offset")); err != nil {
		s.logger.Error("error processing next page request", "user_id", userID, "data", data, "err", err.Error())
		s.replyText(event.ReplyToken, replyPaginationError)
	}
}

func (s *Service) handleNextPage(ctx context.Context, replyToken string, criteria search.Criteria, rawOffset string) error {
	offset, err := strconv.Atoi(rawOffset)
	if err != nil {
		return fmt.Errorf("invalid offset %q: %w", rawOffset, err)
	}

	people, stats, err := s.search.Search(ctx, criteria, offset)
	if err != nil {
		return err
	}

	messages, err := composeSearchReply(criteria, people, stats)
	if err != nil {
		return err
	}

	return s.replier.Reply(replyToken, messages)
}

func (s *Service) handleFollow(event webhook.FollowEvent) {
	s.logger.Info("[Follow]", "user_id", sourceUserID(event.Source))
	s.replyHelp(event.ReplyToken)
}

func (s *Service) replyHelp(replyToken string) {
	help, err := helpFlexMessage()
	if err != nil {
		s.logger.Error("could not build help message", "err", err.Error())
		return
	}
	if err := s.replier.Reply(replyToken, []messaging_api.MessageInterface{help}); err != nil {
		s.logger.Error("could not send help message", "err", err.Error())
	}
}

func (s *Service) replyText(replyToken, text string) {
	if err := s.replier.Reply(replyToken, []messaging_api.MessageInterface{
		messaging_api.TextMessage{Text: text},
	}); err != nil {
		s.logger.Error("could not send text reply", "err", err.Error())
	}
}

func isCommand(message string, commands []string) bool {
	lowered := strings.ToLower(message)
	for _, command := range commands {
		if lowered == command {
			return true
		}
	}
	return false
}

func sourceUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	default:
		return ""
	}
}
