package service

import (
	"context"
	"errors"
	"fmt"

	"cora-leaf-be/internal/constant"
	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/pkg/logger"
	"cora-leaf-be/pkg/llm"
	"cora-leaf-be/pkg/prompt"
	"cora-leaf-be/pkg/session"

	"github.com/google/uuid"
)

// QuotaLimiter counts gateway calls per session. *quota.RedisLimiter
// satisfies it.
type QuotaLimiter interface {
	CheckLimit(ctx context.Context, id string) (bool, error)
	Increment(ctx context.Context, id string) error
}

type IChatService interface {
	Send(ctx context.Context, sessionId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, sessionId uuid.UUID, limit int) ([]dto.MessageResponse, error)
}

// ChatConfig tunes one chat turn. Zero Temperature or MaxTokens leaves the
// gateway default in place.
type ChatConfig struct {
	HistoryWindow int
	Temperature   float64
	MaxTokens     int
}

type chatService struct {
	sessions      SessionLocator
	llmProvider   llm.LLMProvider
	limiter       QuotaLimiter
	notifier      LiveNotifier
	logger        logger.ILogger
	historyWindow int
	genOptions    []llm.Option
}

func NewChatService(
	sessions SessionLocator,
	llmProvider llm.LLMProvider,
	limiter QuotaLimiter,
	notifier LiveNotifier,
	log logger.ILogger,
	cfg ChatConfig,
) IChatService {
	var genOptions []llm.Option
	if cfg.Temperature > 0 {
		genOptions = append(genOptions, llm.WithTemperature(cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		genOptions = append(genOptions, llm.WithMaxTokens(cfg.MaxTokens))
	}

	return &chatService{
		sessions:      sessions,
		llmProvider:   llmProvider,
		limiter:       limiter,
		notifier:      notifierOrNoop(notifier),
		logger:        log,
		historyWindow: cfg.HistoryWindow,
		genOptions:    genOptions,
	}
}

// Send runs one chat turn. A gateway failure is not returned as an error:
// it becomes the assistant reply and the response is flagged as failed.
func (c *chatService) Send(ctx context.Context, sessionId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sess, err := c.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}
	if err := sess.Acquire(); err != nil {
		return nil, err
	}
	defer sess.Release()

	var (
		sent       entity.Message
		promptText string
	)
	err = sess.With(func(w *session.Workspace) error {
		w.EnsureGreeting()
		history := w.Conversation.RecentWindow(c.historyWindow)

		msg, err := w.Conversation.AppendUser(req.Chat)
		if err != nil {
			return err
		}
		sent = msg
		promptText = prompt.NewSecretaryBuilder(w.Current(), history, msg.Content).Build()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.notifier.Notify(sessionId, constant.LiveEventMessage, dto.NewMessageResponse(sent))
	c.notifier.Notify(sessionId, constant.LiveEventBusy, map[string]interface{}{"busy": true})
	defer c.notifier.Notify(sessionId, constant.LiveEventBusy, map[string]interface{}{"busy": false})

	text, gwErr := c.generate(ctx, sessionId, promptText)

	var reply entity.Message
	_ = sess.With(func(w *session.Workspace) error {
		if gwErr != nil {
			reply = w.Conversation.AppendAssistant(fmt.Sprintf(constant.GatewayFailureMessage, gwErr.Message))
			return nil
		}
		reply = w.Conversation.AppendAssistant(text)
		return nil
	})

	c.notifier.Notify(sessionId, constant.LiveEventMessage, dto.NewMessageResponse(reply))

	return &dto.ChatResponse{
		Sent:   dto.NewMessageResponse(sent),
		Reply:  dto.NewMessageResponse(reply),
		Failed: gwErr != nil,
	}, nil
}

func (c *chatService) generate(ctx context.Context, sessionId uuid.UUID, promptText string) (string, *entity.GatewayError) {
	key := sessionId.String()

	if c.limiter != nil {
		allowed, err := c.limiter.CheckLimit(ctx, key)
		if err != nil {
			c.logger.Warn("GATEWAY", "Quota check failed, continuing without limit", map[string]interface{}{
				"session_id": key,
				"error":      err.Error(),
			})
		} else if !allowed {
			return "", entity.NewGatewayError(errors.New("quota exceeded for this session, try again later"))
		}
	}

	c.logger.Debug("GATEWAY", "Sending prompt", map[string]interface{}{
		"session_id": key,
		"provider":   c.llmProvider.Name(),
		"prompt":     promptText,
	})

	text, err := c.llmProvider.Generate(ctx, promptText, c.genOptions...)
	if err != nil {
		gwErr := entity.NewGatewayError(err)
		c.logger.Error("GATEWAY", "Generation failed", map[string]interface{}{
			"session_id": key,
			"provider":   c.llmProvider.Name(),
			"error":      gwErr.Message,
		})
		return "", gwErr
	}

	if c.limiter != nil {
		if err := c.limiter.Increment(ctx, key); err != nil {
			c.logger.Warn("GATEWAY", "Failed to count gateway call", map[string]interface{}{
				"session_id": key,
				"error":      err.Error(),
			})
		}
	}

	return text, nil
}

func (c *chatService) History(ctx context.Context, sessionId uuid.UUID, limit int) ([]dto.MessageResponse, error) {
	sess, err := c.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var res []dto.MessageResponse
	err = sess.With(func(w *session.Workspace) error {
		w.EnsureGreeting()
		if limit <= 0 {
			res = dto.NewMessageResponses(w.Conversation.Messages())
			return nil
		}
		res = dto.NewMessageResponses(w.Conversation.RecentWindow(limit))
		return nil
	})
	return res, err
}
