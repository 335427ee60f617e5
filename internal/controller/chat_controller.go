package controller

import (
	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/pkg/serverutils"
	"cora-leaf-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Send(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/chat/v1", auth)
	h.Post("", c.Send)
	h.Get("/history", c.History)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.ChatRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Send(ctx.UserContext(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.History(ctx.UserContext(), sessionId, ctx.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}
