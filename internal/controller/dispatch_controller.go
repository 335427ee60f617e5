package controller

import (
	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/pkg/serverutils"
	"cora-leaf-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDispatchController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Send(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type dispatchController struct {
	service service.IDispatchService
}

func NewDispatchController(service service.IDispatchService) IDispatchController {
	return &dispatchController{service: service}
}

func (c *dispatchController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/dispatch/v1", auth)
	h.Post("/emails", c.Send)
	h.Get("/emails", c.History)
}

func (c *dispatchController) Send(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.EmailRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Send(ctx.UserContext(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Email recorded", res))
}

func (c *dispatchController) History(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.History(ctx.UserContext(), sessionId, ctx.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get emails", res))
}
