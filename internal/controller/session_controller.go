package controller

import (
	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/pkg/serverutils"
	"cora-leaf-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Create(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
	SelectCustomer(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/session/v1")
	h.Post("", c.Create)
	h.Get("", auth, c.State)
	h.Put("/customer", auth, c.SelectCustomer)
	h.Delete("/conversation", auth, c.Clear)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if len(ctx.Body()) > 0 {
		if err := serverutils.ParseBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *sessionController) State(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.State(ctx.UserContext(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session state", res))
}

func (c *sessionController) SelectCustomer(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.SelectCustomerRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SelectCustomer(ctx.UserContext(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Customer selected", res))
}

func (c *sessionController) Clear(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Clear(ctx.UserContext(), sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation cleared", nil))
}
