package controller

import (
	"net/url"

	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/pkg/serverutils"
	"cora-leaf-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGovernanceController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Decide(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Limit(ctx *fiber.Ctx) error
}

type governanceController struct {
	service service.IGovernanceService
}

func NewGovernanceController(service service.IGovernanceService) IGovernanceController {
	return &governanceController{service: service}
}

func (c *governanceController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/governance/v1", auth)
	h.Post("/decisions", c.Decide)
	h.Get("/decisions", c.History)
	h.Get("/limits/:name", c.Limit)
}

func (c *governanceController) Decide(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.DecisionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Decide(ctx.UserContext(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Decision recorded", res))
}

func (c *governanceController) History(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.History(ctx.UserContext(), sessionId, ctx.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get decisions", res))
}

func (c *governanceController) Limit(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	name, err := url.PathUnescape(ctx.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer name")
	}

	res, err := c.service.Limit(ctx.UserContext(), sessionId, name)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve limit", res))
}
