package controller

import (
	"cora-leaf-be/internal/pkg/serverutils"
	"cora-leaf-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuditController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Decisions(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
	Log(ctx *fiber.Ctx) error
}

type auditController struct {
	service service.IAuditService
}

func NewAuditController(service service.IAuditService) IAuditController {
	return &auditController{service: service}
}

func (c *auditController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/audit/v1", auth)
	h.Get("/decisions", c.Decisions)
	h.Get("/logs", c.Logs)
	h.Get("/logs/:id", c.Log)
}

func (c *auditController) Decisions(ctx *fiber.Ctx) error {
	res, err := c.service.Decisions(ctx.UserContext(), service.AuditQuery{
		Customer: ctx.Query("customer"),
		Outcome:  ctx.Query("outcome"),
		Limit:    ctx.QueryInt("limit", 0),
		Offset:   ctx.QueryInt("offset", 0),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get archived decisions", res))
}

func (c *auditController) Logs(ctx *fiber.Ctx) error {
	res, err := c.service.Logs(ctx.UserContext(), ctx.Query("level"), ctx.QueryInt("limit", 0), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get audit logs", res))
}

func (c *auditController) Log(ctx *fiber.Ctx) error {
	res, err := c.service.Log(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get audit log", res))
}
