package controller

import (
	"net/url"

	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/pkg/serverutils"
	"cora-leaf-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICustomerController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	AddCustomer(ctx *fiber.Ctx) error
	ListCustomers(ctx *fiber.Ctx) error
	GetCustomer(ctx *fiber.Ctx) error
	AddProduct(ctx *fiber.Ctx) error
	ListProducts(ctx *fiber.Ctx) error
	GetProduct(ctx *fiber.Ctx) error
}

type customerController struct {
	service service.ICustomerService
}

func NewCustomerController(service service.ICustomerService) ICustomerController {
	return &customerController{service: service}
}

func (c *customerController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/customer/v1", auth)
	h.Get("", c.ListCustomers)
	h.Post("", c.AddCustomer)
	h.Get("/:name", c.GetCustomer)

	p := r.Group("/product/v1", auth)
	p.Get("", c.ListProducts)
	p.Post("", c.AddProduct)
	p.Get("/:name", c.GetProduct)
}

func (c *customerController) AddCustomer(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.CustomerRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddCustomer(ctx.UserContext(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Customer stored", res))
}

func (c *customerController) ListCustomers(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListCustomers(ctx.UserContext(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get customers", res))
}

func (c *customerController) GetCustomer(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	name, err := url.PathUnescape(ctx.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer name")
	}

	res, err := c.service.GetCustomer(ctx.UserContext(), sessionId, name)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get customer", res))
}

func (c *customerController) AddProduct(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddProduct(ctx.UserContext(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Product stored", res))
}

func (c *customerController) ListProducts(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListProducts(ctx.UserContext(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get products", res))
}

func (c *customerController) GetProduct(ctx *fiber.Ctx) error {
	sessionId, err := serverutils.SessionId(ctx)
	if err != nil {
		return err
	}

	name, err := url.PathUnescape(ctx.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product name")
	}

	res, err := c.service.GetProduct(ctx.UserContext(), sessionId, name)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get product", res))
}
