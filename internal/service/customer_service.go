package service

import (
	"context"

	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/pkg/logger"
	"cora-leaf-be/pkg/policy"
	"cora-leaf-be/pkg/session"

	"github.com/google/uuid"
)

type ICustomerService interface {
	AddCustomer(ctx context.Context, sessionId uuid.UUID, req *dto.CustomerRequest) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context, sessionId uuid.UUID) ([]dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, sessionId uuid.UUID, name string) (*dto.CustomerResponse, error)
	AddProduct(ctx context.Context, sessionId uuid.UUID, req *dto.ProductRequest) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, sessionId uuid.UUID) ([]dto.ProductResponse, error)
	GetProduct(ctx context.Context, sessionId uuid.UUID, name string) (*dto.ProductResponse, error)
}

type customerService struct {
	sessions SessionLocator
	logger   logger.ILogger
}

func NewCustomerService(sessions SessionLocator, log logger.ILogger) ICustomerService {
	return &customerService{
		sessions: sessions,
		logger:   log,
	}
}

func (c *customerService) AddCustomer(ctx context.Context, sessionId uuid.UUID, req *dto.CustomerRequest) (*dto.CustomerResponse, error) {
	sess, err := c.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var res dto.CustomerResponse
	err = runInput(sess, func(w *session.Workspace) error {
		customer, err := w.Store.AddCustomer(req.Name, policy.CustomerFields{
			Industry:             req.Industry,
			AnnualSpend:          req.AnnualSpend,
			RiskTier:             policy.ParseRiskTier(req.RiskTier),
			History:              req.History,
			PainPoints:           req.PainPoints,
			DiscountLimitPercent: req.DiscountLimitPercent,
			Email:                req.Email,
			Company:              req.Company,
			Notes:                req.Notes,
		})
		if err != nil {
			return err
		}
		res = newCustomerResponse(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("CUSTOMER", "Customer stored", map[string]interface{}{
		"session_id": sessionId.String(),
		"customer":   res.Name,
	})
	return &res, nil
}

func (c *customerService) ListCustomers(ctx context.Context, sessionId uuid.UUID) ([]dto.CustomerResponse, error) {
	sess, err := c.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var res []dto.CustomerResponse
	err = sess.With(func(w *session.Workspace) error {
		customers := w.Store.Customers()
		res = make([]dto.CustomerResponse, 0, len(customers))
		for _, customer := range customers {
			res = append(res, newCustomerResponse(customer))
		}
		return nil
	})
	return res, err
}

func (c *customerService) GetCustomer(ctx context.Context, sessionId uuid.UUID, name string) (*dto.CustomerResponse, error) {
	sess, err := c.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var res dto.CustomerResponse
	err = sess.With(func(w *session.Workspace) error {
		customer, err := w.Store.Get(name)
		if err != nil {
			return err
		}
		res = newCustomerResponse(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *customerService) AddProduct(ctx context.Context, sessionId uuid.UUID, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	sess, err := c.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var res dto.ProductResponse
	err = runInput(sess, func(w *session.Workspace) error {
		product, err := w.Store.AddProduct(req.Name, policy.ProductFields{
			Price:       req.Price,
			Description: req.Description,
		})
		if err != nil {
			return err
		}
		res = dto.NewProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *customerService) ListProducts(ctx context.Context, sessionId uuid.UUID) ([]dto.ProductResponse, error) {
	sess, err := c.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var res []dto.ProductResponse
	err = sess.With(func(w *session.Workspace) error {
		products := w.Store.Products()
		res = make([]dto.ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, dto.NewProductResponse(p))
		}
		return nil
	})
	return res, err
}

func (c *customerService) GetProduct(ctx context.Context, sessionId uuid.UUID, name string) (*dto.ProductResponse, error) {
	sess, err := c.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var res dto.ProductResponse
	err = sess.With(func(w *session.Workspace) error {
		product, err := w.Store.GetProduct(name)
		if err != nil {
			return err
		}
		res = dto.NewProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// newCustomerResponse builds the customer card. A limit that cannot be
// resolved is reported on the card instead of failing the read.
func newCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	res := dto.CustomerResponse{
		Name:                 c.Name,
		Industry:             c.Industry,
		AnnualSpend:          c.AnnualSpend,
		RiskTier:             string(c.RiskTier),
		History:              c.History,
		PainPoints:           c.PainPoints,
		DiscountLimitPercent: c.DiscountLimitPercent,
		Email:                c.Email,
		Company:              c.Company,
		Notes:                c.Notes,
		CreatedAt:            c.CreatedAt,
	}

	limit, err := policy.ResolveDiscountLimit(c)
	if err != nil {
		res.LimitError = err.Error()
		return res
	}
	percent := limit.Percent
	res.ResolvedLimitPercent = &percent
	res.LimitSource = string(limit.Source)
	return res
}
