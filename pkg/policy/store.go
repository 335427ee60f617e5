package policy

import (
	"sort"
	"strings"
	"time"

	"cora-leaf-be/internal/entity"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// riskTierLimits is the default discount ceiling per risk tier, used only
// when a customer carries no explicit limit.
var riskTierLimits = map[entity.RiskTier]int{
	entity.RiskTierLow:    15,
	entity.RiskTierMedium: 5,
	entity.RiskTierHigh:   3,
}

type CustomerFields struct {
	Industry             string
	AnnualSpend          string
	RiskTier             entity.RiskTier
	History              string
	PainPoints           string
	DiscountLimitPercent *int
	Email                string
	Company              string
	Notes                string
}

type ProductFields struct {
	Price       string
	Description string
}

// Store is the name-keyed customer and product catalog of one session.
// It is not safe for concurrent use; the owning session serializes access.
type Store struct {
	customers    map[string]*entity.Customer
	products     map[string]*entity.Product
	requireEmail bool
	now          func() time.Time
}

type Option func(*Store)

// WithCustomerManagement makes email a required field on AddCustomer.
func WithCustomerManagement(enabled bool) Option {
	return func(s *Store) {
		s.requireEmail = enabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		customers: make(map[string]*entity.Customer),
		products:  make(map[string]*entity.Product),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) CustomerManagement() bool {
	return s.requireEmail
}

// AddCustomer inserts or overwrites the customer stored under name.
func (s *Store) AddCustomer(name string, fields CustomerFields) (*entity.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, entity.NewValidationError("name", "customer name is required")
	}

	email := strings.TrimSpace(fields.Email)
	if email == "" && s.requireEmail {
		return nil, entity.NewValidationError("email", "email is required in customer management mode")
	}
	if email != "" {
		if err := validate.Var(email, "email"); err != nil {
			return nil, entity.NewValidationError("email", "email address is malformed")
		}
	}

	var limit *int
	if fields.DiscountLimitPercent != nil {
		v := *fields.DiscountLimitPercent
		if v < 0 || v > 100 {
			return nil, entity.NewValidationError("discount_limit_percent", "discount limit must be between 0 and 100")
		}
		limit = &v
	}

	customer := &entity.Customer{
		Name:                 name,
		Industry:             strings.TrimSpace(fields.Industry),
		AnnualSpend:          strings.TrimSpace(fields.AnnualSpend),
		RiskTier:             ParseRiskTier(string(fields.RiskTier)),
		History:              fields.History,
		PainPoints:           fields.PainPoints,
		DiscountLimitPercent: limit,
		Email:                email,
		Company:              strings.TrimSpace(fields.Company),
		Notes:                fields.Notes,
		CreatedAt:            s.now(),
	}
	s.customers[name] = customer

	return copyCustomer(customer), nil
}

func (s *Store) AddProduct(name string, fields ProductFields) (*entity.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, entity.NewValidationError("name", "product name is required")
	}

	product := &entity.Product{
		Name:        name,
		Price:       strings.TrimSpace(fields.Price),
		Description: fields.Description,
		CreatedAt:   s.now(),
	}
	s.products[name] = product

	p := *product
	return &p, nil
}

func (s *Store) Get(name string) (*entity.Customer, error) {
	customer, ok := s.customers[strings.TrimSpace(name)]
	if !ok {
		return nil, entity.NewNotFoundError("customer", name)
	}
	return copyCustomer(customer), nil
}

func (s *Store) GetProduct(name string) (*entity.Product, error) {
	product, ok := s.products[strings.TrimSpace(name)]
	if !ok {
		return nil, entity.NewNotFoundError("product", name)
	}
	p := *product
	return &p, nil
}

func (s *Store) Customers() []*entity.Customer {
	result := make([]*entity.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		result = append(result, copyCustomer(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (s *Store) Products() []*entity.Product {
	result := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (s *Store) Len() int {
	return len(s.customers)
}

func copyCustomer(c *entity.Customer) *entity.Customer {
	cp := *c
	if c.DiscountLimitPercent != nil {
		v := *c.DiscountLimitPercent
		cp.DiscountLimitPercent = &v
	}
	return &cp
}
