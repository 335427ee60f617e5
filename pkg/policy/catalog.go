package policy

import (
	_ "embed"
	"fmt"
	"os"

	"cora-leaf-be/internal/entity"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalog is the seed data every new session starts from.
type Catalog struct {
	Customers []CatalogCustomer `yaml:"customers"`
	Products  []CatalogProduct  `yaml:"products"`
}

type CatalogCustomer struct {
	Name                 string `yaml:"name"`
	Industry             string `yaml:"industry"`
	AnnualSpend          string `yaml:"annual_spend"`
	RiskTier             string `yaml:"risk_tier"`
	History              string `yaml:"history"`
	PainPoints           string `yaml:"pain_points"`
	DiscountLimitPercent *int   `yaml:"discount_limit_percent"`
	Email                string `yaml:"email"`
	Company              string `yaml:"company"`
	Notes                string `yaml:"notes"`
}

type CatalogProduct struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
}

func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a YAML catalog from path, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return &catalog, nil
}

// Seed adds every catalog entry to store, stopping at the first invalid one.
func (c *Catalog) Seed(store *Store) error {
	for _, cc := range c.Customers {
		_, err := store.AddCustomer(cc.Name, CustomerFields{
			Industry:             cc.Industry,
			AnnualSpend:          cc.AnnualSpend,
			RiskTier:             entity.RiskTier(cc.RiskTier),
			History:              cc.History,
			PainPoints:           cc.PainPoints,
			DiscountLimitPercent: cc.DiscountLimitPercent,
			Email:                cc.Email,
			Company:              cc.Company,
			Notes:                cc.Notes,
		})
		if err != nil {
			return fmt.Errorf("seed customer %q: %w", cc.Name, err)
		}
	}

	for _, cp := range c.Products {
		if _, err := store.AddProduct(cp.Name, ProductFields{Price: cp.Price, Description: cp.Description}); err != nil {
			return fmt.Errorf("seed product %q: %w", cp.Name, err)
		}
	}

	return nil
}

// First returns the name of the first catalog customer, or "" for an empty catalog.
func (c *Catalog) First() string {
	if len(c.Customers) == 0 {
		return ""
	}
	return c.Customers[0].Name
}
