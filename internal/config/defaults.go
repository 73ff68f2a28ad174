package config

import (
	_ "embed"

	"github.com/rgehrsitz/goalfund/internal/domain"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// DefaultCatalog returns the built-in goal and profile catalog.
func DefaultCatalog() (*domain.Catalog, error) {
	return NewInputParser().Parse(defaultCatalogYAML)
}

// LoadCatalog loads the catalog at path, or the built-in catalog when path is empty.
func LoadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	return NewInputParser().LoadFromFile(path)
}
