package repo

import (
	"encoding/json"
	"fmt"
	"io"

	"halalfood-backend/internal/domain"
)

type catalogSeed struct {
	Menu    []domain.MenuItem `json:"menu"`
	Reviews []domain.Review   `json:"reviews"`
}

// ReadCatalogSeed decodes {"menu":[...],"reviews":[...]}, the same document
// shapes the API serves.
func ReadCatalogSeed(r io.Reader) ([]domain.MenuItem, []domain.Review, error) {
	var seed catalogSeed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return nil, nil, err
	}
	for i, m := range seed.Menu {
		if m.Name == "" {
			return nil, nil, fmt.Errorf("menu[%d]: name required", i)
		}
		if m.Price.IsNegative() {
			return nil, nil, fmt.Errorf("menu[%d]: negative price", i)
		}
	}
	return seed.Menu, seed.Reviews, nil
}
