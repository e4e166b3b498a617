package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/warehouse-registry/internal/domain"
)

const dateLayout = time.DateOnly

// Clock returns the current time
type Clock func() time.Time

// ToDomain builds the domain product described by the request. Categories are
// resolved through the given registry so equal names share one value.
func (req *CreateProductRequest) ToDomain(categories *domain.CategoryRegistry) (*domain.Product, error) {
	id := uuid.New()
	if strings.TrimSpace(req.ID) != "" {
		parsed, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: product id: %v", domain.ErrInvalidArgument, err)
		}
		id = parsed
	}

	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	category, err := categories.Of(req.Category)
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.KindFood:
		expiresOn, err := time.Parse(dateLayout, req.ExpirationDate)
		if err != nil {
			return nil, fmt.Errorf("%w: expiration_date must be YYYY-MM-DD", domain.ErrInvalidArgument)
		}
		return domain.NewFoodProduct(id, req.Name, category, req.Price, expiresOn, req.WeightKg)
	default:
		return domain.NewElectronicsProduct(id, req.Name, category, req.Price, req.WarrantyMonths, req.WeightKg)
	}
}
