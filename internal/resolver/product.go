package resolver

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/altonotch/dilli/internal/model"
	"github.com/altonotch/dilli/internal/text"
)

// ResolveProduct finds an existing product for a free-text name, or nil.
// Exact bilingual name match first, then a brand-scoped prefix-containment
// pass, then an unscoped one. No disambiguation list: the first hit wins.
func (r *Resolver) ResolveProduct(ctx context.Context, name, brand string) (*model.Product, error) {
	name = strings.TrimSpace(name)

	product, err := r.products.FindByName(ctx, name, brand)
	if err != nil {
		return nil, err
	}
	if product != nil {
		return product, nil
	}
	if brand != "" {
		if product, err = r.products.FindByName(ctx, name, ""); err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
	}

	chunk := productChunk(name)
	if chunk == "" {
		return nil, nil
	}
	if brand != "" {
		if product, err = r.products.FindByChunk(ctx, chunk, brand); err != nil {
			return nil, err
		}
		if product != nil {
			return product, nil
		}
	}
	return r.products.FindByChunk(ctx, chunk, "")
}

// GetOrCreateProduct resolves the product or creates one, mirroring the
// input's script into both bilingual name fields.
func (r *Resolver) GetOrCreateProduct(ctx context.Context, name, brand string) (*model.Product, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = "Unknown product"
	}

	product, err := r.ResolveProduct(ctx, trimmed, brand)
	if err != nil {
		return nil, err
	}
	if product != nil {
		return product, nil
	}

	product, err = r.products.Create(ctx, model.CreateProductParams{
		NameHe: trimmed,
		NameEn: trimmed,
		Brand:  strings.TrimSpace(brand),
	})
	if err != nil {
		return nil, err
	}
	r.log.Info().Int64("product_id", product.ID).Str("name", trimmed).Msg("Created product from user input")
	return product, nil
}

// SetProductDefaultUnit writes the product's unit template. The repository
// refuses to replace an established template, so this is safe to call on
// every report.
func (r *Resolver) SetProductDefaultUnit(ctx context.Context, id int64, typeHe, typeEn string, quantity decimal.Decimal) error {
	return r.products.SetDefaultUnit(ctx, id, typeHe, typeEn, quantity)
}

// productChunk is the first 3 characters of the normalized name, or the whole
// name if shorter. Queries shorter than 3 normalized characters skip the
// containment pass entirely.
func productChunk(name string) string {
	norm := text.Normalize(name)
	runes := []rune(norm)
	if len(runes) < 3 {
		return ""
	}
	return string(runes[:3])
}
