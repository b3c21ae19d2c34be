package dynamodb

import (
	"context"
	"sort"
	"strings"

	"storeadmin/application/ports"
	"storeadmin/domain/core/entities"
	"storeadmin/pkg/common"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"go.uber.org/zap"
)

const productType = "PRODUCT"

// ProductRepository stores products in the entity index only.
type ProductRepository struct {
	store *entityStore[entities.Product]
}

func NewProductRepository(client Client, tables TableConfig, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{store: newEntityStore[entities.Product](client, tables, productType, "product", logger)}
}

func (r *ProductRepository) Save(ctx context.Context, product *entities.Product) error {
	rec := r.store.wrap(product.ID, product.CreatedAt, nil, product)
	rec.SearchName = strings.ToLower(product.Name)
	return r.store.put(ctx, product.ID, rec)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	return r.store.get(ctx, id)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.store.remove(ctx, id)
}

func (r *ProductRepository) List(ctx context.Context) ([]*entities.Product, error) {
	return r.store.byCreation(ctx, creationQuery{})
}

func (r *ProductRepository) ListIDs(ctx context.Context) ([]string, error) {
	return r.store.projectedIDs(ctx)
}

func (r *ProductRepository) Latest(ctx context.Context, limit int) ([]*entities.Product, error) {
	return r.store.byCreation(ctx, creationQuery{newestFirst: true, limit: limit})
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	projection := expression.NamesList(expression.Name("Data.Category"))
	products, err := r.store.byCreation(ctx, creationQuery{projection: &projection})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Search filters server-side, then sorts and pages the matches in memory.
func (r *ProductRepository) Search(ctx context.Context, search ports.ProductSearch) ([]*entities.Product, int, error) {
	var conds []expression.ConditionBuilder
	if search.Name != "" {
		conds = append(conds, expression.Name("SearchName").Contains(strings.ToLower(search.Name)))
	}
	if search.Category != "" {
		conds = append(conds, expression.Name("Data.Category").Equal(expression.Value(search.Category)))
	}
	if search.MaxPrice != nil {
		conds = append(conds, expression.Name("Data.Price").LessThanEqual(expression.Value(*search.MaxPrice)))
	}

	q := creationQuery{}
	if filter, ok := allOf(conds); ok {
		q.filter = &filter
	}
	matches, err := r.store.byCreation(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	switch search.Sort {
	case ports.SortPriceAsc:
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Price < matches[j].Price })
	case ports.SortPriceDesc:
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Price > matches[j].Price })
	}

	return common.Page(matches, search.Page, search.PageSize), len(matches), nil
}

func (r *ProductRepository) CreatedBetween(ctx context.Context, window ports.TimeRange) ([]*entities.Product, error) {
	return r.store.byCreation(ctx, creationQuery{window: &window})
}

func allOf(conds []expression.ConditionBuilder) (expression.ConditionBuilder, bool) {
	switch len(conds) {
	case 0:
		return expression.ConditionBuilder{}, false
	case 1:
		return conds[0], true
	default:
		return expression.And(conds[0], conds[1], conds[2:]...), true
	}
}
