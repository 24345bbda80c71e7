package pgrepo

import (
	"context"
	"strings"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/pkg/uow"
)

type ProductRepository struct {
	db uow.DBTX
}

func NewProductRepository(db uow.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, title, description, price, image, category, tech_stack, features`

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (title, description, price, image, category, tech_stack, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	created, err := r.scanProduct(r.db.QueryRow(ctx, query,
		product.Title,
		product.Description,
		product.Price,
		product.Image,
		product.Category,
		joinList(product.TechStack),
		joinList(product.Features),
	))
	if err != nil {
		return nil, convertErr(err, "creating product %s", product.Title)
	}
	return created, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := r.scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, convertErr(err, "finding product by id %d", id)
	}
	return product, nil
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, convertErr(err, "listing products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, scanErr := r.scanProduct(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing products")
		}
		products = append(products, *product)
	}
	return products, convertErr(rows.Err(), "listing products")
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET title = $2, description = $3, price = $4, image = $5, category = $6,
		    tech_stack = $7, features = $8
		WHERE id = $1
		RETURNING ` + productColumns

	updated, err := r.scanProduct(r.db.QueryRow(ctx, query,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.Image,
		product.Category,
		joinList(product.TechStack),
		joinList(product.Features),
	))
	if err != nil {
		return nil, convertErr(err, "updating product %d", product.ID)
	}
	return updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting product %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting product %d", id)
	}
	return nil
}

func (r *ProductRepository) scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	var techStack, features string
	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.Image,
		&product.Category,
		&techStack,
		&features,
	)
	if err != nil {
		return nil, err
	}
	product.TechStack = splitList(techStack)
	product.Features = splitList(features)
	return &product, nil
}

// Списки tech_stack/features хранятся строкой через запятую, как в исходной
// схеме каталога.
func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
