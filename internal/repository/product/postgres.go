package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pricewatch/internal/domain"
)

const productColumns = `id::text, url, title, currency, COALESCE(image, ''), COALESCE(description, ''),
current_price, original_price, discount_rate, stars, reviews_count, is_out_of_stock,
price_history, lowest_price, highest_price, average_price, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres builds the Postgres-backed repository. A nil logger discards output.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.URL, &p.Title, &p.Currency, &p.Image, &p.Description,
		&p.CurrentPrice, &p.OriginalPrice, &p.DiscountRate, &p.Stars, &p.ReviewsCount, &p.IsOutOfStock,
		&p.PriceHistory, &p.LowestPrice, &p.HighestPrice, &p.AveragePrice, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}

	subs, err := r.ListSubscribers(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Subscribers = subs
	return p, nil
}

func (r *postgresRepo) GetByURL(ctx context.Context, url string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE url = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get url=%s error=%v", url, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) UpsertByURL(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	q := `
INSERT INTO products (id, url, title, currency, image, description,
    current_price, original_price, discount_rate, stars, reviews_count, is_out_of_stock,
    price_history, lowest_price, highest_price, average_price)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (url) DO UPDATE SET
    title = EXCLUDED.title,
    currency = EXCLUDED.currency,
    image = EXCLUDED.image,
    description = EXCLUDED.description,
    current_price = EXCLUDED.current_price,
    original_price = EXCLUDED.original_price,
    discount_rate = EXCLUDED.discount_rate,
    stars = EXCLUDED.stars,
    reviews_count = EXCLUDED.reviews_count,
    is_out_of_stock = EXCLUDED.is_out_of_stock,
    price_history = EXCLUDED.price_history,
    lowest_price = EXCLUDED.lowest_price,
    highest_price = EXCLUDED.highest_price,
    average_price = EXCLUDED.average_price,
    updated_at = now()
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q,
		p.ID, p.URL, p.Title, p.Currency, p.Image, p.Description,
		p.CurrentPrice, p.OriginalPrice, p.DiscountRate, p.Stars, p.ReviewsCount, p.IsOutOfStock,
		p.PriceHistory, p.LowestPrice, p.HighestPrice, p.AveragePrice,
	)
	stored, err := scanProduct(row)
	if err != nil {
		r.logger.Printf("product repo: upsert url=%s error=%v", p.URL, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted url=%s id=%s history=%d", stored.URL, stored.ID, len(stored.PriceHistory))
	return stored, nil
}

func (r *postgresRepo) ListSimilar(ctx context.Context, id string, limit int) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id <> $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, q, id, limit)
	if err != nil {
		r.logger.Printf("product repo: similar id=%s error=%v", id, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *postgresRepo) AddSubscriber(ctx context.Context, productID, email string) (bool, error) {
	const q = `
INSERT INTO product_subscribers (product_id, email)
VALUES ($1, $2)
ON CONFLICT (product_id, email) DO NOTHING
`
	tag, err := r.pool.Exec(ctx, q, productID, email)
	if err != nil {
		r.logger.Printf("product repo: add subscriber product_id=%s error=%v", productID, err)
		return false, err
	}
	added := tag.RowsAffected() > 0
	if added {
		r.logger.Printf("product repo: subscriber added product_id=%s", productID)
	}
	return added, nil
}

func (r *postgresRepo) ListSubscribers(ctx context.Context, productID string) ([]domain.Subscriber, error) {
	const q = `SELECT email FROM product_subscribers WHERE product_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		r.logger.Printf("product repo: list subscribers product_id=%s error=%v", productID, err)
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		if err := rows.Scan(&s.Email); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
