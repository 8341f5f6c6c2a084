package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dentalflow/lab-system/internal/core/domain"
)

const (
	collectionProducts = "products"
	collectionColors   = "colors"
)

// CatalogRepository implements ports.CatalogRepository for the product and
// shade-color catalogs.
type CatalogRepository struct {
	db *mongo.Database
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.Collection(collectionProducts).InsertOne(ctx, p)
	return err
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.db.Collection(collectionProducts).
		Find(ctx, bson.M{"active": true}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var products []*domain.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *CatalogRepository) CreateColor(ctx context.Context, c *domain.ShadeColor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.Collection(collectionColors).InsertOne(ctx, c)
	return err
}

func (r *CatalogRepository) ListColors(ctx context.Context) ([]*domain.ShadeColor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.db.Collection(collectionColors).
		Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var colors []*domain.ShadeColor
	if err := cur.All(ctx, &colors); err != nil {
		return nil, err
	}
	return colors, nil
}
