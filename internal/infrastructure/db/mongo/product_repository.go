package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/catalog-api/internal/core/domain"
)

const (
	collectionProducts = "products"
	collectionCounters = "counters"
)

// ProductRepository stores products with integer ids drawn from a counters
// document, so ids look the same as with the relational store.
type ProductRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		col:      db.Collection(collectionProducts),
		counters: db.Collection(collectionCounters),
	}
}

type mongoProduct struct {
	ID            int64                `bson:"_id"`
	Name          string               `bson:"name"`
	Price         primitive.Decimal128 `bson:"price"`
	StockQuantity int                  `bson:"stock_quantity"`
	Description   string               `bson:"description"`
	Version       int64                `bson:"version"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", translate(err))
	}
	defer cur.Close(ctx)

	var docs []mongoProduct
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", translate(err))
	}

	products := make([]domain.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProduct
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, translate(err)
	}
	p, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return fmt.Errorf("encode price: %w", err)
	}

	now := time.Now().UTC()
	doc := mongoProduct{
		ID:            id,
		Name:          p.Name,
		Price:         price,
		StockQuantity: p.StockQuantity,
		Description:   p.Description,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert product: %w", translate(err))
	}

	created, err := doc.toDomain()
	if err != nil {
		return err
	}
	*p = created
	return nil
}

// Replace applies the update with FindOneAndUpdate so the version match and
// the increment happen in a single document operation.
func (r *ProductRepository) Replace(ctx context.Context, p *domain.Product, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return fmt.Errorf("encode price: %w", err)
	}

	filter := bson.M{"_id": p.ID}
	if expectedVersion != 0 {
		filter["version"] = expectedVersion
	}
	update := bson.M{
		"$set": bson.M{
			"name":           p.Name,
			"price":          price,
			"stock_quantity": p.StockQuantity,
			"description":    p.Description,
			"updated_at":     time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	var doc mongoProduct
	err = r.col.FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrConcurrentUpdate
		}
		return fmt.Errorf("update product: %w", translate(err))
	}

	updated, err := doc.toDomain()
	if err != nil {
		return err
	}
	*p = updated
	return nil
}

func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", translate(err))
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionProducts},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next product id: %w", translate(err))
	}
	return counter.Seq, nil
}

func (d *mongoProduct) toDomain() (domain.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return domain.Product{}, fmt.Errorf("decode price of product %d: %w", d.ID, err)
	}
	return domain.Product{
		ID:            d.ID,
		Name:          d.Name,
		Price:         price,
		StockQuantity: d.StockQuantity,
		Description:   d.Description,
		Version:       d.Version,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}, nil
}
