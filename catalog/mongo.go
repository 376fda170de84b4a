package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"skouce/models"
)

// Mongo reads the catalog from the "products" and "facets" collections.
type Mongo struct {
	products *mongo.Collection
	facets   *mongo.Collection
}

func NewMongo(database *mongo.Database) *Mongo {
	return &Mongo{
		products: database.Collection("products"),
		facets:   database.Collection("facets"),
	}
}

// Products returns products in insertion order.
func (m *Mongo) Products(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Product
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return out, nil
}

// Facets returns facet groups ordered by their position field.
func (m *Mongo) Facets(ctx context.Context) ([]models.FacetGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := m.facets.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find facets: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.FacetGroup
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode facets: %w", err)
	}
	return out, nil
}
