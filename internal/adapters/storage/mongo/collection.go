package mongo

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collection[T any] struct {
	coll *mongo.Collection
}

// NewCollection envuelve una colección Mongo. Los documentos usan _id string.
func NewCollection[T any](db *mongo.Database, name string) docstore.Collection[T] {
	return &collection[T]{coll: db.Collection(name)}
}

func (c *collection[T]) Insert(ctx context.Context, id string, doc T) error {
	m, err := withID(doc, id)
	if err != nil {
		return err
	}
	_, err = c.coll.InsertOne(ctx, m)
	if mongo.IsDuplicateKeyError(err) {
		return docstore.ErrDuplicate
	}
	return err
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, docstore.ErrNotFound
	}
	return out, err
}

func (c *collection[T]) Find(ctx context.Context, f docstore.Filter, opts docstore.FindOptions) ([]T, error) {
	fo := options.Find()
	if opts.Sort != "" {
		dir := 1
		if opts.Desc {
			dir = -1
		}
		fo.SetSort(bson.D{{Key: opts.Sort, Value: dir}})
	}
	if opts.Limit > 0 {
		fo.SetLimit(int64(opts.Limit))
	}

	cur, err := c.coll.Find(ctx, filter(f), fo)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collection[T]) Count(ctx context.Context, f docstore.Filter) (int64, error) {
	return c.coll.CountDocuments(ctx, filter(f))
}

func (c *collection[T]) Replace(ctx context.Context, id string, doc T) error {
	m, err := withID(doc, id)
	if err != nil {
		return err
	}
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, m)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (c *collection[T]) Update(ctx context.Context, id string, match docstore.Filter, set docstore.Fields) error {
	q := filter(match)
	q["_id"] = id

	res, err := c.coll.UpdateOne(ctx, q, bson.M{"$set": bson.M(set)})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Distinguir "no existe" de "no cumple el match".
	n, err := c.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	return docstore.ErrConflict
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func filter(f docstore.Filter) bson.M {
	out := bson.M{}
	for k, v := range f {
		out[k] = v
	}
	return out
}

func withID(doc any, id string) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m["_id"] = id
	return m, nil
}
