// Package db
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TokerMgo struct {
	DB  *mongo.Database
	col *mongo.Collection
}

func (w *TokerMgo) Database(db *mongo.Database) {
	w.DB = db
}

func (w *TokerMgo) C(name string) *TokerMgo {
	w.col = w.DB.Collection(name)
	return w
}

func (w *TokerMgo) EnsureIndex(model []mongo.IndexModel) error {
	var err error
	opts := options.CreateIndexes().SetMaxTime(5 * time.Second)
	if len(model) == 1 {
		_, err = w.col.Indexes().CreateOne(context.Background(), model[0], opts)
	} else if len(model) > 1 {
		_, err = w.col.Indexes().CreateMany(context.Background(), model, opts)
	}
	return err
}

func (w *TokerMgo) Upsert(filter interface{}, update interface{},
	opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	opts = append(opts, options.Update().SetUpsert(true))
	return w.col.UpdateOne(context.Background(), filter, bson.M{"$set": update}, opts...)
}

func (w *TokerMgo) Insert(document interface{},
	opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return w.col.InsertOne(context.Background(), document, opts...)
}

func (w *TokerMgo) Find(filter interface{},
	opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return w.col.Find(context.Background(), filter, opts...)
}

func (w *TokerMgo) FindOne(filter interface{},
	opts ...*options.FindOneOptions) *mongo.SingleResult {
	return w.col.FindOne(context.Background(), filter, opts...)
}

func (w *TokerMgo) Count(filter interface{},
	opts ...*options.CountOptions) (int64, error) {
	return w.col.CountDocuments(context.Background(), filter, opts...)
}

func (w *TokerMgo) RemoveAll(filter interface{},
	opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return w.col.DeleteMany(context.Background(), filter, opts...)
}

func (w *TokerMgo) DropDatabase(ctx context.Context) error {
	return w.DB.Drop(ctx)
}
