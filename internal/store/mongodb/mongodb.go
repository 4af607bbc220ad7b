package mongodb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Davidnet/BookWise/internal/store"
)

const documentsCollection = "documents"

type document struct {
	Key        string `bson:"_id"`
	Collection string `bson:"collection"`
	DocID      string `bson:"doc_id"`
	Data       bson.M `bson:"data"`
	CreatedTs  int64  `bson:"created_ts"`
	UpdatedTs  int64  `bson:"updated_ts"`
}

// DB keeps every collection in one MongoDB collection keyed by
// "<collection>/<id>". Batches need a replica set for transactions.
type DB struct {
	client    *mongo.Client
	documents *mongo.Collection
}

func NewDB(ctx context.Context, uri, database string) (*DB, error) {
	if uri == "" {
		return nil, errors.New("MongoDB URI is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(err, "failed to ping mongodb")
	}

	return &DB{
		client:    client,
		documents: client.Database(database).Collection(documentsCollection),
	}, nil
}

// Migrate creates the index used to list a collection in id order.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.documents.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "collection", Value: 1}, {Key: "doc_id", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create documents index")
	}
	return nil
}

func (d *DB) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	var doc document
	err := d.documents.FindOne(ctx, bson.M{"_id": documentKey(collection, id)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get document")
	}
	return toStoreDocument(&doc)
}

func (d *DB) List(ctx context.Context, collection string) ([]*store.Document, error) {
	cursor, err := d.documents.Find(ctx, bson.M{"collection": collection},
		options.Find().SetSort(bson.D{{Key: "doc_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}
	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to decode documents")
	}

	list := make([]*store.Document, 0, len(docs))
	for i := range docs {
		doc, err := toStoreDocument(&docs[i])
		if err != nil {
			return nil, err
		}
		list = append(list, doc)
	}
	return list, nil
}

func (d *DB) Set(ctx context.Context, collection, id string, data json.RawMessage) error {
	return d.set(ctx, collection, id, data)
}

func (d *DB) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	update, err := mergeUpdate(fields)
	if err != nil {
		return err
	}
	result, err := d.documents.UpdateOne(ctx, bson.M{"_id": documentKey(collection, id)}, update)
	if err != nil {
		return errors.Wrap(err, "failed to update document")
	}
	if result.MatchedCount == 0 {
		return store.ErrDocumentNotFound
	}
	return nil
}

func (d *DB) Delete(ctx context.Context, collection, id string) error {
	if _, err := d.documents.DeleteOne(ctx, bson.M{"_id": documentKey(collection, id)}); err != nil {
		return errors.Wrap(err, "failed to delete document")
	}
	return nil
}

// Batch applies the writes inside a multi-document transaction.
func (d *DB) Batch(ctx context.Context, writes []store.Write) error {
	session, err := d.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "failed to start session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, write := range writes {
			switch write.Op {
			case store.WriteSet:
				if err := d.set(sc, write.Collection, write.ID, write.Data); err != nil {
					return nil, err
				}
			case store.WriteDelete:
				if err := d.Delete(sc, write.Collection, write.ID); err != nil {
					return nil, err
				}
			default:
				return nil, errors.Errorf("unknown write op %d", write.Op)
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to apply batch")
	}
	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

func (d *DB) Close() error {
	return d.client.Disconnect(context.Background())
}

func (d *DB) set(ctx context.Context, collection, id string, data json.RawMessage) error {
	fields := bson.M{}
	if err := bson.UnmarshalExtJSON(data, false, &fields); err != nil {
		return errors.Wrapf(err, "document %s/%s is not valid JSON", collection, id)
	}
	now := time.Now().Unix()
	update := bson.M{
		"$set": bson.M{
			"collection": collection,
			"doc_id":     id,
			"data":       fields,
			"updated_ts": now,
		},
		"$setOnInsert": bson.M{"created_ts": now},
	}
	_, err := d.documents.UpdateOne(ctx, bson.M{"_id": documentKey(collection, id)}, update,
		options.Update().SetUpsert(true))
	if err != nil {
		return errors.Wrap(err, "failed to set document")
	}
	return nil
}

func documentKey(collection, id string) string {
	return collection + "/" + id
}

// mergeUpdate builds the $set/$unset update for a merge. Values go through
// JSON first so json tags decide the stored field names.
func mergeUpdate(fields map[string]any) (bson.M, error) {
	set := bson.M{"updated_ts": time.Now().Unix()}
	unset := bson.M{}
	for key, value := range fields {
		if value == nil {
			unset["data."+key] = ""
			continue
		}
		converted, err := toBSONValue(value)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode field %s", key)
		}
		set["data."+key] = converted
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}

func toBSONValue(value any) (any, error) {
	raw, err := json.Marshal(map[string]any{"v": value})
	if err != nil {
		return nil, err
	}
	wrapper := bson.M{}
	if err := bson.UnmarshalExtJSON(raw, false, &wrapper); err != nil {
		return nil, err
	}
	return wrapper["v"], nil
}

func toStoreDocument(doc *document) (*store.Document, error) {
	data, err := bson.MarshalExtJSON(doc.Data, false, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode document data")
	}
	return &store.Document{
		Collection: doc.Collection,
		ID:         doc.DocID,
		Data:       data,
		CreatedTs:  doc.CreatedTs,
		UpdatedTs:  doc.UpdatedTs,
	}, nil
}

var _ store.Driver = (*DB)(nil)
