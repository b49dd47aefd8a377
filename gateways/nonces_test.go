package gateways

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeNonceCollection keeps documents as bson maps. Inserted structs go
// through bson marshalling, so filters only match when they use the same
// field names the struct tags produce, exactly like a real collection.
type fakeNonceCollection struct {
	docs []bson.M
}

func marshalDoc(v interface{}) bson.M {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		panic(err)
	}
	return doc
}

func (f *fakeNonceCollection) match(filter interface{}) []bson.M {
	conditions, _ := filter.(bson.D)

	var out []bson.M
	for _, doc := range f.docs {
		matched := true
		for _, condition := range conditions {
			if doc[condition.Key] != condition.Value {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, doc)
		}
	}
	return out
}

func (f *fakeNonceCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return int64(len(f.match(filter))), nil
}

func (f *fakeNonceCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	matches := f.match(filter)
	if len(matches) == 0 {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(matches[0], nil, nil)
}

func (f *fakeNonceCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.docs = append(f.docs, marshalDoc(document))
	return &mongo.InsertOneResult{}, nil
}

func (f *fakeNonceCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	updateDoc, _ := update.(bson.M)
	fields, _ := updateDoc["$set"].(bson.M)
	for _, doc := range f.match(filter) {
		for key, value := range fields {
			doc[key] = value
		}
	}
	return &mongo.UpdateResult{}, nil
}

const testSigner = "0x3000000000000000000000000000000000000003"

func TestNonceStoreRecordThenReconcile(t *testing.T) {
	collection := &fakeNonceCollection{}
	store := newNonceStoreWithCollection(collection)
	ctx := context.Background()

	// First sight of the address: pending nonce is trusted and a document
	// is created for it.
	if nonce := store.Reconcile(ctx, testSigner, 7); nonce != 7 {
		t.Error("expected pending nonce 7 for a fresh address, got", nonce)
	}
	if len(collection.docs) != 1 {
		t.Fatal("expected one document after first reconcile, got", len(collection.docs))
	}

	if err := store.Record(ctx, testSigner, 7); err != nil {
		t.Fatal("record:", err)
	}

	// The node still reports 7 pending, the recorded usage must win.
	if nonce := store.Reconcile(ctx, testSigner, 7); nonce != 8 {
		t.Error("expected recorded nonce to bump past a lagging node view, got", nonce)
	}

	// The round trip must reuse the single document, never insert twice.
	if len(collection.docs) != 1 {
		t.Error("expected a single document per address, got", len(collection.docs))
	}
}

func TestNonceStoreAdvancedPendingPrunes(t *testing.T) {
	collection := &fakeNonceCollection{}
	store := newNonceStoreWithCollection(collection)
	ctx := context.Background()

	store.Reconcile(ctx, testSigner, 5)
	if err := store.Record(ctx, testSigner, 5); err != nil {
		t.Fatal("record:", err)
	}

	// The chain moved past the recorded nonce, pending wins and the stale
	// entry is dropped from the document.
	if nonce := store.Reconcile(ctx, testSigner, 9); nonce != 9 {
		t.Error("expected advanced pending nonce 9 to win, got", nonce)
	}

	var record AddressNonce
	if err := store.collection.FindOne(ctx, addressFilter(testSigner)).Decode(&record); err != nil {
		t.Fatal("decode:", err)
	}
	if len(record.LastNonces) != 0 {
		t.Error("expected stale nonces pruned, got", record.LastNonces)
	}
}

func TestNonceStoreNilSafe(t *testing.T) {
	ctx := context.Background()

	var store *NonceStore
	if nonce := store.Reconcile(ctx, testSigner, 3); nonce != 3 {
		t.Error("nil store must trust the pending nonce, got", nonce)
	}
	if err := store.Record(ctx, testSigner, 3); err != nil {
		t.Error("nil store record must be a no-op, got", err)
	}

	empty := NewNonceStore(nil)
	if nonce := empty.Reconcile(ctx, testSigner, 4); nonce != 4 {
		t.Error("store without a collection must trust the pending nonce, got", nonce)
	}
}
