package gateways

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddressNonce tracks the nonces this service has already used for a signer
// address, guarding against a lagging pending-nonce view from the node.
type AddressNonce struct {
	AddressHex string   `bson:"address"`
	LastNonces []uint64 `bson:"lastnonces"`
}

// nonceCollection is the slice of mongo.Collection the store calls, split out
// so tests can run against an in-memory document set.
type nonceCollection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// NonceStore is mongo backed nonce bookkeeping. A nil store is valid and
// means the chain-reported pending nonce is trusted as is.
type NonceStore struct {
	collection nonceCollection
}

func NewNonceStore(collection *mongo.Collection) *NonceStore {
	if collection == nil {
		return &NonceStore{}
	}
	return &NonceStore{collection: collection}
}

func newNonceStoreWithCollection(collection nonceCollection) *NonceStore {
	return &NonceStore{collection: collection}
}

// addressFilter must use the bson field names of AddressNonce, queries and
// updates go through it so the names cannot drift from the struct tags.
func addressFilter(addressHex string) bson.D {
	return bson.D{{Key: "address", Value: addressHex}}
}

// Reconcile compares the chain-reported pending nonce against recorded
// usage and bumps past any nonce already spent. Lookup failures fall back
// to the pending nonce so a store outage never blocks submission.
func (s *NonceStore) Reconcile(ctx context.Context, addressHex string, pendingNonce uint64) uint64 {
	if s == nil || s.collection == nil {
		return pendingNonce
	}

	record, err := s.lastUsedNonce(ctx, addressHex, pendingNonce)
	if err != nil {
		log.Error("Nonce lookup failed, using pending nonce: ", err)
		return pendingNonce
	}

	if len(record.LastNonces) >= 1 && record.LastNonces[len(record.LastNonces)-1] >= pendingNonce {
		return record.LastNonces[len(record.LastNonces)-1] + 1
	}
	return pendingNonce
}

// Record appends a spent nonce for the address.
func (s *NonceStore) Record(ctx context.Context, addressHex string, nonce uint64) error {
	if s == nil || s.collection == nil {
		return nil
	}

	filter := addressFilter(addressHex)
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil || count == 0 {
		return err
	}

	var record AddressNonce
	err = s.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		return err
	}
	record.LastNonces = append(record.LastNonces, nonce)

	update := bson.M{"$set": bson.M{"lastnonces": record.LastNonces}}
	_, err = s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	log.Info("updated nonce for ", addressHex)
	return nil
}

func (s *NonceStore) lastUsedNonce(ctx context.Context, addressHex string, pendingNonce uint64) (AddressNonce, error) {
	filter := addressFilter(addressHex)
	count, err := s.collection.CountDocuments(ctx, filter)
	var record AddressNonce
	if err != nil {
		return record, err
	} else if count == 0 {
		record.AddressHex = addressHex
		_, err = s.collection.InsertOne(ctx, record)
		if err != nil {
			return record, err
		}
	} else if count == 1 {
		err = s.collection.FindOne(ctx, filter).Decode(&record)
		if err != nil {
			return record, err
		}

		// Drop nonces the chain has moved past already.
		i := 0
		for ; i < len(record.LastNonces); i++ {
			if record.LastNonces[i] >= pendingNonce {
				break
			}
		}
		if i != 0 {
			record.LastNonces = record.LastNonces[i:]
			_, err = s.collection.UpdateOne(ctx, filter,
				bson.M{"$set": bson.M{"lastnonces": record.LastNonces}})
			if err != nil {
				return record, err
			}
		}
	} else {
		return record, fmt.Errorf("multiple nonce documents for address %s", addressHex)
	}

	return record, nil
}
