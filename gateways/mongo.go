package gateways

import (
	"context"
	"time"

	"finco/swapservice/common"
	swaperrors "finco/swapservice/errors"

	log "github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database holds the collections the service uses. Nonce bookkeeping is the
// only persisted state, there is no trade history.
type Database struct {
	Nonces *mongo.Collection
}

// ConnectDB creates a MongoDB client
func ConnectDB(env *common.ENVConfigs) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(env.MongoDbConnectionString))
	if err != nil {
		return nil, swaperrors.BuildAndLogErrorMsg(swaperrors.DBInitializationError, err)
	}
	err = c.Ping(ctx, nil)
	if err != nil {
		log.Error("error Ping DB: ", swaperrors.BuildErrMsg(swaperrors.DBConnectionError, err))
		return nil, swaperrors.BuildErrMsg(swaperrors.DBConnectionError, err)
	}

	var databaseCollections Database
	database := c.Database(env.MongoDatabase)
	databaseCollections.Nonces = database.Collection(env.NonceCollectionName)

	return &databaseCollections, nil
}
