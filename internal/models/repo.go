package models

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/tampabay/internal/helpers"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

func init() {
	if err := RegisterValidations(Validate); err != nil {
		panic(err)
	}
}

// RegisterValidations installs the wire field names and the "nomarkup" rule on v.
// Both the service-level Validate and gin's binding validator use it.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(JSONFieldName)
	return v.RegisterValidation("nomarkup", func(fl validator.FieldLevel) bool {
		return !helpers.HasMarkup(fl.Field().String())
	})
}

// JSONFieldName reports struct fields by their wire name in validation errors.
func JSONFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// PostgresRepo implements EventsRepo, ReviewsRepo and UserRepo over bun.
type PostgresRepo struct {
	db *bun.DB
}

func PostgresNewRepo(db *bun.DB) *PostgresRepo {
	return &PostgresRepo{
		db: db,
	}
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}
