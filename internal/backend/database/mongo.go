package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	defaultMongoDatabase   = "imagedepot"
	mongoImagesCollection  = "images"
	mongoConnectTimeout    = 10 * time.Second
	mongoDisconnectTimeout = 5 * time.Second
)

// imageDocument is the persisted shape of an ImageRecord in MongoDB.
type imageDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Filename    string             `bson:"filename"`
	ContentType string             `bson:"contentType"`
	ImageBase64 string             `bson:"imageBase64"`
}

type MongoDatabase struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoDatabase connects to the given URI. The database name is taken from the URI
// path and falls back to "imagedepot".
func NewMongoDatabase(connectionString string) (DatabaseService, error) {
	clientOptions := options.Client().ApplyURI(connectionString)
	if err := clientOptions.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mongodb uri: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	return &MongoDatabase{
		client:     client,
		collection: client.Database(mongoDatabaseName(connectionString)).Collection(mongoImagesCollection),
	}, nil
}

func mongoDatabaseName(connectionString string) string {
	cs, err := connstring.ParseAndValidate(connectionString)
	if err != nil || cs.Database == "" {
		return defaultMongoDatabase
	}
	return cs.Database
}

func (m *MongoDatabase) CreateDatabase(ctx context.Context) error {
	// Filename uniqueness is enforced by the store.
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "filename", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("filename_unique"),
	})
	return err
}

func (m *MongoDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return m.client.Ping(ctx, nil) == nil
}

func (m *MongoDatabase) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoDatabase) CreateImage(ctx context.Context, record *ImageRecord) (*ImageRecord, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}

	doc := toImageDocument(record)
	doc.ID = primitive.NewObjectID()
	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFilename, record.Filename)
		}
		return nil, err
	}
	return fromImageDocument(doc), nil
}

func (m *MongoDatabase) GetAllImages(ctx context.Context) ([]*ImageRecord, error) {
	// ObjectIDs start with a timestamp, so _id order is insertion order.
	cursor, err := m.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []imageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	images := make([]*ImageRecord, 0, len(docs))
	for i := range docs {
		images = append(images, fromImageDocument(&docs[i]))
	}
	return images, nil
}

func (m *MongoDatabase) GetImageByFilename(ctx context.Context, filename string) (*ImageRecord, error) {
	var doc imageDocument
	err := m.collection.FindOne(ctx, bson.M{"filename": filename}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	if err != nil {
		return nil, err
	}
	return fromImageDocument(&doc), nil
}

func (m *MongoDatabase) DeleteImage(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	_, err = m.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return oid, nil
}

func toImageDocument(record *ImageRecord) *imageDocument {
	return &imageDocument{
		Filename:    record.Filename,
		ContentType: record.ContentType,
		ImageBase64: record.ImageData,
	}
}

func fromImageDocument(doc *imageDocument) *ImageRecord {
	return &ImageRecord{
		ID:          doc.ID.Hex(),
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		ImageData:   doc.ImageBase64,
	}
}
