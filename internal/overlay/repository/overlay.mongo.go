package repository

import (
	"context"
	"fmt"

	"overlaysvc/internal/overlay/model"
	"overlaysvc/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type overlayDocument struct {
	ID      any `bson:"_id,omitempty"`
	Type    any `bson:"type"`
	Content any `bson:"content"`
	X       any `bson:"x"`
	Y       any `bson:"y"`
	Width   any `bson:"width"`
	Height  any `bson:"height"`
}

type MongoRepository struct {
	Coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{Coll: coll}
}

func (r *MongoRepository) Create(ctx context.Context, o model.Overlay) (string, error) {
	doc := overlayDocument{
		Type:    o.Type,
		Content: o.Content,
		X:       o.X,
		Y:       o.Y,
		Width:   o.Width,
		Height:  o.Height,
	}
	res, err := r.Coll.InsertOne(ctx, doc)
	if err != nil {
		logger.Sugar.Errorf("Failed to insert overlay: %v", err)
		return "", err
	}
	return idString(res.InsertedID), nil
}

func (r *MongoRepository) List(ctx context.Context) ([]model.Overlay, error) {
	cursor, err := r.Coll.Find(ctx, bson.D{})
	if err != nil {
		logger.Sugar.Errorf("Failed to list overlays: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	overlays := []model.Overlay{}
	for cursor.Next(ctx) {
		var doc overlayDocument
		if err := cursor.Decode(&doc); err != nil {
			logger.Sugar.Errorf("Failed to decode overlay: %v", err)
			return nil, err
		}
		overlays = append(overlays, model.Overlay{
			ID:      idString(doc.ID),
			Type:    doc.Type,
			Content: doc.Content,
			X:       doc.X,
			Y:       doc.Y,
			Width:   doc.Width,
			Height:  doc.Height,
		})
	}
	if err := cursor.Err(); err != nil {
		logger.Sugar.Errorf("Overlay cursor failed: %v", err)
		return nil, err
	}
	return overlays, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, req model.UpdateOverlayRequest) (int64, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return 0, err
	}
	res, err := r.Coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": req.Fields()})
	if err != nil {
		logger.Sugar.Errorf("Failed to update overlay %s: %v", id, err)
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return 0, err
	}
	res, err := r.Coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		logger.Sugar.Errorf("Failed to delete overlay %s: %v", id, err)
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.Coll.Database().Client().Ping(ctx, readpref.Primary())
}

// idString renders any stored _id as a string; documents written by other
// tools may carry non-ObjectID keys.
func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
