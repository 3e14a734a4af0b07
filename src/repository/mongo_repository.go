package repository

import (
	"context"
	"errors"
	"fmt"

	"Backend-FormGen/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore เก็บ forms และ submissions ใน MongoDB
type MongoStore struct {
	client      *mongo.Client
	forms       *mongo.Collection
	submissions *mongo.Collection
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		client:      client,
		forms:       db.Collection("forms"),
		submissions: db.Collection("submissions"),
	}
}

// EnsureIndexes creates the indexes the list queries rely on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.forms.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("user_created"),
	})
	if err != nil {
		return err
	}
	_, err = s.submissions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "formId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("form_created"),
	})
	return err
}

func (s *MongoStore) CreateForm(ctx context.Context, form *models.Form) error {
	if form.ID == "" {
		form.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.forms.InsertOne(ctx, form); err != nil {
		return fmt.Errorf("insert form: %w", err)
	}
	return nil
}

func (s *MongoStore) GetForm(ctx context.Context, id string) (*models.Form, error) {
	var form models.Form
	err := s.forms.FindOne(ctx, bson.M{"_id": id}).Decode(&form)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

func (s *MongoStore) ListFormsByUser(ctx context.Context, userID string) ([]models.Form, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.forms.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := []models.Form{}
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// DeleteForm ลบฟอร์มและ submissions ทั้งหมดของฟอร์มนั้น
func (s *MongoStore) DeleteForm(ctx context.Context, id string) error {
	res, err := s.forms.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := s.submissions.DeleteMany(ctx, bson.M{"formId": id}); err != nil {
		return fmt.Errorf("delete submissions of form %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.submissions.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *MongoStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	err := s.submissions.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *MongoStore) ListSubmissions(ctx context.Context, formID string, skip, limit int64) ([]models.Submission, error) {
	opts := options.Find().
		SetSkip(skip).
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.submissions.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := []models.Submission{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *MongoStore) ListSubmissionsByForms(ctx context.Context, formIDs []string, limit int64) ([]models.Submission, error) {
	subs := []models.Submission{}
	if len(formIDs) == 0 {
		return subs, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.submissions.Find(ctx, bson.M{"formId": bson.M{"$in": formIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *MongoStore) CountSubmissions(ctx context.Context, formID string) (int64, error) {
	return s.submissions.CountDocuments(ctx, bson.M{"formId": formID})
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
