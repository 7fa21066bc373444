// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/danielhkuo/uniforms/models"
)

// Collection names
const (
	usersCollection     = "users"
	formsCollection     = "forms"
	responsesCollection = "responses"
	directoryCollection = "formDirectory"
)

// MongoStore keeps documents in MongoDB collections
type MongoStore struct {
	client    *mongo.Client
	users     *mongo.Collection
	forms     *mongo.Collection
	responses *mongo.Collection
	directory *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// responseDoc adds the owner to a stored response so lookups stay scoped to it
type responseDoc struct {
	models.Response `bson:",inline"`
	UserID          string `bson:"userId"`
}

// OpenMongo connects to uri, pings the primary and ensures indexes in dbName
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	database := client.Database(dbName)
	s := &MongoStore{
		client:    client,
		users:     database.Collection(usersCollection),
		forms:     database.Collection(formsCollection),
		responses: database.Collection(responsesCollection),
		directory: database.Collection(directoryCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = s.forms.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create forms index: %w", err)
	}

	_, err = s.responses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "formId", Value: 1}, {Key: "submittedAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create responses index: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func (s *MongoStore) CreateUser(ctx context.Context, user models.User) error {
	user.CreatedAt = user.CreatedAt.UTC()
	_, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *MongoStore) CreateForm(ctx context.Context, form models.Form) error {
	if form.Questions == nil {
		form.Questions = []models.Question{}
	}
	form.CreatedAt = form.CreatedAt.UTC()
	form.UpdatedAt = form.UpdatedAt.UTC()

	_, err := s.forms.InsertOne(ctx, form)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert form: %w", err)
	}
	return nil
}

func (s *MongoStore) GetForm(ctx context.Context, ownerID, formID string) (models.Form, error) {
	var form models.Form
	err := s.forms.FindOne(ctx, ownedForm(ownerID, formID)).Decode(&form)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Form{}, ErrNotFound
	}
	if err != nil {
		return models.Form{}, fmt.Errorf("failed to query form: %w", err)
	}
	normalizeKinds(&form)
	return form, nil
}

func (s *MongoStore) ListForms(ctx context.Context, ownerID string) ([]models.Form, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.forms.Find(ctx, bson.D{{Key: "userId", Value: ownerID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query forms: %w", err)
	}

	forms := []models.Form{}
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, fmt.Errorf("failed to read forms: %w", err)
	}
	for i := range forms {
		normalizeKinds(&forms[i])
	}
	return forms, nil
}

func (s *MongoStore) UpdateForm(ctx context.Context, ownerID, formID string, upd models.FormUpdate) error {
	set := bson.D{{Key: "updatedAt", Value: upd.UpdatedAt.UTC()}}
	if upd.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *upd.Title})
	}
	if upd.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *upd.Description})
	}
	if upd.Questions != nil {
		questions := *upd.Questions
		if questions == nil {
			questions = []models.Question{}
		}
		set = append(set, bson.E{Key: "questions", Value: questions})
	}

	res, err := s.forms.UpdateOne(ctx, ownedForm(ownerID, formID), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteForm removes the form first, then its responses and directory entry.
// Each step is atomic on its own; a failure part way leaves only unreachable documents.
func (s *MongoStore) DeleteForm(ctx context.Context, ownerID, formID string) error {
	res, err := s.forms.DeleteOne(ctx, ownedForm(ownerID, formID))
	if err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	_, err = s.responses.DeleteMany(ctx, bson.D{{Key: "userId", Value: ownerID}, {Key: "formId", Value: formID}})
	if err != nil {
		return fmt.Errorf("failed to delete responses: %w", err)
	}
	_, err = s.directory.DeleteOne(ctx, bson.D{{Key: "_id", Value: formID}})
	if err != nil {
		return fmt.Errorf("failed to delete directory entry: %w", err)
	}
	return nil
}

func (s *MongoStore) PutDirectoryEntry(ctx context.Context, entry models.DirectoryEntry) error {
	_, err := s.directory.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: entry.FormID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "userId", Value: entry.UserID}}}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert directory entry: %w", err)
	}
	return nil
}

func (s *MongoStore) GetDirectoryEntry(ctx context.Context, formID string) (models.DirectoryEntry, error) {
	var entry models.DirectoryEntry
	err := s.directory.FindOne(ctx, bson.D{{Key: "_id", Value: formID}}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DirectoryEntry{}, ErrNotFound
	}
	if err != nil {
		return models.DirectoryEntry{}, fmt.Errorf("failed to query directory: %w", err)
	}
	return entry, nil
}

func (s *MongoStore) AddResponse(ctx context.Context, ownerID string, resp models.Response) error {
	resp.SubmittedAt = resp.SubmittedAt.UTC()
	_, err := s.responses.InsertOne(ctx, responseDoc{Response: resp, UserID: ownerID})
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

func (s *MongoStore) ListResponses(ctx context.Context, ownerID, formID string) ([]models.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.responses.Find(ctx, bson.D{{Key: "userId", Value: ownerID}, {Key: "formId", Value: formID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}

	var docs []responseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read responses: %w", err)
	}

	responses := make([]models.Response, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, doc.Response)
	}
	return responses, nil
}

// normalizeKinds maps legacy kind spellings written by older clients.
// BSON decoding does not go through QuestionKind.UnmarshalText.
func normalizeKinds(form *models.Form) {
	if form.Questions == nil {
		form.Questions = []models.Question{}
	}
	for i, q := range form.Questions {
		if kind, err := models.ParseQuestionKind(string(q.Kind)); err == nil {
			form.Questions[i].Kind = kind
		}
	}
}

func ownedForm(ownerID, formID string) bson.D {
	return bson.D{{Key: "_id", Value: formID}, {Key: "userId", Value: ownerID}}
}
