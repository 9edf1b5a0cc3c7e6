package store

import (
	"context"
	"fmt"
	"regexp"

	"civic-reporter-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo persists issues and users one document per record.
type Mongo struct {
	issues *mongo.Collection
	users  *mongo.Collection
	meta   *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		issues: db.Collection("issues"),
		users:  db.Collection("users"),
		meta:   db.Collection("meta"),
	}
}

func issueQuery(filter IssueFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		// The search box means a literal substring, not a pattern.
		pattern := regexp.QuoteMeta(filter.Search)
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
			{"category": bson.M{"$regex": pattern, "$options": "i"}},
			{"address": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return query
}

func (m *Mongo) GetAll(ctx context.Context, filter IssueFilter) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.issues.Find(ctx, issueQuery(filter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return issues, nil
}

func (m *Mongo) GetByID(ctx context.Context, id string) (models.Issue, error) {
	var issue models.Issue
	err := m.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return models.Issue{}, ErrNotFound
	}
	if err != nil {
		return models.Issue{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return issue, nil
}

func (m *Mongo) GetByUser(ctx context.Context, userID string) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.issues.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return issues, nil
}

func (m *Mongo) Create(ctx context.Context, issue models.Issue) error {
	_, err := m.issues.InsertOne(ctx, issue)
	return err
}

func patchDocument(patch IssuePatch) bson.M {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Photo != nil {
		set["photo"] = *patch.Photo
	}
	if patch.Coordinates != nil {
		set["coordinates"] = *patch.Coordinates
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	return set
}

func (m *Mongo) Update(ctx context.Context, id string, patch IssuePatch) error {
	set := patchDocument(patch)
	if len(set) == 0 {
		// Nothing to change, but the caller still learns whether id exists.
		_, err := m.GetByID(ctx, id)
		return err
	}
	match := bson.M{"_id": id}
	if patch.ExpectedStatus != nil {
		match["status"] = *patch.ExpectedStatus
	}
	result, err := m.issues.UpdateOne(ctx, match, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if patch.ExpectedStatus != nil {
			// The id may exist with a status someone else moved first.
			if _, err := m.GetByID(ctx, id); err == nil {
				return ErrConflict
			}
		}
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	result, err := m.issues.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) CountByStatus(ctx context.Context) (map[models.IssueStatus]int64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := m.issues.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.IssueStatus `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	counts := make(map[models.IssueStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (m *Mongo) Recent(ctx context.Context, limit int) ([]models.Issue, error) {
	filter := bson.M{"coordinates": bson.M{"$exists": true}}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := m.issues.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return issues, nil
}

// BackfillOwnership assigns ownerID to every issue recorded before issues
// carried an owner. Touches only ownerless documents, so re-running is safe.
func (m *Mongo) BackfillOwnership(ctx context.Context, ownerID string) (int64, error) {
	filter := bson.M{"$or": []bson.M{
		{"userId": bson.M{"$exists": false}},
		{"userId": ""},
	}}
	result, err := m.issues.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"userId": ownerID}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (m *Mongo) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := m.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return user, nil
}

func (m *Mongo) UpsertUser(ctx context.Context, user models.User) error {
	update := bson.M{
		"$set": bson.M{
			"type":      user.Type,
			"email":     user.Email,
			"updatedAt": user.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": user.CreatedAt},
	}
	_, err := m.users.UpdateOne(ctx, bson.M{"_id": user.ID}, update, options.Update().SetUpsert(true))
	return err
}

const metaID = "schema"

func (m *Mongo) SchemaVersion(ctx context.Context) (int, error) {
	var doc struct {
		Version int `bson:"version"`
	}
	err := m.meta.FindOne(ctx, bson.M{"_id": metaID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return doc.Version, nil
}

func (m *Mongo) SetSchemaVersion(ctx context.Context, version int) error {
	_, err := m.meta.UpdateOne(ctx, bson.M{"_id": metaID},
		bson.M{"$set": bson.M{"version": version}}, options.Update().SetUpsert(true))
	return err
}

// mongoUsers adapts Mongo to the UserStore interface.
type mongoUsers struct{ m *Mongo }

func (u mongoUsers) GetByID(ctx context.Context, id string) (models.User, error) {
	return u.m.GetUserByID(ctx, id)
}

func (u mongoUsers) Upsert(ctx context.Context, user models.User) error {
	return u.m.UpsertUser(ctx, user)
}

// Users returns the UserStore view of m.
func (m *Mongo) Users() UserStore { return mongoUsers{m} }
