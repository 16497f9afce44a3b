package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// RequestRepository implements ports.RequestRepository using MongoDB.
type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

type requestViewDoc struct {
	domain.Request `bson:",inline"`
	RequesterName  string `bson:"requester_name"`
	AssigneeName   string `bson:"assignee_name"`
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) error {
	return insert(ctx, r.col, req)
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	return findOne[domain.Request](ctx, r.col, bson.M{"_id": id}, domain.ErrNotFound)
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus, narration string, at time.Time) error {
	return setByID(ctx, r.col, id, bson.M{
		"status":     status,
		"narration":  narration,
		"updated_at": at,
	}, domain.ErrNotFound)
}

// ListViews returns requests with both parties' names, newest first.
func (r *RequestRepository) ListViews(ctx context.Context, q ports.RequestQuery) ([]domain.RequestView, error) {
	match := bson.M{}
	if q.AssigneeID != "" {
		match["assigned_to"] = q.AssigneeID
	}
	if q.RequesterID != "" {
		match["user_id"] = q.RequesterID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	pipeline = append(pipeline, lookupOne(collectionUsers, "user_id", "requester")...)
	pipeline = append(pipeline, lookupOne(collectionUsers, "assigned_to", "assignee")...)
	pipeline = append(pipeline,
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "requester_name", Value: "$requester.full_name"},
			{Key: "assignee_name", Value: "$assignee.full_name"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "requester", Value: 0},
			{Key: "assignee", Value: 0},
		}}},
	)

	docs, err := aggregateAll[requestViewDoc](ctx, r.col, pipeline)
	if err != nil {
		return nil, err
	}
	views := make([]domain.RequestView, 0, len(docs))
	for _, d := range docs {
		views = append(views, domain.RequestView{
			Request:       d.Request,
			RequesterName: d.RequesterName,
			AssigneeName:  d.AssigneeName,
		})
	}
	return views, nil
}

func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.col, bson.M{})
}

func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
