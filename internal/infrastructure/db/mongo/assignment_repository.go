package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// AssignmentRepository implements ports.AssignmentRepository using MongoDB.
type AssignmentRepository struct {
	col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{col: db.Collection(collectionAssignments)}
}

// assignmentViewDoc is the shape produced by the ListViews pipeline.
type assignmentViewDoc struct {
	domain.Assignment `bson:",inline"`
	TaskTitle         string `bson:"task_title"`
	TaskDescription   string `bson:"task_description"`
	TaskPriority      string `bson:"task_priority"`
	TaskStatus        string `bson:"task_status"`
	AssignedByName    string `bson:"assigned_by_name"`
	AssignedToName    string `bson:"assigned_to_name"`
	ProjectName       string `bson:"project_name"`
	ClientName        string `bson:"client_name"`
}

func (d assignmentViewDoc) view() domain.AssignmentView {
	return domain.AssignmentView{
		Assignment:      d.Assignment,
		TaskTitle:       d.TaskTitle,
		TaskDescription: d.TaskDescription,
		TaskPriority:    domain.Priority(d.TaskPriority),
		TaskStatus:      domain.TaskStatus(d.TaskStatus),
		AssignedByName:  d.AssignedByName,
		AssignedToName:  d.AssignedToName,
		ProjectName:     d.ProjectName,
		ClientName:      d.ClientName,
	}
}

// Create inserts an assignment. Repeated assignments of the same task are
// all kept.
func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	return insert(ctx, r.col, a)
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*domain.Assignment, error) {
	return findOne[domain.Assignment](ctx, r.col, bson.M{"_id": id}, domain.ErrNotFound)
}

func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return domain.WriteError(collectionAssignments, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AssignmentRepository) Complete(ctx context.Context, id string, c ports.AssignmentCompletion) error {
	return setByID(ctx, r.col, id, bson.M{
		"completed_at": c.CompletedAt,
		"hours":        c.Hours,
		"narration":    c.Narration,
	}, domain.ErrNotFound)
}

// ListViews joins each assignment with its task, both users, project and
// client, newest assignment first.
func (r *AssignmentRepository) ListViews(ctx context.Context, q ports.AssignmentQuery) ([]domain.AssignmentView, error) {
	match := bson.M{}
	if q.AssignedTo != "" {
		match["assigned_to"] = q.AssignedTo
	}
	if q.ProjectID != "" {
		match["project_id"] = q.ProjectID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "assigned_at", Value: -1}}}},
	}
	pipeline = append(pipeline, lookupOne(collectionTasks, "task_id", "task")...)
	pipeline = append(pipeline, lookupOne(collectionUsers, "assigned_by", "assignor")...)
	pipeline = append(pipeline, lookupOne(collectionUsers, "assigned_to", "assignee")...)
	pipeline = append(pipeline, lookupOne(collectionProjects, "project_id", "project")...)
	pipeline = append(pipeline, lookupOne(collectionClients, "client_id", "client")...)
	pipeline = append(pipeline,
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "task_title", Value: "$task.title"},
			{Key: "task_description", Value: "$task.description"},
			{Key: "task_priority", Value: "$task.priority"},
			{Key: "task_status", Value: "$task.status"},
			{Key: "assigned_by_name", Value: "$assignor.full_name"},
			{Key: "assigned_to_name", Value: "$assignee.full_name"},
			{Key: "project_name", Value: "$project.name"},
			{Key: "client_name", Value: "$client.name"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "task", Value: 0},
			{Key: "assignor", Value: 0},
			{Key: "assignee", Value: 0},
			{Key: "project", Value: 0},
			{Key: "client", Value: 0},
		}}},
	)

	docs, err := aggregateAll[assignmentViewDoc](ctx, r.col, pipeline)
	if err != nil {
		return nil, err
	}
	views := make([]domain.AssignmentView, 0, len(docs))
	for _, d := range docs {
		views = append(views, d.view())
	}
	return views, nil
}

func (r *AssignmentRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.col, bson.M{})
}

// EnsureIndexes creates necessary indexes on the task_assignments collection.
func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "assigned_at", Value: -1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
		{Keys: bson.D{{Key: "task_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
