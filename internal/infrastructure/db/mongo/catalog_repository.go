package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// ProjectRepository implements ports.ProjectRepository using MongoDB.
type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	return insert(ctx, r.col, p)
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	return findOne[domain.Project](ctx, r.col, bson.M{"_id": id}, domain.ErrNotFound)
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	return replace(ctx, r.col, p.ID, p)
}

func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[*domain.Project](ctx, r.col, bson.M{}, opts)
}

func (r *ProjectRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.col, bson.M{})
}

func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "manager_id", Value: 1}}},
	})
	return err
}

// ClientRepository implements ports.ClientRepository using MongoDB.
type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return insert(ctx, r.col, c)
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	return findOne[domain.Client](ctx, r.col, bson.M{"_id": id}, domain.ErrNotFound)
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	return replace(ctx, r.col, c.ID, c)
}

// List returns clients by name. An empty status returns all of them.
func (r *ClientRepository) List(ctx context.Context, status string) ([]*domain.Client, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[*domain.Client](ctx, r.col, filter, opts)
}

func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.col, bson.M{})
}

func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "name", Value: 1}}},
	})
	return err
}
