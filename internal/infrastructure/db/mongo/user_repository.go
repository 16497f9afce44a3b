package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return domain.WriteError(collectionUsers, err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.col, bson.M{"_id": id}, domain.ErrUserNotFound)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.col, bson.M{"email": email}, domain.ErrUserNotFound)
}

// List returns users matching f, by full name unless f.OrderBy asks for
// most recently updated first.
func (r *UserRepository) List(ctx context.Context, f ports.UserFilter) ([]*domain.User, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.ExcludeID != "" {
		filter["_id"] = bson.M{"$ne": f.ExcludeID}
	}

	sort := bson.D{{Key: "full_name", Value: 1}}
	if f.OrderBy == "updated_at" {
		sort = bson.D{{Key: "updated_at", Value: -1}}
	}

	return findAll[*domain.User](ctx, r.col, filter, options.Find().SetSort(sort))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, p ports.ProfileUpdate) error {
	return setByID(ctx, r.col, id, bson.M{
		"full_name":  p.FullName,
		"username":   p.Username,
		"avatar_url": p.AvatarURL,
		"updated_at": time.Now().UTC(),
	}, domain.ErrUserNotFound)
}

func (r *UserRepository) SetRole(ctx context.Context, id string, role domain.Role) error {
	return setByID(ctx, r.col, id, bson.M{"role": role, "updated_at": time.Now().UTC()}, domain.ErrUserNotFound)
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return setByID(ctx, r.col, id, bson.M{"is_active": active, "updated_at": time.Now().UTC()}, domain.ErrUserNotFound)
}

func (r *UserRepository) SetPushToken(ctx context.Context, id, token string) error {
	return setByID(ctx, r.col, id, bson.M{"push_token": token}, domain.ErrUserNotFound)
}

// Count returns the number of active users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.col, bson.M{"is_active": true})
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "full_name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
