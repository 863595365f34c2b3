package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskforge/todo-system/internal/core/domain"
)

const (
	usersCollection = "users"
	rolesCollection = "roles"
)

// UserRepository is the MongoDB-backed credential store. The unique indexes
// created by EnsureIndexes are the real uniqueness guarantee; the existence
// probes only exist to give registration precise conflict messages.
type UserRepository struct {
	users *mongo.Collection
	roles *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users: db.Collection(usersCollection),
		roles: db.Collection(rolesCollection),
	}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Roles        []string           `bson:"roles"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

type mongoRole struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count by username: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count by email: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRole
	if err := r.roles.FindOne(ctx, bson.M{"name": name}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: mr.ID.Hex(), Name: mr.Name}, nil
}

// Save inserts the user. A duplicate-key rejection from either unique index
// is translated to the matching Conflict error, so a racy register that
// passed the pre-checks still fails atomically here.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Username:     user.Username,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Roles:        user.Roles,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// duplicateKeyConflict maps a unique-index violation to the conflict error
// for the violated column. The server names the index in the message
// (username_1 / email_1); the duplicate value is echoed there too, so
// matching on a bare column name would misclassify a username that happens
// to contain "email".
func duplicateKeyConflict(err error) error {
	if strings.Contains(err.Error(), "email_1") {
		return domain.ErrEmailExists
	}
	return domain.ErrUsernameExists
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"username": identifier},
		bson.M{"email": identifier},
	}}

	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(mu), nil
}

func (r *UserRepository) RolesByUsername(ctx context.Context, username string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	opts := options.FindOne().SetProjection(bson.M{"roles": 1})
	if err := r.users.FindOne(ctx, bson.M{"username": username}, opts).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find roles: %w", err)
	}
	return mu.Roles, nil
}

// EnsureIndexes creates the unique indexes that back the uniqueness
// invariants on username and email, plus a unique index on role names.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	_, err = r.roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("role index: %w", err)
	}
	return nil
}

// SeedRoles upserts the two fixed roles. Idempotent; run at every startup.
func (r *UserRepository) SeedRoles(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, name := range []string{domain.RoleUser, domain.RoleAdmin} {
		_, err := r.roles.UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{"name": name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed role %q: %w", name, err)
		}
	}
	return nil
}

func toDomainUser(mu mongoUser) *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		Name:         mu.Name,
		PasswordHash: mu.PasswordHash,
		Roles:        mu.Roles,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
