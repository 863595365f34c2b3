package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskforge/todo-system/internal/core/domain"
)

const todosCollection = "todos"

type TodoRepository struct {
	col *mongo.Collection
}

func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{col: db.Collection(todosCollection)}
}

type mongoTodo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTodo{
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		CreatedAt:   todo.CreatedAt.Unix(),
		UpdatedAt:   todo.UpdatedAt.Unix(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	created := *todo
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never match a stored document.
		return nil, domain.ErrTodoNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTodo
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return toDomainTodo(mt), nil
}

func (r *TodoRepository) FindAll(ctx context.Context) ([]*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer cur.Close(ctx)

	var todos []*domain.Todo
	for cur.Next(ctx) {
		var mt mongoTodo
		if err := cur.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode todo: %w", err)
		}
		todos = append(todos, toDomainTodo(mt))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(todo.ID)
	if err != nil {
		return nil, domain.ErrTodoNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       todo.Title,
		"description": todo.Description,
		"completed":   todo.Completed,
		"updated_at":  todo.UpdatedAt.Unix(),
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTodoNotFound
	}
	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTodoNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func toDomainTodo(mt mongoTodo) *domain.Todo {
	return &domain.Todo{
		ID:          mt.ID.Hex(),
		Title:       mt.Title,
		Description: mt.Description,
		Completed:   mt.Completed,
		CreatedAt:   unixToTime(mt.CreatedAt),
		UpdatedAt:   unixToTime(mt.UpdatedAt),
	}
}
