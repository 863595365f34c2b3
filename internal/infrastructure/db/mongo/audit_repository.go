package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskforge/todo-system/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository persists the authentication audit trail. Writes arrive
// only from the dispatcher workers, never from a request goroutine.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Subject   string             `bson:"subject"`
	Action    string             `bson:"action"`
	Outcome   string             `bson:"outcome"`
	Reason    string             `bson:"reason,omitempty"`
	Timestamp int64              `bson:"timestamp"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAuditEvent{
		Subject:   event.Subject,
		Action:    string(event.Action),
		Outcome:   event.Outcome,
		Reason:    event.Reason,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *AuditRepository) FindRecent(ctx context.Context, limit int) ([]*domain.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer cur.Close(ctx)

	var events []*domain.AuditEvent
	for cur.Next(ctx) {
		var me mongoAuditEvent
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, &domain.AuditEvent{
			ID:        me.ID.Hex(),
			Subject:   me.Subject,
			Action:    domain.AuditAction(me.Action),
			Outcome:   me.Outcome,
			Reason:    me.Reason,
			Timestamp: unixToTime(me.Timestamp),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}

// EnsureIndexes creates the timestamp index used by FindRecent.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("audit index: %w", err)
	}
	return nil
}
