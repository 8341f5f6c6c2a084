package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

const (
	collectionOrders   = "orders"
	collectionAuditLog = "audit_log"
)

type OrderRepository struct {
	db *mongo.Database
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) orders() *mongo.Collection {
	return r.db.Collection(collectionOrders)
}

// scopeFilter translates a row-visibility scope into equality predicates.
func scopeFilter(filter bson.M, scope ports.Scope) bson.M {
	if scope.BranchID != "" {
		filter["branch_id"] = scope.BranchID
	}
	if scope.ClinicID != "" {
		filter["clinic_id"] = scope.ClinicID
	}
	if scope.DentistID != "" {
		filter["dentist_id"] = scope.DentistID
	}
	return filter
}

// CreateWithAudit inserts the order document and its create audit entry in
// one transaction. Committing them together keeps the timeline seeded: an
// order row without a create entry would replay as an empty history.
func (r *OrderRepository) CreateWithAudit(ctx context.Context, o *domain.Order, entry *domain.AuditLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.orders().InsertOne(sc, o); err != nil {
			return nil, err
		}
		if _, err := r.db.Collection(collectionAuditLog).InsertOne(sc, entry); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// FindByID retrieves an order. A non-empty scope narrows the query so
// out-of-scope orders are indistinguishable from missing ones.
func (r *OrderRepository) FindByID(ctx context.Context, id string, scope ports.Scope) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := scopeFilter(bson.M{"_id": id}, scope)

	var o domain.Order
	if err := r.orders().FindOne(ctx, filter).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByIdempotencyKey retrieves an order created with the given key.
func (r *OrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Order
	if err := r.orders().FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// List returns a page of orders matching filter plus the total count,
// newest first.
func (r *OrderRepository) List(ctx context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := scopeFilter(bson.M{}, f.Scope)
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	dateRange := bson.M{}
	if !f.DateFrom.IsZero() {
		dateRange["$gte"] = f.DateFrom
	}
	if !f.DateTo.IsZero() {
		dateRange["$lte"] = f.DateTo
	}
	if len(dateRange) > 0 {
		filter["created_at"] = dateRange
	}

	total, err := r.orders().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	limit := int64(f.Limit)
	skip := int64(f.Page-1) * limit
	if skip < 0 {
		skip = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.orders().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var orders []*domain.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatusWithAudit applies the transition and appends the audit entry
// in one transaction. The status filter doubles as a compare-and-set: when
// the stored status no longer matches expectedFrom nothing is written and
// ErrStatusConflict is returned.
func (r *OrderRepository) UpdateStatusWithAudit(ctx context.Context, orderID string, expectedFrom, to domain.OrderStatus, entry *domain.AuditLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.orders().UpdateOne(sc,
			bson.M{"_id": orderID, "status": string(expectedFrom)},
			bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			// Distinguish a vanished order from a concurrent transition.
			n, err := r.orders().CountDocuments(sc, bson.M{"_id": orderID})
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, domain.ErrOrderNotFound
			}
			return nil, domain.ErrStatusConflict
		}

		if _, err := r.db.Collection(collectionAuditLog).InsertOne(sc, entry); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// AppendAttachment pushes an object-storage reference onto the order.
func (r *OrderRepository) AppendAttachment(ctx context.Context, orderID string, att domain.Attachment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.orders().UpdateOne(ctx,
		bson.M{"_id": orderID},
		bson.M{"$push": bson.M{"attachments": att}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// CountByStatus aggregates order counts per status within scope.
func (r *OrderRepository) CountByStatus(ctx context.Context, scope ports.Scope) ([]ports.StatusCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: scopeFilter(bson.M{}, scope)}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cur, err := r.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make([]ports.StatusCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, ports.StatusCount{Status: domain.OrderStatus(row.Status), Count: row.Count})
	}
	return counts, nil
}

// CountByDentist counts orders referencing the given dentist.
func (r *OrderRepository) CountByDentist(ctx context.Context, dentistID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.orders().CountDocuments(ctx, bson.M{"dentist_id": dentistID})
}

// EnsureIndexes creates the indexes the scoped queries rely on.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "dentist_id", Value: 1}}},
		{Keys: bson.D{{Key: "clinic_id", Value: 1}}},
		{Keys: bson.D{{Key: "branch_id", Value: 1}}},
		{Keys: bson.D{{Key: "idempotency_key", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.orders().Indexes().CreateMany(ctx, indexes)
	return err
}
