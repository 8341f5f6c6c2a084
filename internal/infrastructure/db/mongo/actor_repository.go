package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

const collectionActors = "actors"

type ActorRepository struct {
	col *mongo.Collection
}

func NewActorRepository(db *mongo.Database) *ActorRepository {
	return &ActorRepository{col: db.Collection(collectionActors)}
}

func (r *ActorRepository) Create(ctx context.Context, a *domain.Actor) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrActorExists
		}
		return nil, err
	}
	return a, nil
}

func (r *ActorRepository) FindByID(ctx context.Context, id string) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Actor
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *ActorRepository) FindByEmail(ctx context.Context, email string) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Actor
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByIDs resolves several actors at once. Missing ids are absent from
// the result map rather than an error.
func (r *ActorRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]*domain.Actor, len(ids))
	for cur.Next(ctx) {
		var a domain.Actor
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out[a.ID] = &a
	}
	return out, cur.Err()
}

func (r *ActorRepository) List(ctx context.Context, f ports.ListActorsFilter) ([]*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Scope.BranchID != "" {
		filter["branch_id"] = f.Scope.BranchID
	}
	if f.Scope.ClinicID != "" {
		filter["clinic_id"] = f.Scope.ClinicID
	}
	if f.Scope.DentistID != "" {
		// A plain dentist only lists its own profile.
		filter["_id"] = f.Scope.DentistID
	}
	if f.Role != "" {
		filter["role"] = f.Role
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var actors []*domain.Actor
	if err := cur.All(ctx, &actors); err != nil {
		return nil, err
	}
	return actors, nil
}

func (r *ActorRepository) Update(ctx context.Context, a *domain.Actor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrActorNotFound
	}
	return nil
}

func (r *ActorRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrActorNotFound
	}
	return nil
}

func (r *ActorRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrActorNotFound
	}
	return nil
}

func (r *ActorRepository) CountByClinic(ctx context.Context, clinicID string, role domain.Role) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"clinic_id": clinicID, "role": string(role)})
}

func (r *ActorRepository) CountByBranch(ctx context.Context, branchID string, role domain.Role) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"branch_id": branchID, "role": string(role)})
}

// EnsureIndexes creates a unique index on email so duplicate account
// provisioning surfaces as ErrActorExists.
func (r *ActorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: optionsUnique()},
		{Keys: bson.D{{Key: "clinic_id", Value: 1}}},
		{Keys: bson.D{{Key: "branch_id", Value: 1}}},
	})
	return err
}
