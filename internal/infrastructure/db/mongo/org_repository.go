package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

const (
	collectionBranches = "branches"
	collectionClinics  = "clinics"
	collectionPatients = "patients"
)

// BranchRepository implements ports.BranchRepository.
type BranchRepository struct {
	col *mongo.Collection
}

func NewBranchRepository(db *mongo.Database) *BranchRepository {
	return &BranchRepository{col: db.Collection(collectionBranches)}
}

func (r *BranchRepository) Create(ctx context.Context, b *domain.Branch) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, b)
	return err
}

func (r *BranchRepository) FindByID(ctx context.Context, id string) (*domain.Branch, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Branch
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBranchNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) List(ctx context.Context, scope ports.Scope) ([]*domain.Branch, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if scope.BranchID != "" {
		filter["_id"] = scope.BranchID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var branches []*domain.Branch
	if err := cur.All(ctx, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// ClinicRepository implements ports.ClinicRepository.
type ClinicRepository struct {
	col *mongo.Collection
}

func NewClinicRepository(db *mongo.Database) *ClinicRepository {
	return &ClinicRepository{col: db.Collection(collectionClinics)}
}

func (r *ClinicRepository) Create(ctx context.Context, c *domain.Clinic) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *ClinicRepository) FindByID(ctx context.Context, id string) (*domain.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Clinic
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClinicNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClinicRepository) List(ctx context.Context, scope ports.Scope) ([]*domain.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if scope.BranchID != "" {
		filter["branch_id"] = scope.BranchID
	}
	if scope.ClinicID != "" {
		filter["_id"] = scope.ClinicID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clinics []*domain.Clinic
	if err := cur.All(ctx, &clinics); err != nil {
		return nil, err
	}
	return clinics, nil
}

// PatientRepository implements ports.PatientRepository.
type PatientRepository struct {
	col *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{col: db.Collection(collectionPatients)}
}

func (r *PatientRepository) Create(ctx context.Context, p *domain.Patient) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *PatientRepository) FindByID(ctx context.Context, id string, scope ports.Scope) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := scopeFilter(bson.M{"_id": id}, scope)

	var p domain.Patient
	if err := r.col.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) List(ctx context.Context, scope ports.Scope) ([]*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, scopeFilter(bson.M{}, scope), options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var patients []*domain.Patient
	if err := cur.All(ctx, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *PatientRepository) CountByClinic(ctx context.Context, clinicID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"clinic_id": clinicID})
}

func (r *PatientRepository) CountByBranch(ctx context.Context, branchID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"branch_id": branchID})
}
