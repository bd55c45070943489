package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"soundpath/internal/domain"
)

type userDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Email        string        `bson:"email"`
	Name         string        `bson:"name"`
	PasswordHash string        `bson:"password_hash"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           EncodeID(d.ID),
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type UserRepo struct{ coll *mongo.Collection }

func NewUserRepo(db *mongo.Database, collection string) *UserRepo {
	return &UserRepo{coll: db.Collection(collection)}
}

// EnsureIndexes email 唯一索引：check-then-insert 的并发兜底，
// 冲突方在 Insert 处拿 ErrDuplicateEmail
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var d userDoc
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := DecodeID(id)
	if err != nil {
		return nil, err
	}
	var d userDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *UserRepo) Insert(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	now := time.Now().UTC()
	d := userDoc{
		Email:        nu.Email,
		Name:         nu.Name,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := r.coll.InsertOne(ctx, d)
	if mongo.IsDuplicateKeyError(err) {
		return nil, domain.ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	d.ID = res.InsertedID.(bson.ObjectID)
	return d.toDomain(), nil
}

func (r *UserRepo) UpsertByEmail(ctx context.Context, email string, nu domain.NewUser) (*domain.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{"updated_at": now},
		// 已存在时不动 name / password_hash
		"$setOnInsert": bson.M{
			"email":         email,
			"name":          nu.Name,
			"password_hash": nu.PasswordHash,
			"created_at":    now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var d userDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&d); err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	users := make([]domain.User, 0, limit)
	for cur.Next(ctx) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			continue
		}
		users = append(users, *d.toDomain())
	}
	return users, total, cur.Err()
}
