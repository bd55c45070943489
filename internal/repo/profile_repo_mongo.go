package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"soundpath/internal/domain"
)

type profileDoc struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	UserID     string        `bson:"user_id"`
	Name       string        `bson:"name"`
	Experience string        `bson:"experience"`
	Instrument string        `bson:"instrument"`
	Goal       string        `bson:"goal"`
	Genres     []string      `bson:"genres"`
	Gear       []string      `bson:"gear"`
}

func (d profileDoc) toDomain() domain.Profile {
	return domain.Profile{
		ID:         EncodeID(d.ID),
		UserID:     d.UserID,
		Name:       d.Name,
		Experience: d.Experience,
		Instrument: d.Instrument,
		Goal:       d.Goal,
		Genres:     d.Genres,
		Gear:       d.Gear,
	}
}

type ProfileRepo struct{ coll *mongo.Collection }

func NewProfileRepo(db *mongo.Database, collection string) *ProfileRepo {
	return &ProfileRepo{coll: db.Collection(collection)}
}

func (r *ProfileRepo) FindAll(ctx context.Context) ([]domain.Profile, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	profiles := make([]domain.Profile, 0)
	for cur.Next(ctx) {
		var d profileDoc
		if err := cur.Decode(&d); err != nil {
			continue
		}
		profiles = append(profiles, d.toDomain())
	}
	return profiles, cur.Err()
}

func (r *ProfileRepo) Insert(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	d := profileDoc{
		UserID:     p.UserID,
		Name:       p.Name,
		Experience: p.Experience,
		Instrument: p.Instrument,
		Goal:       p.Goal,
		Genres:     p.Genres,
		Gear:       p.Gear,
	}
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return nil, err
	}
	d.ID = res.InsertedID.(bson.ObjectID)
	out := d.toDomain()
	return &out, nil
}
