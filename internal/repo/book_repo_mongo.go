package repo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"soundpath/internal/domain"
)

type bookDoc struct {
	ID     bson.ObjectID `bson:"_id,omitempty"`
	Title  string        `bson:"title"`
	Author string        `bson:"author"`
	Year   int           `bson:"year"`
	Genre  string        `bson:"genre,omitempty"`
}

func (d bookDoc) toDomain() domain.Book {
	return domain.Book{
		ID:     EncodeID(d.ID),
		Title:  d.Title,
		Author: d.Author,
		Year:   d.Year,
		Genre:  d.Genre,
	}
}

type BookRepo struct{ coll *mongo.Collection }

func NewBookRepo(db *mongo.Database, collection string) *BookRepo {
	return &BookRepo{coll: db.Collection(collection)}
}

// FindAll 解码失败的文档跳过，不让单条脏数据 500 掉整个列表
func (r *BookRepo) FindAll(ctx context.Context) ([]domain.Book, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	books := make([]domain.Book, 0)
	for cur.Next(ctx) {
		var d bookDoc
		if err := cur.Decode(&d); err != nil {
			continue
		}
		books = append(books, d.toDomain())
	}
	return books, cur.Err()
}

func (r *BookRepo) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := DecodeID(id)
	if err != nil {
		return nil, err
	}
	var d bookDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b := d.toDomain()
	return &b, nil
}

func (r *BookRepo) Insert(ctx context.Context, b domain.Book) (*domain.Book, error) {
	d := bookDoc{Title: b.Title, Author: b.Author, Year: b.Year, Genre: b.Genre}
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return nil, err
	}
	d.ID = res.InsertedID.(bson.ObjectID)
	out := d.toDomain()
	return &out, nil
}

func (r *BookRepo) Update(ctx context.Context, id string, u domain.BookUpdate) (*domain.Book, error) {
	oid, err := DecodeID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Author != nil {
		set["author"] = *u.Author
	}
	if u.Year != nil {
		set["year"] = *u.Year
	}
	if u.Genre != nil {
		set["genre"] = *u.Genre
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d bookDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b := d.toDomain()
	return &b, nil
}

func (r *BookRepo) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := DecodeID(id)
	if err != nil {
		return false, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
