package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type Opts struct {
	URI               string
	Database          string
	ConnectTimeoutSec int
}

var ErrEmptyURI = errors.New("empty mongo uri")

// NewMongo 建连并 ping 一次，失败直接报错（启动期 fail fast）
func NewMongo(o Opts) (*mongo.Client, *mongo.Database, error) {
	uri := strings.TrimSpace(o.URI)
	if uri == "" {
		return nil, nil, ErrEmptyURI
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	timeout := time.Duration(o.ConnectTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(o.Database), nil
}
