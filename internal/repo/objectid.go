package repo

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"soundpath/internal/domain"
)

// 唯一的 _id <-> 字符串 id 转换点，handler/service 层只见字符串

func EncodeID(oid bson.ObjectID) string { return oid.Hex() }

func DecodeID(s string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.ObjectID{}, domain.ErrInvalidID
	}
	return oid, nil
}
