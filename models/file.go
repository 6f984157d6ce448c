package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoredFile is the metadata record of an uploaded image. The bytes live on
// disk under Filename; this document is the catalog of what was uploaded.
type StoredFile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename     string             `bson:"filename" json:"filename"`
	OriginalName string             `bson:"originalName" json:"originalName"`
	Mimetype     string             `bson:"mimetype" json:"mimetype"`
	Size         int64              `bson:"size" json:"size"`
	UploadDate   time.Time          `bson:"uploadDate" json:"uploadDate"`
}
