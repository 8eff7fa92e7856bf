// server/internal/models/common.go
package models

// Location is the branch a car is stationed at.
type Location struct {
	Branch  string `bson:"branch" json:"branch"`
	Address string `bson:"address" json:"address"`
}

// MediaPointer represents a media document stored on S3 or a similar service.
type MediaPointer struct {
	ID       string `bson:"id" json:"id"`
	URL      string `bson:"url" json:"url"`
	FileName string `bson:"fileName" json:"fileName"`
	FileType string `bson:"fileType" json:"fileType"` // e.g. "image/jpeg"
}
