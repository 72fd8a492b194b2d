package database

import "time"

// Image is the metadata row of one upload. The blob itself lives in the blob store under ID.
type Image struct {
	ID        string    `db:"id" json:"id"`
	Tag       string    `db:"tag" json:"tag"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // assigned by the store on insert
}
