package database

import "github.com/google/uuid"

// GenerateID returns a random RFC 4122 version 4 identifier. It is used both as
// the row primary key and as the blob key.
func GenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
