package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable by
// creation time, which makes them safe as DynamoDB partition keys and useful
// as JWT IDs (a token's jti orders by issuance time).
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
