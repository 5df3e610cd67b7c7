package id

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func Generate() string {
	return uuid.New().String()
}

// Reference builds a transaction reference such as "trf-1718000000000000000-3fa2c1".
func Reference(prefix string) string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%s-%d-%x", prefix, time.Now().UnixNano(), b)
}
