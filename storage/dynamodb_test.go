package storage

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/stretchr/testify/assert"
)

func TestDynamoDBGetError(t *testing.T) {
	s := &DynamoDBStore{table: "flags"}

	t.Run("missing table is not a missing key", func(t *testing.T) {
		err := s.getError("ph.svg", awserr.New(dynamodb.ErrCodeResourceNotFoundException, "Requested resource not found", nil))
		assert.False(t, errors.Is(err, ErrNotFound))
		assert.Contains(t, err.Error(), `"flags"`)
	})
	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("throttled")
		err := s.getError("ph.svg", cause)
		assert.True(t, errors.Is(err, cause))
		assert.False(t, errors.Is(err, ErrNotFound))
	})
}
