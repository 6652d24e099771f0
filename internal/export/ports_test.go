package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Implementations(t *testing.T) {
	assert.Implements(t, (*Repository)(nil), new(PostgresRepo))
	assert.Implements(t, (*Repository)(nil), new(mockRepo))
}
