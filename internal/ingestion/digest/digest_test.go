package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_Deterministic(t *testing.T) {
	data := []byte("orderNumber,clientId,deliveryDate,status,zoneId,requiresRefrigeration\nP001,CLI-1,2099-01-01,PENDING,ZONA1,true\n")

	first := Compute(data)
	second := Compute(data)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestCompute_DifferentBytesDifferentDigest(t *testing.T) {
	assert.NotEqual(t, Compute([]byte("a")), Compute([]byte("b")))
}
