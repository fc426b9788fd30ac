package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType_Valid(t *testing.T) {
	for _, ct := range []ContentType{ContentTypeBlog, ContentTypeProduct, ContentTypeLanding, ContentTypeSocial} {
		assert.True(t, ct.Valid(), ct)
	}
	assert.False(t, ContentType("newsletter").Valid())
	assert.False(t, ContentType("").Valid())
}
