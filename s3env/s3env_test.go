package s3env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyMapping(t *testing.T) {
	e := New(nil, "bucket", WithPrefix("db"))

	assert.Equal(t, "db/current", e.key("current"))
	assert.Equal(t, "db/current", e.key("/current"))
	assert.Equal(t, "db/a/b", e.key("a/b"))
	assert.Equal(t, "db/a/b/", e.dirKey("a/b"))
}

func TestKeyMappingWithoutPrefix(t *testing.T) {
	e := New(nil, "bucket")

	assert.Equal(t, "manifest", e.key("manifest"))
	assert.Equal(t, "tmp/", e.dirKey("tmp"))
}
