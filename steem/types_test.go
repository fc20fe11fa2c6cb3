package steem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContentRef(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		raw string
		ref ContentRef
	}{
		{"alice/re-spam", ContentRef{"alice", "re-spam"}},
		{"@alice/re-spam", ContentRef{"alice", "re-spam"}},
		{"https://steemit.com/abuse/@alice/re-spam", ContentRef{"alice", "re-spam"}},
		{"https://steemit.com/@alice/re-spam", ContentRef{"alice", "re-spam"}},
		{"https://steemit.com/@alice/re-spam/", ContentRef{"alice", "re-spam"}},
	}
	for _, f := range fixtures {
		ref, err := ParseContentRef(f.raw)
		assert.NoError(err, f.raw)
		assert.Equal(f.ref, ref, f.raw)
	}

	for _, bad := range []string{"", "alice", "@alice", "a/b/c", "https://steemit.com/abuse"} {
		_, err := ParseContentRef(bad)
		assert.True(errors.Is(err, ErrBadRef), "expected ErrBadRef for %q, got %v", bad, err)
	}
}

func TestContentRefString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("alice/re-spam", ContentRef{"alice", "re-spam"}.String())
	assert.True(ContentRef{}.IsZero())
	assert.False(ContentRef{"a", "b"}.IsZero())
}
