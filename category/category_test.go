package category

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBasics(t *testing.T) {
	assert := assert.New(t)

	cat, ok := Classify("hey @steemflagrewards this is obvious plagiarism")
	assert.True(ok)
	assert.Equal("plagiarism", cat)

	// trigger mention is case-insensitive
	cat, ok = Classify("@SteemFlagRewards PHISHING link in this post")
	assert.True(ok)
	assert.Equal("phishing", cat)

	// no trigger mention: fails closed even with a keyword present
	_, ok = Classify("this is spam")
	assert.False(ok)

	// trigger present but no category keyword
	_, ok = Classify("@steemflagrewards please look at this")
	assert.False(ok)

	_, ok = Classify("")
	assert.False(ok)
}

func TestClassifyOrderingPrecedence(t *testing.T) {
	assert := assert.New(t)

	// a body matching both "comment spam" and "spam" must resolve to the
	// more specific category
	cat, ok := Classify("@steemflagrewards comment spam, nothing but spam")
	assert.True(ok)
	assert.Equal("comment spam", cat)

	cat, ok = Classify("@steemflagrewards death threats in the replies")
	assert.True(ok)
	assert.Equal("death threats", cat)
}

// Every category that is a substring of another must appear after it, or the
// broader label would shadow the specific one.
func TestTaxonomyOrderingInvariant(t *testing.T) {
	for i, broad := range Taxonomy {
		for j, specific := range Taxonomy {
			if i == j {
				continue
			}
			if strings.Contains(specific, broad) && i < j {
				t.Errorf("category %q at %d shadows %q at %d", broad, i, specific, j)
			}
		}
	}
}
