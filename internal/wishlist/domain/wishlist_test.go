package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	catalog "github.com/jcmexdev/maison-storefront/internal/catalog/domain"
)

func TestToggleIsItsOwnInverse(t *testing.T) {
	w := New(nil)
	p := catalog.Product{ID: 4, Name: "Heritage Chronograph", Price: 3400, Images: []string{"/w.jpg"}}

	assert.True(t, w.Toggle(p))
	assert.True(t, w.Has(4))
	assert.Equal(t, "/w.jpg", w.Items()[0].Image)

	assert.False(t, w.Toggle(p))
	assert.False(t, w.Has(4))
	assert.Equal(t, 0, w.Len())
}

func TestRemoveReportsPresence(t *testing.T) {
	w := New([]Item{{ProductID: 1}, {ProductID: 2}, {ProductID: 1}})
	assert.Equal(t, 2, w.Len())

	assert.True(t, w.Remove(1))
	assert.False(t, w.Remove(1))
	assert.Equal(t, []Item{{ProductID: 2}}, w.Items())
}
