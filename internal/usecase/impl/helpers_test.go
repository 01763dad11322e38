package impl

import (
	"testing"

	"tradeport/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "single word", input: "aspirin", want: "Aspirin"},
		{name: "multiple words", input: "aspirin forte retard", want: "Aspirin Forte Retard"},
		{name: "collapses whitespace", input: "  aspirin   forte ", want: "Aspirin Forte"},
		{name: "already capitalized", input: "Aspirin Forte", want: "Aspirin Forte"},
		{name: "multibyte first rune", input: "éthanol absolu", want: "Éthanol Absolu"},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTitle(tt.input))
		})
	}
}

func TestNormalizePage(t *testing.T) {
	page, size := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = normalizePage(3, 25)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, size)

	page, size = normalizePage(-1, -5)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)
}

func TestOwnerSegment(t *testing.T) {
	assert.Equal(t, "acme", ownerSegment(&entity.User{Name: "Acme Owner", Folder: "acme"}))
	assert.Equal(t, "Acme Owner", ownerSegment(&entity.User{Name: "Acme Owner"}))
}

func TestProductFileKey(t *testing.T) {
	key := productFileKey("acme", "Aspirin", entity.FileFieldCOA, "certificate-2024.pdf")
	assert.Equal(t, "documents/manufacturers/acme/products/Aspirin/coa.pdf", key)

	key = productFileKey("acme", "Aspirin", entity.FileFieldImage, "photo")
	assert.Equal(t, "documents/manufacturers/acme/products/Aspirin/image", key,
		"extension-less uploads keep a bare slot name")
}

func TestFieldFromKey(t *testing.T) {
	field, ok := fieldFromKey("documents/manufacturers/acme/products/Aspirin/coa.pdf")
	assert.True(t, ok)
	assert.Equal(t, entity.FileFieldCOA, field)

	field, ok = fieldFromKey("documents/manufacturers/acme/products/Aspirin/msds")
	assert.True(t, ok)
	assert.Equal(t, entity.FileFieldMSDS, field)

	_, ok = fieldFromKey("documents/manufacturers/acme/products/Aspirin/readme.txt")
	assert.False(t, ok)
}

func TestRefDiff(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	added, removed := refDiff(entity.RefSet{a, b}, entity.RefSet{b, c})
	assert.Equal(t, entity.RefSet{a}, added)
	assert.Equal(t, entity.RefSet{c}, removed)

	added, removed = refDiff(nil, entity.RefSet{a})
	assert.Empty(t, added)
	assert.Equal(t, entity.RefSet{a}, removed)

	added, removed = refDiff(entity.RefSet{a}, nil)
	assert.Equal(t, entity.RefSet{a}, added)
	assert.Empty(t, removed)
}
