// Package impl contains the implementation of the application's business logic.
package impl

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"tradeport/internal/domain/entity"
)

const (
	defaultPage = 1
	defaultSize = 10
)

// normalizePage applies the listing defaults to raw pagination input.
func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if size < 1 {
		size = defaultSize
	}

	return page, size
}

// normalizeTitle capitalizes the first letter of every word, the canonical
// form product titles take after an update.
func normalizeTitle(title string) string {
	words := strings.Fields(strings.TrimSpace(title))
	for i, word := range words {
		first, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(first)) + word[size:]
	}

	return strings.Join(words, " ")
}

// ownerSegment picks the blob path segment for a user, preferring the folder
// chosen at signup.
func ownerSegment(user *entity.User) string {
	if user.Folder != "" {
		return user.Folder
	}

	return user.Name
}

// manufacturerPrefix is the blob subtree holding everything a manufacturer
// account uploaded.
func manufacturerPrefix(ownerSeg string) string {
	return path.Join("documents", "manufacturers", ownerSeg)
}

// productPrefix is the blob subtree holding one product's documents.
func productPrefix(ownerSeg, folder string) string {
	return path.Join(manufacturerPrefix(ownerSeg), "products", folder)
}

// productFileKey builds the blob key for one document slot. The basename is
// the slot name so downloads can recover the owning field from the key.
func productFileKey(ownerSeg, folder string, field entity.FileField, filename string) string {
	return path.Join(productPrefix(ownerSeg, folder), string(field)+path.Ext(filename))
}

// traderPrefix is the blob subtree associated with a trader.
func traderPrefix(title string) string {
	return path.Join("documents", "traders", title)
}

// userImageKey builds the blob key for a profile image.
func userImageKey(folder, filename string) string {
	return path.Join("documents", "users", folder, "image"+path.Ext(filename))
}

// fieldFromKey recovers the document slot from a blob key's basename.
func fieldFromKey(key string) (entity.FileField, bool) {
	base := path.Base(key)
	field := entity.FileField(strings.TrimSuffix(base, path.Ext(base)))

	return field, field.IsValid()
}

// refDiff computes the additions and removals needed to turn current into
// submitted, preserving submitted order for additions.
func refDiff(submitted, current entity.RefSet) (added, removed entity.RefSet) {
	for _, id := range submitted {
		if !current.Contains(id) {
			added.Push(id)
		}
	}
	for _, id := range current {
		if !submitted.Contains(id) {
			removed.Push(id)
		}
	}

	return added, removed
}
