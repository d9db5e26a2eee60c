package listing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dgview/dgview/internal/remote"
)

func numberedObjects(n int) []IndexedObject {
	items := make([]remote.ObjectItem, n)
	for i := range items {
		items[i] = remote.ObjectItem{Key: fmt.Sprintf("obj-%03d", i)}
	}
	return indexObjects(items)
}

func TestPaginateObjects(t *testing.T) {
	objects := numberedObjects(12)

	first := PaginateObjects(objects, 0, 5)
	assert.Len(t, first, 5)
	assert.Equal(t, "obj-000", first[0].Key)

	last := PaginateObjects(objects, 2, 5)
	assert.Len(t, last, 2)
	assert.Equal(t, "obj-010", last[0].Key)

	assert.Empty(t, PaginateObjects(objects, 3, 5), "out-of-range pages are empty")
	assert.Empty(t, PaginateObjects(objects, -1, 5))
}

func TestPaginateDirectoriesFillRemainingSlots(t *testing.T) {
	dirs := []string{"a/", "b/", "c/", "d/"}

	assert.Equal(t, []string{"a/", "b/", "c/"}, PaginateDirectories(dirs, 0, 5, 2, 2))
	assert.Empty(t, PaginateDirectories(dirs, 0, 5, 5, 5), "a full page of objects leaves no directory slots")
	assert.Equal(t, []string{"d/"}, PaginateDirectories(dirs, 1, 5, 0, 2),
		"a later page continues where the previous page's directories left off")
	assert.Empty(t, PaginateDirectories(dirs, 2, 5, 0, 2), "offset past the directory list yields none")
	assert.Empty(t, PaginateDirectories(dirs, -1, 5, 0, 0))
}

func TestPaginateDirectoriesAcrossPages(t *testing.T) {
	objects := numberedObjects(250)
	dirs := []string{"x/", "y/", "z/"}
	pageSize := 200

	info := CalculatePaginationInfo(len(objects)+len(dirs), 0, pageSize)
	assert.Equal(t, 2, info.TotalPages)

	var seen []string
	for page := 0; page < info.TotalPages; page++ {
		objs := PaginateObjects(objects, page, pageSize)
		pageDirs := PaginateDirectories(dirs, page, pageSize, len(objs), len(objects))
		assert.LessOrEqual(t, len(objs)+len(pageDirs), pageSize)
		seen = append(seen, pageDirs...)
	}

	assert.Equal(t, dirs, seen, "every directory appears on exactly one page")
}

func TestCalculatePaginationInfo(t *testing.T) {
	info := CalculatePaginationInfo(12, 0, 5)
	assert.Equal(t, 1, info.CurrentPage)
	assert.Equal(t, 3, info.TotalPages)
	assert.False(t, info.HasPrevious)
	assert.True(t, info.HasNext)

	info = CalculatePaginationInfo(12, 2, 5)
	assert.Equal(t, 3, info.CurrentPage)
	assert.True(t, info.HasPrevious)
	assert.False(t, info.HasNext)

	info = CalculatePaginationInfo(0, 0, 5)
	assert.Equal(t, 0, info.TotalPages)
	assert.False(t, info.HasNext)
}
