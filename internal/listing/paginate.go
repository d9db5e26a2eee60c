package listing

// PaginateObjects returns the objects for a 0-based page as a plain offset
// slice. Out-of-range pages yield an empty slice.
func PaginateObjects(items []IndexedObject, pageIndex, pageSize int) []IndexedObject {
	start := pageIndex * pageSize
	if start < 0 || start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PaginateDirectories returns the directories for a page. Directories fill
// whatever slots the page's objects did not claim and are presented before
// them; the start offset inverts the object offset math, subtracting the
// slots objects consumed on earlier pages so every directory lands on
// exactly one page.
func PaginateDirectories(dirs []string, pageIndex, pageSize, objectsOnPage, totalObjects int) []string {
	remaining := pageSize - objectsOnPage
	if remaining <= 0 {
		return nil
	}
	start := pageIndex*pageSize - totalObjects
	if start < 0 {
		start = 0
	}
	if pageIndex < 0 || start >= len(dirs) {
		return nil
	}
	end := start + remaining
	if end > len(dirs) {
		end = len(dirs)
	}
	return dirs[start:end]
}

// PaginationInfo carries 1-based display numbers for a 0-based page index.
type PaginationInfo struct {
	CurrentPage int
	TotalPages  int
	HasPrevious bool
	HasNext     bool
}

// CalculatePaginationInfo derives display pagination from totals. A zero or
// negative page size yields a single empty page.
func CalculatePaginationInfo(totalItems, pageIndex, pageSize int) PaginationInfo {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return PaginationInfo{
		CurrentPage: pageIndex + 1,
		TotalPages:  totalPages,
		HasPrevious: pageIndex > 0,
		HasNext:     pageIndex+1 < totalPages,
	}
}
