package utils

import "strconv"

// PageSize is the fixed number of posts per page on every listing.
const PageSize = 10

// Page describes one bounded slice of an ordered collection.
type Page struct {
	Number      int   `json:"page"`
	Size        int   `json:"page_size"`
	TotalItems  int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	IsPaginated bool  `json:"is_paginated"`
}

// PageFor resolves a raw page parameter against a collection size.
// Non-numeric input falls back to the first page; out-of-range numbers
// clamp to the nearest valid page instead of failing.
func PageFor(param string, total int64) Page {
	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	number, err := strconv.Atoi(param)
	if err != nil || number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:      number,
		Size:        PageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		IsPaginated: totalPages > 1,
	}
}

// Offset is the row offset of this page for an OFFSET/LIMIT query.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
