// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import "context"

// MaxPages is the most pages a single pagination loop will request.
const MaxPages = 1000

// PaginateAll fetches every page of a cursor-based connection, starting at
// startCursor, and concatenates the items mapPage extracts from each page in
// order. Items are not deduplicated. Errors follow Paginate.
func PaginateAll[Item, Page any](
	ctx context.Context,
	q Queryer,
	query string,
	variables any,
	startCursor *string,
	mapPage func(Page) ([]Item, PageInfo, error),
) ([]Item, error) {
	return Paginate(startCursor, func(cursor *string) ([]Item, PageInfo, error) {
		page, err := FetchPage[Page](ctx, q, query, cursor, variables)
		if err != nil {
			return nil, PageInfo{}, err
		}
		return mapPage(page)
	})
}

// Paginate calls fetch with successive cursors, beginning with start (nil
// for the first page), until a page reports no further results.
//
// Any fetch error aborts the loop; items collected from earlier pages are
// discarded and only the error is returned. The loop also stops with a
// PageLimitError after MaxPages pages.
func Paginate[T any](start *string, fetch func(cursor *string) ([]T, PageInfo, error)) ([]T, error) {
	var items []T
	cursor := start
	for pagesSeen := 1; ; pagesSeen++ {
		if pagesSeen > MaxPages {
			return nil, &PageLimitError{Limit: MaxPages}
		}
		batch, info, err := fetch(cursor)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)

		next, err := info.NextCursor()
		if err != nil {
			return nil, err
		}
		if next == nil {
			return items, nil
		}
		cursor = next
	}
}
