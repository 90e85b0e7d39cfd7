package cockroach

import (
	"fmt"
	"slices"

	"github.com/btcsuite/btcutil/base58"
	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/types"
	"github.com/jackc/pgx/v5"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultPageSize = 25

// cursor is the opaque pagination token. IDs are xid strings
// so they sort by creation time on their own.
type cursor struct {
	ID string `msgpack:"i"`
}

func encodeCursor(id string) (string, error) {
	b, err := msgpack.Marshal(cursor{ID: id})
	if err != nil {
		return "", fmt.Errorf("msgpack marshal cursor: %w", err)
	}

	return base58.Encode(b), nil
}

func decodeCursor(s string) (string, error) {
	var c cursor

	b := base58.Decode(s)
	if err := msgpack.Unmarshal(b, &c); err != nil {
		return "", errs.NewInvalidArgumentError("cursor", "invalid cursor")
	}

	return c.ID, nil
}

func isBackwards(args types.PageArgs) bool {
	return args.Last != nil || args.Before != nil
}

// addPageFilter narrows the query past the given cursors. Items are
// listed newest first, so "after" means older and "before" means newer.
func addPageFilter(query, table string, args pgx.StrictNamedArgs, page types.PageArgs) (string, error) {
	if page.After != nil {
		id, err := decodeCursor(*page.After)
		if err != nil {
			return "", fmt.Errorf("decode after cursor: %w", err)
		}

		query += fmt.Sprintf(" AND %s.id < @after_cursor_id ", table)
		args["after_cursor_id"] = id
	}

	if page.Before != nil {
		id, err := decodeCursor(*page.Before)
		if err != nil {
			return "", fmt.Errorf("decode before cursor: %w", err)
		}

		query += fmt.Sprintf(" AND %s.id > @before_cursor_id ", table)
		args["before_cursor_id"] = id
	}

	return query, nil
}

func addPageOrder(query, table string, page types.PageArgs) string {
	if isBackwards(page) {
		return query + fmt.Sprintf(" ORDER BY %s.id ASC ", table)
	}

	return query + fmt.Sprintf(" ORDER BY %s.id DESC ", table)
}

// addPageLimit fetches one extra row so applyPageInfo can tell
// whether another page exists.
func addPageLimit(query string, args pgx.StrictNamedArgs, page types.PageArgs) string {
	size := defaultPageSize
	if isBackwards(page) {
		if page.Last != nil {
			size = int(*page.Last)
		}
	} else if page.First != nil {
		size = int(*page.First)
	}

	args["limit"] = size + 1

	return query + " LIMIT @limit "
}

// applyPageInfo modifies the given page in-place: it cuts the extra
// row fetched by addPageLimit and reverses the items back to
// newest-first order in case of backwards pagination.
func applyPageInfo[T any](page *types.Page[T], pageArgs types.PageArgs, cursorFunc func(item T) string) error {
	l := uint(len(page.Items))
	if l == 0 {
		return nil
	}

	backwards := isBackwards(pageArgs)
	if backwards {
		last := or(pageArgs.Last, defaultPageSize)
		page.PageInfo.HasPreviousPage = l > last
		if page.PageInfo.HasPreviousPage {
			page.Items = page.Items[:last]
		}
		page.PageInfo.HasNextPage = pageArgs.Before != nil
	} else {
		first := or(pageArgs.First, defaultPageSize)
		page.PageInfo.HasNextPage = l > first
		if page.PageInfo.HasNextPage {
			page.Items = page.Items[:first]
		}
		page.PageInfo.HasPreviousPage = pageArgs.After != nil
	}

	if backwards {
		slices.Reverse(page.Items)
	}

	l = uint(len(page.Items))
	if l == 0 {
		return nil
	}

	if c, err := encodeCursor(cursorFunc(page.Items[0])); err != nil {
		return fmt.Errorf("encode start cursor: %w", err)
	} else {
		page.PageInfo.StartCursor = new(c)
	}

	if c, err := encodeCursor(cursorFunc(page.Items[l-1])); err != nil {
		return fmt.Errorf("encode end cursor: %w", err)
	} else {
		page.PageInfo.EndCursor = new(c)
	}

	return nil
}

func or[T any](a *T, b T) T {
	if a != nil {
		return *a
	}

	return b
}
