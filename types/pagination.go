package types

import "github.com/chatlinehq/chatline/validator"

const maxPageSize = 200

type Page[T any] struct {
	Items    []T      `json:"items"`
	PageInfo PageInfo `json:"pageInfo"`
}

type PageInfo struct {
	EndCursor       *string `json:"endCursor"`
	HasNextPage     bool    `json:"hasNextPage"`
	StartCursor     *string `json:"startCursor"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
}

type PageArgs struct {
	First  *uint
	After  *string
	Last   *uint
	Before *string
}

func (args PageArgs) IsBackwards() bool {
	return args.Last != nil || args.Before != nil
}

func (args *PageArgs) Validate() error {
	v := validator.New()

	if args.First != nil && args.Last != nil {
		v.AddError("First", "cannot specify both first and last")
	}

	if args.First != nil && *args.First < 1 {
		v.AddError("First", "first must be greater than 0")
	}

	if args.Last != nil && *args.Last < 1 {
		v.AddError("Last", "last must be greater than 0")
	}

	if args.First != nil && *args.First > maxPageSize {
		v.AddError("First", "first overflow")
	}

	if args.Last != nil && *args.Last > maxPageSize {
		v.AddError("Last", "last overflow")
	}

	return v.AsError()
}
