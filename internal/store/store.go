package store

import (
	"context"
	"errors"
	"fmt"
)

// Filter operators supported by every backend
const (
	OpEqual    = "=="
	OpNotEqual = "!="
)

// Filter restricts List to documents whose top-level Field compares to Value
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Query describes a List call. The zero value lists the whole collection.
type Query struct {
	Filters []Filter
	// OrderBy is a top-level field sorted ascending
	OrderBy string
	Limit   int
}

// Document is a listed document decoded lazily into the caller's type
type Document interface {
	ID() string
	DataTo(v interface{}) error
}

// Store is the document database holding sites, wake-up sites and the
// migration checkpoint. Documents are structs carrying both json and
// firestore tags with identical names.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore,Document=MockDocument
type Store interface {
	// Get decodes the document into dest, returning domain.ErrNotFound if it does not exist
	Get(ctx context.Context, collection, id string, dest interface{}) error
	// Set creates or replaces a document
	Set(ctx context.Context, collection, id string, doc interface{}) error
	// Update merges top-level fields into an existing document, returning
	// domain.ErrNotFound if it does not exist
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// List returns documents of a collection matching q
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	Close() error
}

func validateFilters(filters []Filter) error {
	for _, f := range filters {
		if f.Op != OpEqual && f.Op != OpNotEqual {
			return fmt.Errorf("unsupported filter operator %q", f.Op)
		}
		if f.Field == "" {
			return errors.New("filter field is required")
		}
	}
	return nil
}
