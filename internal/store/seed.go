package store

import (
	"context"

	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/model"
	"github.com/Davidnet/BookWise/internal/util"
	"go.uber.org/zap"
)

// StarterBooks are written into every new private collection.
var StarterBooks = []model.Book{
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "9780061120084"},
	{Title: "1984", Author: "George Orwell", ISBN: "9780451524935"},
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "9780743273565"},
	{Title: "Pride and Prejudice", Author: "Jane Austen", ISBN: "9780141439518"},
	{Title: "The Catcher in the Rye", Author: "J.D. Salinger", ISBN: "9780316769488"},
}

// ensureSeeded fills an empty private collection with the starter books and
// a private copy of every public book in one atomic batch.
//
// Two concurrent first reads can both seed, leaving duplicates.
func (s *Store) ensureSeeded(ctx context.Context, owner string) error {
	publicDocs, err := s.driver.List(ctx, PublicBooksCollection)
	if err != nil {
		return storeError("seed books", err)
	}
	publicBooks, err := decodeBooks(publicDocs)
	if err != nil {
		return err
	}

	seeds := make([]*model.Book, 0, len(StarterBooks)+len(publicBooks))
	for i := range StarterBooks {
		seeds = append(seeds, StarterBooks[i].ResetCopy(util.GenUUID()))
	}
	for _, public := range publicBooks {
		seeds = append(seeds, public.ResetCopy(util.GenUUID()))
	}

	collection := UserBooksCollection(owner)
	writes := make([]Write, 0, len(seeds))
	for _, book := range seeds {
		data, err := encodeBook(book)
		if err != nil {
			return err
		}
		writes = append(writes, Write{Op: WriteSet, Collection: collection, ID: book.ID, Data: data})
	}
	if err := s.driver.Batch(ctx, writes); err != nil {
		return storeError("seed books", err)
	}
	log.Info("Seeded book collection", zap.String("owner", owner), zap.Int("count", len(writes)))
	return nil
}
