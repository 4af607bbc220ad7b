package library

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/model"
)

// BookStore is the persistence the controller drives.
type BookStore interface {
	ListBooks(ctx context.Context, owner string) ([]*model.Book, error)
	GetBook(ctx context.Context, owner, id string) (*model.Book, error)
	CreateBook(ctx context.Context, owner string, book *model.Book) (*model.Book, error)
	UpdateBook(ctx context.Context, owner string, book *model.Book) error
	DeleteBook(ctx context.Context, owner, id string) error
	PublishBook(ctx context.Context, owner string, book *model.Book) error
	ListPublicBooks(ctx context.Context, owner string) ([]*model.Book, error)
}

// Controller applies user actions to books. Every change is written back as
// a full record, concurrent changes to the same book are last-write-wins.
type Controller struct {
	store BookStore
	now   func() time.Time
}

func NewController(store BookStore) *Controller {
	return &Controller{
		store: store,
		now:   time.Now,
	}
}

// SetClock replaces the clock used for checkout timestamps.
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

func (c *Controller) List(ctx context.Context, owner string) ([]*model.Book, error) {
	return c.store.ListBooks(ctx, owner)
}

func (c *Controller) ListPublic(ctx context.Context, owner string) ([]*model.Book, error) {
	return c.store.ListPublicBooks(ctx, owner)
}

func (c *Controller) Get(ctx context.Context, owner, id string) (*model.Book, error) {
	return c.store.GetBook(ctx, owner, id)
}

// Add validates the request and stores a new available book.
func (c *Controller) Add(ctx context.Context, owner string, req *model.NewBookRequest) (*model.Book, error) {
	book, err := model.NewBook(req.Title, req.Author, req.ISBN)
	if err != nil {
		return nil, err
	}
	return c.store.CreateBook(ctx, owner, book)
}

// Update merges the patch, for example an AI metadata lookup, into the book.
func (c *Controller) Update(ctx context.Context, owner, id string, patch *model.BookPatch) (*model.Book, error) {
	return c.mutate(ctx, owner, id, func(book *model.Book) error {
		book.Apply(patch)
		return nil
	})
}

// MarkAvailable is allowed from any status and clears the checkout.
func (c *Controller) MarkAvailable(ctx context.Context, owner, id string) (*model.Book, error) {
	return c.mutate(ctx, owner, id, func(book *model.Book) error {
		book.Status = model.StatusAvailable
		book.ClearCheckout()
		return nil
	})
}

// CheckOut lends the book to borrower. The borrower is validated before the
// book is read, and a checked out book cannot be checked out again.
func (c *Controller) CheckOut(ctx context.Context, owner, id, borrower string) (*model.Book, error) {
	borrower = strings.TrimSpace(borrower)
	if err := model.ValidateBorrower(borrower); err != nil {
		return nil, err
	}
	return c.mutate(ctx, owner, id, func(book *model.Book) error {
		if book.Status == model.StatusCheckedOut {
			return errors.Wrapf(model.ErrInvalidTransition, "book %s is already checked out", book.ID)
		}
		checkoutDate := c.now().UTC()
		book.Status = model.StatusCheckedOut
		book.Borrower = borrower
		book.CheckoutDate = &checkoutDate
		return nil
	})
}

// Archive is allowed from any status and clears the checkout.
func (c *Controller) Archive(ctx context.Context, owner, id string) (*model.Book, error) {
	return c.mutate(ctx, owner, id, func(book *model.Book) error {
		book.Status = model.StatusArchived
		book.ClearCheckout()
		return nil
	})
}

func (c *Controller) Delete(ctx context.Context, owner, id string) error {
	if err := c.store.DeleteBook(ctx, owner, id); err != nil {
		return err
	}
	log.Debug("Book deleted", zap.String("owner", owner), zap.String("book_id", id))
	return nil
}

// Donate publishes a reset copy of the book. The private book is unchanged
// and donating again overwrites the public copy.
func (c *Controller) Donate(ctx context.Context, owner, id string) (*model.Book, error) {
	book, err := c.store.GetBook(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := c.store.PublishBook(ctx, owner, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (c *Controller) Like(ctx context.Context, owner, id string) (*model.Book, error) {
	return c.mutate(ctx, owner, id, func(book *model.Book) error {
		book.Likes++
		return nil
	})
}

func (c *Controller) Dislike(ctx context.Context, owner, id string) (*model.Book, error) {
	return c.mutate(ctx, owner, id, func(book *model.Book) error {
		book.Dislikes++
		return nil
	})
}

// EditNotes replaces the notes wholesale.
func (c *Controller) EditNotes(ctx context.Context, owner, id, notes string) (*model.Book, error) {
	return c.mutate(ctx, owner, id, func(book *model.Book) error {
		book.Notes = notes
		return nil
	})
}

// AssignCover replaces the cover reference wholesale, an empty URL removes it.
func (c *Controller) AssignCover(ctx context.Context, owner, id, coverURL string) (*model.Book, error) {
	return c.mutate(ctx, owner, id, func(book *model.Book) error {
		book.CoverImageURL = strings.TrimSpace(coverURL)
		return nil
	})
}

// mutate reads the book, applies change and writes the full record back.
func (c *Controller) mutate(ctx context.Context, owner, id string, change func(*model.Book) error) (*model.Book, error) {
	book, err := c.store.GetBook(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := change(book); err != nil {
		return nil, err
	}
	if err := c.store.UpdateBook(ctx, owner, book); err != nil {
		return nil, err
	}
	return book, nil
}
