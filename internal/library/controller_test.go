package library

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/Davidnet/BookWise/internal/model"
)

// memoryStore keeps books of every owner in memory and counts calls.
type memoryStore struct {
	mu     sync.Mutex
	books  map[string]map[string]*model.Book
	public map[string]*model.Book
	calls  int
	nextID int
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		books:  map[string]map[string]*model.Book{},
		public: map[string]*model.Book{},
	}
}

func (m *memoryStore) begin(owner string) error {
	m.calls++
	if owner == "" {
		return model.ErrUnauthenticated
	}
	return m.err
}

func (m *memoryStore) ListBooks(ctx context.Context, owner string) ([]*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(owner); err != nil {
		return nil, err
	}
	list := []*model.Book{}
	for _, book := range m.books[owner] {
		cp := *book
		list = append(list, &cp)
	}
	return list, nil
}

func (m *memoryStore) GetBook(ctx context.Context, owner, id string) (*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(owner); err != nil {
		return nil, err
	}
	book, ok := m.books[owner][id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *book
	return &cp, nil
}

func (m *memoryStore) CreateBook(ctx context.Context, owner string, book *model.Book) (*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(owner); err != nil {
		return nil, err
	}
	m.nextID++
	cp := *book
	cp.ID = fmt.Sprintf("book-%d", m.nextID)
	if m.books[owner] == nil {
		m.books[owner] = map[string]*model.Book{}
	}
	m.books[owner][cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memoryStore) UpdateBook(ctx context.Context, owner string, book *model.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(owner); err != nil {
		return err
	}
	if err := book.Validate(); err != nil {
		return err
	}
	if _, ok := m.books[owner][book.ID]; !ok {
		return model.ErrNotFound
	}
	cp := *book
	m.books[owner][book.ID] = &cp
	return nil
}

func (m *memoryStore) DeleteBook(ctx context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(owner); err != nil {
		return err
	}
	delete(m.books[owner], id)
	return nil
}

func (m *memoryStore) PublishBook(ctx context.Context, owner string, book *model.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(owner); err != nil {
		return err
	}
	m.public[book.ID] = book.ResetCopy(book.ID)
	return nil
}

func (m *memoryStore) ListPublicBooks(ctx context.Context, owner string) ([]*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(owner); err != nil {
		return nil, err
	}
	list := []*model.Book{}
	for _, book := range m.public {
		cp := *book
		list = append(list, &cp)
	}
	return list, nil
}

var fixedNow = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestController(t *testing.T) (*Controller, *memoryStore, *model.Book) {
	t.Helper()
	s := newMemoryStore()
	c := NewController(s)
	c.SetClock(func() time.Time { return fixedNow })
	book, err := c.Add(context.Background(), "alice", &model.NewBookRequest{
		Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return c, s, book
}

func TestAddBook(t *testing.T) {
	_, _, book := newTestController(t)
	want := &model.Book{
		ID: book.ID, Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593",
		Status: model.StatusAvailable,
	}
	if diff := cmp.Diff(want, book); diff != "" {
		t.Errorf("unexpected book (-want +got):\n%s", diff)
	}
}

func TestAddValidatesBeforeStore(t *testing.T) {
	s := newMemoryStore()
	c := NewController(s)
	_, err := c.Add(context.Background(), "alice", &model.NewBookRequest{Title: "Dune", Author: "Frank Herbert", ISBN: "12345"})
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.Field != "isbn" {
		t.Fatalf("expected isbn ValidationError, got %v", err)
	}
	if s.calls != 0 {
		t.Errorf("validation must happen before any store call, got %d calls", s.calls)
	}
}

func TestCheckOutAndMarkAvailable(t *testing.T) {
	c, _, book := newTestController(t)
	ctx := context.Background()

	out, err := c.CheckOut(ctx, "alice", book.ID, " Alice ")
	if err != nil {
		t.Fatalf("CheckOut failed: %v", err)
	}
	if out.Status != model.StatusCheckedOut || out.Borrower != "Alice" {
		t.Errorf("unexpected checked out book %+v", out)
	}
	if out.CheckoutDate == nil || !out.CheckoutDate.Equal(fixedNow) {
		t.Errorf("checkout date should come from the clock, got %v", out.CheckoutDate)
	}

	if _, err := c.CheckOut(ctx, "alice", book.ID, "Bob"); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	back, err := c.MarkAvailable(ctx, "alice", book.ID)
	if err != nil {
		t.Fatalf("MarkAvailable failed: %v", err)
	}
	if back.Status != model.StatusAvailable || back.Borrower != "" || back.CheckoutDate != nil {
		t.Errorf("mark available should clear the checkout, got %+v", back)
	}
}

func TestCheckOutRejectsShortBorrower(t *testing.T) {
	c, s, book := newTestController(t)
	ctx := context.Background()
	before := s.calls

	for _, borrower := range []string{"", "A", "  B  "} {
		_, err := c.CheckOut(ctx, "alice", book.ID, borrower)
		var verr *model.ValidationError
		if !errors.As(err, &verr) || verr.Field != "borrower" {
			t.Errorf("expected borrower ValidationError for %q, got %v", borrower, err)
		}
	}
	if s.calls != before {
		t.Errorf("borrower validation must happen before any store call")
	}
	got, _ := c.Get(ctx, "alice", book.ID)
	if got.Status != model.StatusAvailable {
		t.Errorf("status should be unchanged, got %s", got.Status)
	}
}

func TestArchiveClearsCheckout(t *testing.T) {
	c, _, book := newTestController(t)
	ctx := context.Background()

	if _, err := c.CheckOut(ctx, "alice", book.ID, "Alice"); err != nil {
		t.Fatal(err)
	}
	archived, err := c.Archive(ctx, "alice", book.ID)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if archived.Status != model.StatusArchived || archived.Borrower != "" || archived.CheckoutDate != nil {
		t.Errorf("unexpected archived book %+v", archived)
	}

	// An archived book can be checked out again.
	if _, err := c.CheckOut(ctx, "alice", book.ID, "Bob"); err != nil {
		t.Errorf("check out from archived failed: %v", err)
	}
}

func TestLikeAndDislikeCounters(t *testing.T) {
	c, _, book := newTestController(t)
	ctx := context.Background()

	const likes = 7
	for i := 0; i < likes; i++ {
		if _, err := c.Like(ctx, "alice", book.ID); err != nil {
			t.Fatal(err)
		}
		if i%2 == 0 {
			if _, err := c.Dislike(ctx, "alice", book.ID); err != nil {
				t.Fatal(err)
			}
		}
	}
	got, _ := c.Get(ctx, "alice", book.ID)
	if got.Likes != likes || got.Dislikes != 4 {
		t.Errorf("expected %d likes and 4 dislikes, got %d and %d", likes, got.Likes, got.Dislikes)
	}
}

func TestDonatePublishesResetCopy(t *testing.T) {
	c, s, book := newTestController(t)
	ctx := context.Background()

	if _, err := c.CheckOut(ctx, "alice", book.ID, "Alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Like(ctx, "alice", book.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := c.EditNotes(ctx, "alice", book.ID, "my notes"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AssignCover(ctx, "alice", book.ID, "http://objects.test/covers/x.png"); err != nil {
		t.Fatal(err)
	}

	private, err := c.Donate(ctx, "alice", book.ID)
	if err != nil {
		t.Fatalf("Donate failed: %v", err)
	}
	if private.Status != model.StatusCheckedOut || private.Likes != 1 {
		t.Errorf("private copy must be unchanged, got %+v", private)
	}

	public, err := c.ListPublic(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	want := []*model.Book{{
		ID: book.ID, Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593",
		Status: model.StatusAvailable,
	}}
	if diff := cmp.Diff(want, public); diff != "" {
		t.Errorf("unexpected public books (-want +got):\n%s", diff)
	}

	// Donating again overwrites the public copy.
	if _, err := c.Donate(ctx, "alice", book.ID); err != nil {
		t.Fatalf("second Donate failed: %v", err)
	}
	if len(s.public) != 1 {
		t.Errorf("expected one public book, got %d", len(s.public))
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	c, _, book := newTestController(t)
	ctx := context.Background()

	author := "F. Herbert"
	isbn := "978-0-441-01359-3"
	updated, err := c.Update(ctx, "alice", book.ID, &model.BookPatch{Author: &author, ISBN: &isbn})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Dune" || updated.Author != "F. Herbert" || updated.ISBN != "9780441013593" {
		t.Errorf("unexpected updated book %+v", updated)
	}

	bad := "X"
	if _, err := c.Update(ctx, "alice", book.ID, &model.BookPatch{Title: &bad}); !model.IsValidation(err) {
		t.Errorf("expected ValidationError for short title, got %v", err)
	}
}

func TestEditNotesAndCoverReplaceWholesale(t *testing.T) {
	c, _, book := newTestController(t)
	ctx := context.Background()

	if _, err := c.EditNotes(ctx, "alice", book.ID, "first"); err != nil {
		t.Fatal(err)
	}
	got, err := c.EditNotes(ctx, "alice", book.ID, "second")
	if err != nil {
		t.Fatal(err)
	}
	if got.Notes != "second" {
		t.Errorf("notes should be replaced, got %q", got.Notes)
	}

	got, err = c.AssignCover(ctx, "alice", book.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.CoverImageURL != "" {
		t.Errorf("empty url should clear the cover, got %q", got.CoverImageURL)
	}
}

func TestDeleteAndErrors(t *testing.T) {
	c, s, book := newTestController(t)
	ctx := context.Background()

	if err := c.Delete(ctx, "alice", book.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Like(ctx, "alice", book.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := c.List(ctx, ""); !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}

	s.err = &model.StoreError{Op: "get book", Err: errors.New("offline")}
	if _, err := c.Archive(ctx, "alice", "any"); !errors.Is(err, model.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
