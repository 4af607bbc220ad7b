package model

import (
	"errors"
	"testing"
	"time"
)

func TestNewBook(t *testing.T) {
	book, err := NewBook("Dune", "Frank Herbert", "9780441013593")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.Status != StatusAvailable {
		t.Errorf("expected status Available, got %s", book.Status)
	}
	if book.Likes != 0 || book.Dislikes != 0 || book.Notes != "" {
		t.Errorf("expected zeroed counters and empty notes, got %+v", book)
	}
	if book.Borrower != "" || book.CheckoutDate != nil {
		t.Errorf("new book must not carry a borrower")
	}
}

func TestNewBookValidation(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		author string
		isbn   string
		field  string
	}{
		{name: "short title", title: "D", author: "Frank Herbert", isbn: "9780441013593", field: "title"},
		{name: "blank title", title: "  D  ", author: "Frank Herbert", isbn: "9780441013593", field: "title"},
		{name: "short author", title: "Dune", author: "F", isbn: "9780441013593", field: "author"},
		{name: "short isbn", title: "Dune", author: "Frank Herbert", isbn: "12345", field: "isbn"},
		{name: "bad prefix", title: "Dune", author: "Frank Herbert", isbn: "9770441013593", field: "isbn"},
		{name: "lowercase check char", title: "Dune", author: "Frank Herbert", isbn: "014143951x", field: "isbn"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewBook(test.title, test.author, test.isbn)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != test.field {
				t.Errorf("expected field %s, got %s", test.field, verr.Field)
			}
		})
	}
}

func TestISBNPattern(t *testing.T) {
	valid := []string{"0141439512", "9780441013593", "979044101359X", "014143951X"}
	for _, isbn := range valid {
		if !ISBNMatcher.MatchString(isbn) {
			t.Errorf("expected %s to be accepted", isbn)
		}
	}
	// The check digit is not verified.
	if !ISBNMatcher.MatchString("0000000001") {
		t.Error("checksum is not part of the pattern")
	}
	invalid := []string{"12345", "978-0441013593", "97804410135930", ""}
	for _, isbn := range invalid {
		if ISBNMatcher.MatchString(isbn) {
			t.Errorf("expected %s to be rejected", isbn)
		}
	}
}

func TestBookValidate(t *testing.T) {
	now := time.Now()
	base := Book{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593"}

	checkedOut := base
	checkedOut.Status = StatusCheckedOut
	checkedOut.Borrower = "Alice"
	checkedOut.CheckoutDate = &now
	if err := checkedOut.Validate(); err != nil {
		t.Errorf("checked out book should be valid: %v", err)
	}

	missingDate := checkedOut
	missingDate.CheckoutDate = nil
	if err := missingDate.Validate(); !IsValidation(err) {
		t.Errorf("borrower without checkout date should fail, got %v", err)
	}

	stray := base
	stray.Status = StatusArchived
	stray.Borrower = "Alice"
	if err := stray.Validate(); !IsValidation(err) {
		t.Errorf("archived book with borrower should fail, got %v", err)
	}

	unknown := base
	unknown.Status = "Lost"
	if err := unknown.Validate(); !IsValidation(err) {
		t.Errorf("unknown status should fail, got %v", err)
	}
}

func TestApplyAndResetCopy(t *testing.T) {
	now := time.Now()
	book := &Book{
		ID: "b1", Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593",
		Status: StatusCheckedOut, Borrower: "Alice", CheckoutDate: &now,
		CoverImageURL: "http://covers/b1.png", Likes: 3, Dislikes: 1, Notes: "spice",
	}

	isbn := "978-0-441-01359-3"
	author := " Frank  Herbert "
	book.Apply(&BookPatch{ISBN: &isbn, Author: &author})
	if book.ISBN != "9780441013593" {
		t.Errorf("expected normalized isbn, got %s", book.ISBN)
	}
	if book.Author != "Frank  Herbert" {
		t.Errorf("expected trimmed author, got %q", book.Author)
	}

	cp := book.ResetCopy("b1")
	want := Book{ID: "b1", Title: "Dune", Author: "Frank  Herbert", ISBN: "9780441013593", Status: StatusAvailable}
	if *cp != want {
		t.Errorf("unexpected reset copy %+v", cp)
	}
}

func TestStoreErrorMatchesUnavailable(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := error(&StoreError{Op: "list", Err: cause})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Error("StoreError should match ErrStoreUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Error("StoreError should unwrap to its cause")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("StoreError should not match ErrNotFound")
	}
}
