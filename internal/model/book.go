package model //import "github.com/Davidnet/BookWise/internal/model"

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

type BookStatus string

const (
	StatusAvailable  BookStatus = "Available"
	StatusCheckedOut BookStatus = "Checked Out"
	StatusArchived   BookStatus = "Archived"
)

func (s BookStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusCheckedOut, StatusArchived:
		return true
	}
	return false
}

func (s BookStatus) String() string {
	return string(s)
}

// MinTextLength applies to title, author and borrower.
const MinTextLength = 2

// ISBNMatcher accepts bare ISBN-10 and prefixed ISBN-13 digit forms.
// The check digit is not verified.
var ISBNMatcher = regexp.MustCompile(`^(978|979)?\d{9}(\d|X)$`)

type Book struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	ISBN          string     `json:"isbn"`
	Status        BookStatus `json:"status"`
	Borrower      string     `json:"borrower,omitempty"`
	CheckoutDate  *time.Time `json:"checkoutDate,omitempty"`
	CoverImageURL string     `json:"coverImageUrl,omitempty"`
	Likes         int        `json:"likes"`
	Dislikes      int        `json:"dislikes"`
	Notes         string     `json:"notes"`
}

// NewBookRequest holds the raw fields of a book being added.
type NewBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// BookPatch carries the fields that replace a book's current values on update.
// Nil fields are left untouched.
type BookPatch struct {
	Title         *string `json:"title,omitempty"`
	Author        *string `json:"author,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	CoverImageURL *string `json:"coverImageUrl,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// NewBook validates the raw fields and returns an available book with
// zeroed counters and empty notes.
func NewBook(title, author, isbn string) (*Book, error) {
	book := &Book{
		Title:  strings.TrimSpace(title),
		Author: strings.TrimSpace(author),
		ISBN:   strings.TrimSpace(isbn),
		Status: StatusAvailable,
	}
	if err := validateFields(book); err != nil {
		return nil, err
	}
	return book, nil
}

// Validate checks field constraints plus the status and borrower invariants.
func (b *Book) Validate() error {
	if err := validateFields(b); err != nil {
		return err
	}
	if !b.Status.IsValid() {
		return &ValidationError{Field: "status", Message: "must be one of Available, Checked Out, Archived"}
	}
	if b.Status == StatusCheckedOut {
		if b.Borrower == "" || b.CheckoutDate == nil {
			return &ValidationError{Field: "borrower", Message: "checked out book needs a borrower and checkout date"}
		}
	} else if b.Borrower != "" || b.CheckoutDate != nil {
		return &ValidationError{Field: "borrower", Message: "only checked out books carry a borrower"}
	}
	if b.Likes < 0 || b.Dislikes < 0 {
		return &ValidationError{Field: "likes", Message: "counters cannot be negative"}
	}
	return nil
}

// ClearCheckout drops the borrower and checkout date.
func (b *Book) ClearCheckout() {
	b.Borrower = ""
	b.CheckoutDate = nil
}

// Apply copies every non-nil patch field into the book.
func (b *Book) Apply(patch *BookPatch) {
	if patch == nil {
		return
	}
	if patch.Title != nil {
		b.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Author != nil {
		b.Author = strings.TrimSpace(*patch.Author)
	}
	if patch.ISBN != nil {
		b.ISBN = NormalizeISBN(*patch.ISBN)
	}
	if patch.CoverImageURL != nil {
		b.CoverImageURL = *patch.CoverImageURL
	}
	if patch.Notes != nil {
		b.Notes = *patch.Notes
	}
}

// ResetCopy returns a copy keeping only the bibliographic fields, available
// with zeroed counters and empty notes. Used for donations and seeding.
func (b *Book) ResetCopy(id string) *Book {
	return &Book{
		ID:     id,
		Title:  b.Title,
		Author: b.Author,
		ISBN:   b.ISBN,
		Status: StatusAvailable,
	}
}

// NormalizeISBN strips hyphens and spaces.
func NormalizeISBN(isbn string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn))
}

// ValidateBorrower checks the borrower name given to a checkout.
func ValidateBorrower(borrower string) error {
	return validateText("borrower", borrower)
}

func validateFields(b *Book) error {
	if err := validateText("title", b.Title); err != nil {
		return err
	}
	if err := validateText("author", b.Author); err != nil {
		return err
	}
	if !ISBNMatcher.MatchString(b.ISBN) {
		return &ValidationError{Field: "isbn", Message: "must be a valid ISBN-10 or ISBN-13"}
	}
	return nil
}

func validateText(field, value string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < MinTextLength {
		return &ValidationError{Field: field, Message: "must be at least 2 characters"}
	}
	return nil
}
