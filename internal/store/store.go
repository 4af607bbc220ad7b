package store // import "github.com/Davidnet/BookWise/internal/store"

import (
	"context"
	"sync"

	"github.com/Davidnet/BookWise/internal/model"
)

const (
	PublicBooksCollection   = "public-books"
	AccountsCollection      = "accounts"
	AccountEmailsCollection = "account-emails"
	SettingsCollection      = "settings"
)

// UserBooksCollection is the private book collection of an owner.
func UserBooksCollection(owner string) string {
	return "users/" + owner + "/books"
}

// NotesListener is told about books whose notes were written with a new,
// non-empty value.
type NotesListener interface {
	NotesChanged(owner, bookID, notes string)
}

type Store struct {
	driver             Driver
	listener           NotesListener
	AccountCache       sync.Map // map[string]*model.Account
	SystemSettingCache sync.Map // map[string]*model.SystemSetting
}

func NewStore(driver Driver) *Store {
	return &Store{
		driver: driver,
	}
}

// SetNotesListener registers the listener notified after notes change.
func (s *Store) SetNotesListener(listener NotesListener) {
	s.listener = listener
}

func (s *Store) Ping(ctx context.Context) error {
	return s.driver.Ping(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func storeError(op string, err error) error {
	return &model.StoreError{Op: op, Err: err}
}
