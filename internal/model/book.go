// Package model defines domain entities for the application.
package model

import (
	"errors"
	"time"
)

// ErrAlreadyBorrowed is returned when borrowing a book that is checked out.
var ErrAlreadyBorrowed = errors.New("book is already borrowed")

// Book represents a single title in the library inventory.
// BorrowerName and ReturnDate are either both set (borrowed) or both
// unset (available); Borrow and Return are the only mutations.
type Book struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author,omitempty"`
	BorrowerName *string    `json:"borrower_name"`
	ReturnDate   *time.Time `json:"return_date"`
}

// Borrow marks the book as checked out by borrower until returnDate.
// Fails without mutating the book if it is already borrowed.
func (b *Book) Borrow(borrower string, returnDate time.Time) error {
	if b.IsBorrowed() {
		return ErrAlreadyBorrowed
	}
	b.BorrowerName = &borrower
	b.ReturnDate = &returnDate
	return nil
}

// Return clears the borrow state. Returning an available book is a no-op.
func (b *Book) Return() {
	b.BorrowerName = nil
	b.ReturnDate = nil
}

// IsBorrowed reports whether the book is currently checked out.
func (b *Book) IsBorrowed() bool {
	return b.BorrowerName != nil
}
