// Package storeerr defines the error kinds shared by the inventory stores.
//
// Every store returns errors wrapped in exactly one of these classes so that
// callers can decide on a response with Class.Has instead of string matching.
package storeerr

import (
	"context"
	"errors"

	"github.com/zeebo/errs"
)

var (
	// NotFound is returned for an unknown location, tenant table or record.
	NotFound = errs.Class("not found")
	// Validation is returned when input is rejected before any SQL executes.
	Validation = errs.Class("validation")
	// Storage wraps driver, connectivity and constraint failures.
	Storage = errs.Class("storage")
)

// Wrap classifies a driver error as a storage fault. Context cancellation is
// still wrapped, but errors.Is(err, context.Canceled) keeps working on the result.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if NotFound.Has(err) || Validation.Has(err) || Storage.Has(err) {
		return err
	}
	return Storage.Wrap(err)
}

// IsCanceled reports whether err was caused by the caller's context ending.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
