// Package backingstore provides the read-only source of page content that
// page faults are serviced from.
package backingstore

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrStoreUnavailable is returned when the backing store cannot be opened or
// does not cover the logical space.
var ErrStoreUnavailable = errors.New("backing store unavailable")

// A BackingStore returns the content of logical pages.
type BackingStore interface {
	// ReadPage returns a fresh copy of the bytes of the page.
	ReadPage(page uint64) ([]byte, error)

	// PageSize returns the number of bytes of each page.
	PageSize() int

	// NumPages returns the number of pages the store covers.
	NumPages() int
}

// A ReaderAtStore serves pages from an io.ReaderAt. It does not cache pages;
// physical memory is the cache.
type ReaderAtStore struct {
	r        io.ReaderAt
	closer   io.Closer
	pageSize int
	numPages int
}

// New creates a store over r, which must hold at least numPages*pageSize
// bytes. Size is the number of bytes available in r.
func New(
	r io.ReaderAt,
	size int64,
	numPages, pageSize int,
) (*ReaderAtStore, error) {
	required := int64(numPages) * int64(pageSize)
	if size < required {
		return nil, fmt.Errorf(
			"%w: store holds %d bytes, the logical space needs %d",
			ErrStoreUnavailable, size, required)
	}

	s := &ReaderAtStore{
		r:        r,
		pageSize: pageSize,
		numPages: numPages,
	}

	return s, nil
}

// Open opens the file at path as a backing store.
func Open(path string, numPages, pageSize int) (*ReaderAtStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	s, err := New(f, info.Size(), numPages, pageSize)
	if err != nil {
		f.Close()
		return nil, err
	}

	s.closer = f

	return s, nil
}

// PageSize returns the number of bytes of each page.
func (s *ReaderAtStore) PageSize() int {
	return s.pageSize
}

// NumPages returns the number of pages the store covers.
func (s *ReaderAtStore) NumPages() int {
	return s.numPages
}

// ReadPage returns the bytes [page*PageSize, (page+1)*PageSize).
func (s *ReaderAtStore) ReadPage(page uint64) ([]byte, error) {
	if page >= uint64(s.numPages) {
		panic(fmt.Sprintf("page %d out of range [0, %d)", page, s.numPages))
	}

	buf := make([]byte, s.pageSize)

	n, err := s.r.ReadAt(buf, int64(page)*int64(s.pageSize))
	if n == len(buf) {
		return buf, nil
	}

	if err == nil {
		err = io.ErrUnexpectedEOF
	}

	return nil, fmt.Errorf("%w: reading page %d: %w",
		ErrStoreUnavailable, page, err)
}

// Close releases the underlying file, if the store owns one.
func (s *ReaderAtStore) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}
