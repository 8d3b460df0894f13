package backingstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 7)
	}

	return data
}

type failingReader struct{}

func (failingReader) ReadAt(p []byte, _ int64) (int, error) {
	return 0, errors.New("disk on fire")
}

var _ = Describe("ReaderAtStore", func() {
	It("should return the exact byte range of a page", func() {
		data := pattern(4 * 16)
		s, err := New(bytes.NewReader(data), int64(len(data)), 4, 16)
		Expect(err).ToNot(HaveOccurred())

		page, err := s.ReadPage(2)

		Expect(err).ToNot(HaveOccurred())
		Expect(page).To(Equal(data[32:48]))
		Expect(s.PageSize()).To(Equal(16))
		Expect(s.NumPages()).To(Equal(4))
	})

	It("should return copies of the store content", func() {
		data := pattern(2 * 8)
		s, _ := New(bytes.NewReader(data), int64(len(data)), 2, 8)

		page, _ := s.ReadPage(0)
		page[0] = 0xff

		again, _ := s.ReadPage(0)
		Expect(again[0]).To(Equal(byte(0)))
	})

	It("should refuse a store shorter than the logical space", func() {
		data := pattern(3*16 + 15)

		_, err := New(bytes.NewReader(data), int64(len(data)), 4, 16)

		Expect(errors.Is(err, ErrStoreUnavailable)).To(BeTrue())
	})

	It("should report read failures as unavailable", func() {
		s, err := New(failingReader{}, 64, 4, 16)
		Expect(err).ToNot(HaveOccurred())

		_, err = s.ReadPage(1)

		Expect(errors.Is(err, ErrStoreUnavailable)).To(BeTrue())
	})

	Context("files", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should open a file that covers the logical space", func() {
			path := filepath.Join(dir, "BACKING_STORE.bin")
			data := pattern(4 * 16)
			Expect(os.WriteFile(path, data, 0o644)).To(Succeed())

			s, err := Open(path, 4, 16)
			Expect(err).ToNot(HaveOccurred())
			defer s.Close()

			page, err := s.ReadPage(3)
			Expect(err).ToNot(HaveOccurred())
			Expect(page).To(Equal(data[48:64]))
		})

		It("should fail on a missing file", func() {
			_, err := Open(filepath.Join(dir, "missing.bin"), 4, 16)

			Expect(errors.Is(err, ErrStoreUnavailable)).To(BeTrue())
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})

		It("should fail on a short file", func() {
			path := filepath.Join(dir, "short.bin")
			Expect(os.WriteFile(path, pattern(10), 0o644)).To(Succeed())

			_, err := Open(path, 4, 16)

			Expect(errors.Is(err, ErrStoreUnavailable)).To(BeTrue())
		})
	})
})
