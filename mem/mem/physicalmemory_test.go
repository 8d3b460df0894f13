package mem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PhysicalMemory", func() {
	var m *PhysicalMemory

	BeforeEach(func() {
		m = NewPhysicalMemory(4, 8)
	})

	It("should report its geometry", func() {
		Expect(m.NumFrames()).To(Equal(4))
		Expect(m.PageSize()).To(Equal(8))
	})

	It("should start zeroed", func() {
		Expect(m.Frame(3)).To(Equal(make([]byte, 8)))
	})

	It("should load and read frames", func() {
		m.Load(2, []byte{1, 2, 3, 4, 5, 6, 7, 8})

		Expect(m.Frame(2)).To(Equal([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
		Expect(m.Read(2*8 + 3)).To(Equal(byte(4)))
		Expect(m.Frame(1)).To(Equal(make([]byte, 8)))
	})

	It("should clear the tail on a short load", func() {
		m.Load(0, []byte{9, 9, 9, 9, 9, 9, 9, 9})
		m.Load(0, []byte{1, 2})

		Expect(m.Frame(0)).To(Equal([]byte{1, 2, 0, 0, 0, 0, 0, 0}))
	})

	It("should panic with FrameIndexOutOfRangeError", func() {
		Expect(func() { m.Frame(4) }).To(PanicWith(
			&FrameIndexOutOfRangeError{Frame: 4, NumFrames: 4}))
		Expect(func() { m.Load(9, nil) }).To(Panic())
		Expect(func() { m.Read(32) }).To(Panic())
	})

	It("should refuse data larger than a frame", func() {
		Expect(func() { m.Load(0, make([]byte, 9)) }).To(Panic())
	})
})
