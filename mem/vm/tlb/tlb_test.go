package tlb_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	tlbpkg "github.com/sarchlab/vmsim/mem/vm/tlb"
)

var _ = Describe("TLB", func() {
	var tlb *tlbpkg.TLB

	BeforeEach(func() {
		tlb = tlbpkg.MakeBuilder().WithNumEntries(4).Build("TLB")
	})

	It("should build with the default size", func() {
		t := tlbpkg.MakeBuilder().Build("Default")

		Expect(t.Capacity()).To(Equal(16))
		Expect(t.Len()).To(Equal(0))
		Expect(t.Name()).To(Equal("Default"))
	})

	It("should refuse an empty TLB", func() {
		Expect(func() { tlbpkg.MakeBuilder().WithNumEntries(0).Build("T") }).
			To(Panic())
	})

	It("should miss on an empty TLB", func() {
		_, found := tlb.Lookup(0)

		Expect(found).To(BeFalse())
	})

	It("should hit after insert", func() {
		_, evicted := tlb.Insert(10, 2)

		frame, found := tlb.Lookup(10)
		Expect(evicted).To(BeFalse())
		Expect(found).To(BeTrue())
		Expect(frame).To(Equal(uint64(2)))
	})

	It("should panic when a page is inserted twice", func() {
		tlb.Insert(10, 2)

		Expect(func() { tlb.Insert(10, 3) }).To(Panic())
	})

	Context("when full", func() {
		BeforeEach(func() {
			for p := uint64(0); p < 4; p++ {
				tlb.Insert(p, p+100)
			}
		})

		It("should overwrite the oldest line", func() {
			evicted, wasEvicted := tlb.Insert(4, 104)

			Expect(wasEvicted).To(BeTrue())
			Expect(evicted).To(Equal(tlbpkg.Entry{Page: 0, Frame: 100}))
			_, found := tlb.Lookup(0)
			Expect(found).To(BeFalse())
		})

		It("should not refresh lines on hit", func() {
			tlb.Lookup(0)
			tlb.Lookup(0)

			evicted, _ := tlb.Insert(4, 104)

			Expect(evicted.Page).To(Equal(uint64(0)))
		})

		It("should evict in insertion order", func() {
			for p := uint64(4); p < 8; p++ {
				evicted, _ := tlb.Insert(p, p+100)
				Expect(evicted.Page).To(Equal(p - 4))
			}

			Expect(tlb.Entries()).To(Equal([]tlbpkg.Entry{
				{4, 104}, {5, 105}, {6, 106}, {7, 107},
			}))
		})

		It("should fill an invalidated line before evicting", func() {
			Expect(tlb.InvalidateFrame(102)).To(BeTrue())

			_, wasEvicted := tlb.Insert(9, 102)

			Expect(wasEvicted).To(BeFalse())
			Expect(tlb.Len()).To(Equal(4))
			Expect(tlb.Entries()).To(Equal([]tlbpkg.Entry{
				{0, 100}, {1, 101}, {3, 103}, {9, 102},
			}))
		})

		It("should retarget a line in place", func() {
			Expect(tlb.Retarget(1, 42, 101)).To(BeTrue())

			_, found := tlb.Lookup(1)
			Expect(found).To(BeFalse())
			frame, found := tlb.Lookup(42)
			Expect(found).To(BeTrue())
			Expect(frame).To(Equal(uint64(101)))
			Expect(tlb.Entries()).To(Equal([]tlbpkg.Entry{
				{0, 100}, {2, 102}, {3, 103}, {42, 101},
			}))
		})

		It("should match invalidate plus insert when retargeting", func() {
			other := tlbpkg.MakeBuilder().WithNumEntries(4).Build("Other")
			for p := uint64(0); p < 4; p++ {
				other.Insert(p, p+100)
			}

			tlb.Retarget(1, 42, 101)
			other.InvalidateFrame(101)
			other.Insert(42, 101)

			Expect(tlb.Entries()).To(Equal(other.Entries()))
		})

		It("should not retarget a page that is not cached", func() {
			Expect(tlb.Retarget(77, 42, 101)).To(BeFalse())
		})

		It("should report nothing to invalidate for uncached frames", func() {
			Expect(tlb.InvalidateFrame(7)).To(BeFalse())
			Expect(tlb.Len()).To(Equal(4))
		})

		It("should drop everything on reset", func() {
			tlb.Reset()

			Expect(tlb.Len()).To(Equal(0))
			Expect(tlb.Entries()).To(BeEmpty())
		})
	})
})
