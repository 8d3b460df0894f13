package tracing

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/addresstranslator"
	"github.com/sarchlab/vmsim/mem/vm/backingstore"
)

func buildTranslator(numFrames int) *addresstranslator.Comp {
	data := make([]byte, vm.LogicalSpaceSize)
	for i := range data {
		data[i] = byte(i % 256)
	}

	store, err := backingstore.New(
		bytes.NewReader(data), int64(len(data)), vm.NumPages, vm.PageSize)
	Expect(err).ToNot(HaveOccurred())

	return addresstranslator.MakeBuilder().
		WithBackingStore(store).
		WithNumFrames(numFrames).
		Build("MMU")
}

func translatePages(c *addresstranslator.Comp, pages ...uint64) {
	for _, p := range pages {
		_, err := c.Translate(p << vm.OffsetBits)
		Expect(err).ToNot(HaveOccurred())
	}
}

var _ = Describe("CollectTrace", func() {
	It("should refuse to attach the same tracer twice", func() {
		c := buildTranslator(2)
		tracer := NewStatsTracer()

		CollectTrace(c, tracer)

		Expect(func() { CollectTrace(c, tracer) }).To(Panic())
		Expect(c.NumHooks()).To(Equal(1))
	})
})

var _ = Describe("StatsTracer", func() {
	It("should agree with the translator", func() {
		c := buildTranslator(2)
		tracer := NewStatsTracer()
		CollectTrace(c, tracer)

		translatePages(c, 1, 1, 2, 3, 1, 2, 2, 5)

		Expect(tracer.Stats()).To(Equal(c.Stats()))
		Expect(tracer.Stats().Evictions).To(BeNumerically(">", 0))
	})

	It("should rank pages by faults", func() {
		c := buildTranslator(1)
		tracer := NewStatsTracer()
		CollectTrace(c, tracer)

		translatePages(c, 7, 3, 7, 3, 7, 9)

		Expect(tracer.TopFaultingPages(2)).To(Equal([]PageCount{
			{Page: 7, Count: 3},
			{Page: 3, Count: 2},
		}))
		Expect(tracer.TopFaultingPages(10)).To(HaveLen(3))
	})
})

var _ = Describe("LogTracer", func() {
	It("should log translations and reclaims", func() {
		buf := new(bytes.Buffer)
		c := buildTranslator(1)
		CollectTrace(c, NewLogTracer(log.New(buf, "", 0)))

		translatePages(c, 4, 6)

		Expect(buf.String()).To(Equal(
			"translate 4096 -> 0 page 4 frame 0 offset 0 value 0 PageFault\n" +
				"reclaim frame 0 from page 4 for page 6\n" +
				"translate 6144 -> 0 page 6 frame 0 offset 0 value 0 PageFault\n"))
	})
})

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl *gomock.Controller
		backend  *MockDataRecorder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		backend = NewMockDataRecorder(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should create its tables", func() {
		backend.EXPECT().CreateTable("translation", translationEntry{})
		backend.EXPECT().CreateTable("reclaim", reclaimEntry{})

		NewDBTracer(backend, "run")
	})

	It("should store translations and reclaims", func() {
		backend.EXPECT().CreateTable(gomock.Any(), gomock.Any()).Times(2)

		var translations []translationEntry
		var reclaims []reclaimEntry
		backend.EXPECT().InsertData("translation", gomock.Any()).
			Do(func(_ string, e any) {
				translations = append(translations, e.(translationEntry))
			}).Times(3)
		backend.EXPECT().InsertData("reclaim", gomock.Any()).
			Do(func(_ string, e any) {
				reclaims = append(reclaims, e.(reclaimEntry))
			}).Times(1)

		c := buildTranslator(1)
		CollectTrace(c, NewDBTracer(backend, "run"))

		translatePages(c, 2, 2, 8)

		Expect(translations).To(HaveLen(3))
		Expect(translations[1].Outcome).To(Equal("TLBHit"))
		Expect(translations[2].Seq).To(Equal(uint64(2)))
		Expect(translations[2].RunID).To(Equal("run"))
		Expect(reclaims).To(HaveLen(1))
		Expect(reclaims[0].Seq).To(Equal(uint64(2)))
		Expect(reclaims[0].OldPage).To(Equal(uint64(2)))
		Expect(reclaims[0].NewPage).To(Equal(uint64(8)))
	})
})
