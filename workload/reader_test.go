package workload

import (
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vmsim/mem/vm"
)

var _ = Describe("Reader", func() {
	It("should read one address per line", func() {
		r := NewReader(strings.NewReader("16916\n62493\r\n\n30198\n"))

		var addrs []uint64
		for {
			addr, err := r.Next()
			if err == io.EOF {
				break
			}

			Expect(err).ToNot(HaveOccurred())
			addrs = append(addrs, addr)
		}

		Expect(addrs).To(Equal([]uint64{16916, 62493, 30198}))
		Expect(r.Line()).To(Equal(4))
	})

	It("should report invalid lines and keep going", func() {
		r := NewReader(strings.NewReader("12\n-5\nabc\n2000000\n13"))

		addr, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(addr).To(Equal(uint64(12)))

		for _, line := range []int{2, 3, 4} {
			_, err = r.Next()
			Expect(errors.Is(err, vm.ErrInvalidAddress)).To(BeTrue())
			Expect(err.Error()).To(HavePrefix("line"))
			Expect(r.Line()).To(Equal(line))
		}

		addr, err = r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(addr).To(Equal(uint64(13)))

		_, err = r.Next()
		Expect(err).To(Equal(io.EOF))
	})
})
