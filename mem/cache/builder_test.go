package cache

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsys/config"
	"github.com/sarchlab/memsys/mem"
)

var _ = Describe("Builder", func() {
	DescribeTable("role defaults",
		func(role Role, size uint64, assoc, latency, mshrs, tgts int) {
			c, err := MakeBuilder().WithRole(role).Build("Cache")

			Expect(err).NotTo(HaveOccurred())
			Expect(c.Role()).To(Equal(role))
			Expect(c.Size()).To(Equal(size))
			Expect(c.Associativity()).To(Equal(assoc))
			Expect(c.TagLatency()).To(Equal(latency))
			Expect(c.DataLatency()).To(Equal(latency))
			Expect(c.ResponseLatency()).To(Equal(latency))
			Expect(c.NumMSHR()).To(Equal(mshrs))
			Expect(c.TargetsPerMSHR()).To(Equal(tgts))
		},
		Entry("instruction", RoleInstruction, 64*mem.KB, 2, 2, 4, 20),
		Entry("data", RoleData, 256*mem.KB, 2, 2, 4, 20),
		Entry("unified L2", RoleUnifiedL2, 1*mem.MB, 8, 20, 20, 12),
	)

	It("should require a size for the base role", func() {
		_, err := MakeBuilder().Build("Cache")

		var specErr *InvalidSpecError
		Expect(errors.As(err, &specErr)).To(BeTrue())
		Expect(specErr.Component).To(Equal("Cache"))
	})

	It("should build a base cache with an explicit size", func() {
		c, err := MakeBuilder().WithSize(32 * mem.KB).Build("Cache")

		Expect(err).NotTo(HaveOccurred())
		Expect(c.NumSets()).To(Equal(256))
	})

	It("should prefer the size option over the role default", func() {
		o := config.DefaultOptions()
		o.L1DSize = "512kB"

		dcache, err := NewL1DCache("DCache", o)
		Expect(err).NotTo(HaveOccurred())
		icache, err := NewL1ICache("ICache", o)
		Expect(err).NotTo(HaveOccurred())

		Expect(dcache.Size()).To(Equal(512 * mem.KB))
		Expect(icache.Size()).To(Equal(64 * mem.KB))
	})

	It("should prefer the size option over WithSize", func() {
		o := config.DefaultOptions()
		o.L2Size = "2MB"

		c, err := MakeBuilder().
			WithRole(RoleUnifiedL2).
			WithSize(512 * mem.KB).
			WithOptions(o).
			Build("L2")

		Expect(err).NotTo(HaveOccurred())
		Expect(c.Size()).To(Equal(2 * mem.MB))
	})

	It("should not read the options after building", func() {
		o := config.DefaultOptions()
		c, err := NewL1ICache("ICache", o)
		Expect(err).NotTo(HaveOccurred())

		o.L1ISize = "16kB"

		Expect(c.Size()).To(Equal(64 * mem.KB))
	})

	DescribeTable("rejecting invalid geometry",
		func(b Builder) {
			_, err := b.Build("Cache")

			var specErr *InvalidSpecError
			Expect(errors.As(err, &specErr)).To(BeTrue())
		},
		Entry("zero ways",
			MakeBuilder().WithRole(RoleData).WithAssociativity(0)),
		Entry("partial set",
			MakeBuilder().WithRole(RoleData).WithSize(100)),
		Entry("zero block size",
			MakeBuilder().WithRole(RoleData).WithBlockSize(0)),
	)

	It("should reject an unparsable size option", func() {
		o := config.DefaultOptions()
		o.L1ISize = "lots"

		_, err := NewL1ICache("ICache", o)

		var specErr *InvalidSpecError
		Expect(errors.As(err, &specErr)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("l1i_size"))
	})
})
