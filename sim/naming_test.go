package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Naming", func() {
	DescribeTable("valid names",
		func(name string) {
			Expect(func() { NameMustBeValid(name) }).NotTo(Panic())
		},
		Entry("single element", "System"),
		Entry("hierarchy", "System.CPU.ICache"),
		Entry("indexed", "System.MemBus.CPUSidePorts[0]"),
		Entry("multi index", "Grid[1][2].Tile"),
	)

	DescribeTable("invalid names",
		func(name string) {
			Expect(func() { NameMustBeValid(name) }).To(Panic())
		},
		Entry("empty", ""),
		Entry("trailing dot", "System."),
		Entry("empty element", "System..CPU"),
		Entry("lower case", "System.cpu"),
		Entry("underscore", "System.Mem_Ctrl"),
		Entry("dash", "System.Mem-Ctrl"),
		Entry("unmatched bracket", "System.Port[0"),
		Entry("non integer index", "System.Port[a]"),
	)

	It("should build names", func() {
		Expect(BuildName("", "System")).To(Equal("System"))
		Expect(BuildName("System", "CPU")).To(Equal("System.CPU"))
		Expect(BuildNameWithIndex("System.MemBus", "Slot", 2)).
			To(Equal("System.MemBus.Slot[2]"))
	})
})
