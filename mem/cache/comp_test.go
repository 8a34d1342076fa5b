package cache

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsys/noc/bus"
	"github.com/sarchlab/memsys/sim"
)

var _ = Describe("Comp", func() {
	var (
		cpuOwner  portOwner
		fetchPort *sim.Port
		dataPort  *sim.Port
		membus    *bus.Bus
	)

	BeforeEach(func() {
		cpuOwner = portOwner{name: "CPU"}
		fetchPort = sim.NewPort(cpuOwner, "CPU.ICachePort",
			sim.PortKindInstFetch, sim.Requestor)
		dataPort = sim.NewPort(cpuOwner, "CPU.DCachePort",
			sim.PortKindDataAccess, sim.Requestor)
		membus = bus.MakeBuilder().Build("MemBus")
	})

	Context("connecting to the CPU", func() {
		It("should bind each L1 to the port of its kind", func() {
			icache, _ := MakeBuilder().WithRole(RoleInstruction).Build("ICache")
			dcache, _ := MakeBuilder().WithRole(RoleData).Build("DCache")

			Expect(icache.ConnectToCPU(fetchPort)).To(Succeed())
			Expect(dcache.ConnectToCPU(dataPort)).To(Succeed())

			Expect(icache.CPUSidePort().IsConnectedTo(fetchPort)).To(BeTrue())
			Expect(dcache.CPUSidePort().IsConnectedTo(dataPort)).To(BeTrue())
		})

		DescribeTable("role mismatch leaves the port unbound",
			func(role Role, portName string, kind sim.PortKind) {
				c, err := MakeBuilder().WithRole(role).Build("Cache")
				Expect(err).NotTo(HaveOccurred())
				p := sim.NewPort(cpuOwner, portName, kind, sim.Requestor)

				err = c.ConnectToCPU(p)

				var mismatch *RoleMismatchError
				Expect(errors.As(err, &mismatch)).To(BeTrue())
				Expect(mismatch.Role).To(Equal(role))
				Expect(mismatch.Actual).To(Equal(kind))
				Expect(c.CPUSidePort().IsConnected()).To(BeFalse())
				Expect(p.IsConnected()).To(BeFalse())
			},
			Entry("instruction on data port",
				RoleInstruction, "CPU.Data", sim.PortKindDataAccess),
			Entry("data on fetch port",
				RoleData, "CPU.Fetch", sim.PortKindInstFetch),
			Entry("L2 on fetch port",
				RoleUnifiedL2, "CPU.Fetch", sim.PortKindInstFetch),
			Entry("L2 on data port",
				RoleUnifiedL2, "CPU.Data", sim.PortKindDataAccess),
		)

		It("should not support the base role", func() {
			c, _ := MakeBuilder().WithSize(4096).Build("Cache")

			err := c.ConnectToCPU(fetchPort)

			var unsupported *UnsupportedOperationError
			Expect(errors.As(err, &unsupported)).To(BeTrue())
			Expect(unsupported.Operation).To(Equal("ConnectToCPU"))
			Expect(fetchPort.IsConnected()).To(BeFalse())
		})

		It("should not bind a CPU port twice", func() {
			icache, _ := MakeBuilder().WithRole(RoleInstruction).Build("ICache")
			other, _ := MakeBuilder().WithRole(RoleInstruction).Build("Other")
			Expect(icache.ConnectToCPU(fetchPort)).To(Succeed())

			err := other.ConnectToCPU(fetchPort)

			var connErr *sim.AlreadyConnectedError
			Expect(errors.As(err, &connErr)).To(BeTrue())
			Expect(fetchPort.Peer()).To(BeIdenticalTo(icache.CPUSidePort()))
		})
	})

	Context("connecting to the bus", func() {
		It("should attach the mem-side port to a cpu-side slot", func() {
			dcache, _ := MakeBuilder().WithRole(RoleData).Build("DCache")

			Expect(dcache.ConnectToBus(membus)).To(Succeed())

			Expect(membus.IsAttached(dcache.MemSidePort(), bus.CPUSide)).
				To(BeTrue())
		})

		It("should fail the second time and keep the peer", func() {
			dcache, _ := MakeBuilder().WithRole(RoleData).Build("DCache")
			Expect(dcache.ConnectToBus(membus)).To(Succeed())
			peer := dcache.MemSidePort().Peer()
			other := bus.MakeBuilder().Build("OtherBus")

			err := dcache.ConnectToBus(other)

			var connErr *sim.AlreadyConnectedError
			Expect(errors.As(err, &connErr)).To(BeTrue())
			Expect(dcache.MemSidePort().Peer()).To(BeIdenticalTo(peer))
			Expect(other.Attachments()).To(BeEmpty())
		})
	})

	Context("L2", func() {
		It("should sit between the L2 bus and the memory bus", func() {
			l2bus := bus.MakeL2Builder().Build("L2Bus")
			l2, _ := MakeBuilder().WithRole(RoleUnifiedL2).Build("L2")

			Expect(l2.ConnectCPUSideBus(l2bus)).To(Succeed())
			Expect(l2.ConnectToBus(membus)).To(Succeed())

			Expect(l2bus.IsAttached(l2.CPUSidePort(), bus.MemSide)).To(BeTrue())
			Expect(membus.IsAttached(l2.MemSidePort(), bus.CPUSide)).To(BeTrue())
			Expect(l2.CPUSidePort().Peer().Kind()).
				To(Equal(RoleUnifiedL2.CPUPortKind()))
		})

		It("should only let L2 caches face a bus on the cpu side", func() {
			l2bus := bus.MakeL2Builder().Build("L2Bus")
			dcache, _ := MakeBuilder().WithRole(RoleData).Build("DCache")

			err := dcache.ConnectCPUSideBus(l2bus)

			var unsupported *UnsupportedOperationError
			Expect(errors.As(err, &unsupported)).To(BeTrue())
		})
	})

	It("should name roles", func() {
		Expect(RoleBase.String()).To(Equal("base"))
		Expect(RoleInstruction.SizeOption()).To(Equal("l1i_size"))
		Expect(RoleData.DefaultSize()).To(Equal(uint64(256 * 1024)))
	})
})
