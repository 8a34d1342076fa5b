package cpu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsys/sim"
)

var _ = Describe("CPU", func() {
	var c *Comp

	BeforeEach(func() {
		c = MakeBuilder().Build("System.CPU")
	})

	It("should expose typed cache ports", func() {
		Expect(c.Model()).To(Equal(TimingSimpleCPU))
		Expect(c.ICachePort().Kind()).To(Equal(sim.PortKindInstFetch))
		Expect(c.ICachePort().Direction()).To(Equal(sim.Requestor))
		Expect(c.DCachePort().Kind()).To(Equal(sim.PortKindDataAccess))
		Expect(c.GetPortByName("ICachePort")).To(BeIdenticalTo(c.ICachePort()))
	})

	It("should create interrupt controllers", func() {
		intr := c.CreateInterruptController()

		Expect(intr.Name()).To(Equal("System.CPU.Interrupts[0]"))
		Expect(intr.PIO().Direction()).To(Equal(sim.Responder))
		Expect(intr.IntRequestor().Direction()).To(Equal(sim.Requestor))
		Expect(intr.IntResponder().Direction()).To(Equal(sim.Responder))
		Expect(c.Interrupts()).To(HaveLen(1))
		Expect(c.Ports()).To(HaveLen(5))
	})

	It("should bind a workload and create threads", func() {
		c.SetWorkload(Process{Cmd: []string{"tests/hello"}})
		c.CreateThreads()

		Expect(c.Workload().Cmd).To(Equal([]string{"tests/hello"}))
		Expect(c.NumThreads()).To(Equal(1))
	})

	It("should panic when creating threads without a workload", func() {
		Expect(func() { c.CreateThreads() }).To(Panic())
	})

	It("should parse models", func() {
		m, err := ParseModel("O3CPU")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(O3CPU))

		_, err = ParseModel("Pentium")
		Expect(err).To(HaveOccurred())
	})

	It("should parse every listed model", func() {
		for _, m := range Models() {
			parsed, err := ParseModel(string(m))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(m))
		}
	})
})
