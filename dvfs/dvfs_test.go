package dvfs

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/memsys/sim"
)

type fakeTarget struct {
	clk    *sim.ClockDomain
	cpuClk *sim.ClockDomain
	cpuVD  *sim.VoltageDomain
}

func (t *fakeTarget) Name() string                         { return "Fake" }
func (t *fakeTarget) ClockDomain() *sim.ClockDomain        { return t.clk }
func (t *fakeTarget) CPUClockDomain() *sim.ClockDomain     { return t.cpuClk }
func (t *fakeTarget) CPUVoltageDomain() *sim.VoltageDomain { return t.cpuVD }

func completeTarget() *fakeTarget {
	return &fakeTarget{
		clk: sim.NewClockDomain("Fake.ClkDomain", 1*sim.GHz,
			sim.NewVoltageDomain("Fake.ClkDomain.VoltageDomain", 1*sim.Volt)),
		cpuClk: sim.NewClockDomain("Fake.CPUClkDomain", 1*sim.GHz,
			sim.NewVoltageDomain("Fake.CPUClkDomain.VoltageDomain", 1*sim.Volt)),
		cpuVD: sim.NewVoltageDomain("Fake.CPUVoltageDomain", 1*sim.Volt),
	}
}

type snapshot struct {
	cpuClock, clock        sim.Freq
	cpuVoltage, cpuClkVolt sim.Voltage
}

func snapshotOf(t *fakeTarget) snapshot {
	s := snapshot{}
	if t.cpuClk != nil {
		s.cpuClock = t.cpuClk.Clock()
		if t.cpuClk.VoltageDomain() != nil {
			s.cpuClkVolt = t.cpuClk.VoltageDomain().Voltage()
		}
	}
	if t.clk != nil {
		s.clock = t.clk.Clock()
	}
	if t.cpuVD != nil {
		s.cpuVoltage = t.cpuVD.Voltage()
	}

	return s
}

var _ = Describe("Controller", func() {
	var (
		target *fakeTarget
		ctrl   *Controller[*fakeTarget]
	)

	BeforeEach(func() {
		target = completeTarget()
		ctrl = NewController(target)
	})

	It("should start configured when the target has domains", func() {
		Expect(ctrl.State()).To(Equal(Configured))
	})

	It("should update all four fields", func() {
		returned, err := ctrl.Apply(4*sim.GHz, 1.2*sim.Volt)

		Expect(err).NotTo(HaveOccurred())
		Expect(returned).To(BeIdenticalTo(target))
		Expect(snapshotOf(target)).To(Equal(snapshot{
			cpuClock:   4 * sim.GHz,
			clock:      4 * sim.GHz,
			cpuVoltage: 1.2 * sim.Volt,
			cpuClkVolt: 1.2 * sim.Volt,
		}))
		Expect(ctrl.State()).To(Equal(Gated))
	})

	It("should be idempotent", func() {
		_, err := ctrl.ApplyText("4.0GHz", "1.0V")
		Expect(err).NotTo(HaveOccurred())
		once := snapshotOf(target)

		_, err = ctrl.ApplyText("4.0GHz", "1.0V")
		Expect(err).NotTo(HaveOccurred())

		Expect(snapshotOf(target)).To(Equal(once))
		Expect(ctrl.State()).To(Equal(Gated))
	})

	It("should allow a new point after gating", func() {
		_, _ = ctrl.Apply(4*sim.GHz, 1*sim.Volt)
		_, err := ctrl.Apply(2*sim.GHz, 0.8*sim.Volt)

		Expect(err).NotTo(HaveOccurred())
		Expect(target.cpuClk.Clock()).To(Equal(2 * sim.GHz))
		Expect(ctrl.History()).To(HaveLen(2))
		Expect(ctrl.History()[1].String()).To(Equal("2.0GHz@800.0mV"))
	})

	It("should fail in the idle state without changes", func() {
		idle := NewController(&fakeTarget{})
		Expect(idle.State()).To(Equal(Idle))

		_, err := idle.Apply(4*sim.GHz, 1*sim.Volt)

		var notInit *DomainNotInitializedError
		Expect(errors.As(err, &notInit)).To(BeTrue())
		Expect(notInit.Target).To(Equal("Fake"))
		Expect(idle.State()).To(Equal(Idle))
		Expect(idle.History()).To(BeEmpty())
	})

	DescribeTable("partial targets are left untouched",
		func(strip func(t *fakeTarget), missing string) {
			strip(target)
			before := snapshotOf(target)

			_, err := ctrl.Apply(4*sim.GHz, 1.1*sim.Volt)

			var partial *PartialGateApplicationError
			Expect(errors.As(err, &partial)).To(BeTrue())
			Expect(partial.Missing).To(ContainElement(missing))
			Expect(snapshotOf(target)).To(Equal(before))
			Expect(ctrl.State()).To(Equal(Configured))
		},
		Entry("no CPU clock domain",
			func(t *fakeTarget) { t.cpuClk = nil }, "cpu clock domain"),
		Entry("no clock domain",
			func(t *fakeTarget) { t.clk = nil }, "clock domain"),
		Entry("no CPU voltage domain",
			func(t *fakeTarget) { t.cpuVD = nil }, "cpu voltage domain"),
		Entry("no voltage domain behind the CPU clock",
			func(t *fakeTarget) { t.cpuClk.SetVoltageDomain(nil) },
			"cpu clock domain voltage domain"),
	)

	It("should reject non-positive points", func() {
		_, err := ctrl.Apply(0, 1*sim.Volt)

		var invalid *InvalidOperatingPointError
		Expect(errors.As(err, &invalid)).To(BeTrue())
		Expect(target.cpuClk.Clock()).To(Equal(1 * sim.GHz))
	})

	It("should report parse errors", func() {
		_, err := ctrl.ApplyText("fast", "1.0V")
		Expect(err).To(HaveOccurred())

		_, err = ctrl.ApplyText("4GHz", "high")
		Expect(err).To(HaveOccurred())
		Expect(ctrl.State()).To(Equal(Configured))
	})

	It("should invoke hooks after a successful transition", func() {
		var points []OperatingPoint
		ctrl.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosOperatingPointApplied))
			Expect(ctx.Domain).To(BeIdenticalTo(ctrl))
			points = append(points, ctx.Item.(OperatingPoint))
		}))

		_, _ = ctrl.Apply(0, 1*sim.Volt)
		_, err := ctrl.Apply(2*sim.GHz, 0.8*sim.Volt)

		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(Equal([]OperatingPoint{
			{Seq: 0, Freq: 2 * sim.GHz, Voltage: 0.8 * sim.Volt},
		}))
		Expect(ctrl.Name()).To(Equal("Fake"))
	})

	Context("with a recorder", func() {
		var (
			mockCtrl *gomock.Controller
			recorder *MockDataRecorder
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			recorder = NewMockDataRecorder(mockCtrl)
			recorder.EXPECT().
				CreateTable(TransitionTableName, transitionEntry{})
			ctrl.AttachRecorder(recorder)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should record successful transitions", func() {
			recorder.EXPECT().InsertData(TransitionTableName, transitionEntry{
				Target:  "Fake",
				Seq:     0,
				Freq:    4e9,
				Voltage: 1,
			})

			_, err := ctrl.Apply(4*sim.GHz, 1*sim.Volt)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should not record failed transitions", func() {
			target.clk = nil

			_, err := ctrl.Apply(4*sim.GHz, 1*sim.Volt)
			Expect(err).To(HaveOccurred())
		})
	})
})
