package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Voltage", func() {
	It("should parse volts", func() {
		v, err := ParseVoltage("1.0V")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(1 * Volt))
	})

	It("should parse millivolts", func() {
		v, err := ParseVoltage("850mV")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 0.85, 1e-9))
	})

	It("should reject a missing unit", func() {
		_, err := ParseVoltage("1.0")
		Expect(err).To(HaveOccurred())
	})

	It("should reject a zero voltage", func() {
		_, err := ParseVoltage("0V")
		Expect(err).To(HaveOccurred())
	})

	It("should format", func() {
		Expect((1 * Volt).String()).To(Equal("1.0V"))
		Expect(MustParseVoltage("1.25V").String()).To(Equal("1.25V"))
		Expect((800 * MilliVolt).String()).To(Equal("800.0mV"))
	})
})
