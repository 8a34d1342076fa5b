package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Port", func() {
	var (
		comp      *ComponentBase
		requestor *Port
		responder *Port
	)

	BeforeEach(func() {
		comp = NewComponentBase("Comp")
		requestor = NewPort(comp, "Comp.Out", PortKindGeneric, Requestor)
		responder = NewPort(comp, "Comp.In", PortKindGeneric, Responder)
	})

	It("should return its properties", func() {
		Expect(requestor.Name()).To(Equal("Comp.Out"))
		Expect(requestor.AsRemote()).To(Equal(RemotePort("Comp.Out")))
		Expect(requestor.Component()).To(BeIdenticalTo(comp))
		Expect(requestor.Kind()).To(Equal(PortKindGeneric))
		Expect(requestor.Direction()).To(Equal(Requestor))
		Expect(requestor.IsConnected()).To(BeFalse())
	})

	It("should connect both ends", func() {
		Expect(requestor.Connect(responder)).To(Succeed())

		Expect(requestor.Peer()).To(BeIdenticalTo(responder))
		Expect(responder.Peer()).To(BeIdenticalTo(requestor))
		Expect(requestor.IsConnectedTo(responder)).To(BeTrue())
		Expect(responder.IsConnectedTo(requestor)).To(BeTrue())
	})

	It("should refuse to connect a bound port and keep its peer", func() {
		other := NewPort(comp, "Comp.Other", PortKindGeneric, Responder)
		Expect(requestor.Connect(responder)).To(Succeed())

		err := requestor.Connect(other)

		var connErr *AlreadyConnectedError
		Expect(errors.As(err, &connErr)).To(BeTrue())
		Expect(connErr.Port).To(Equal("Comp.Out"))
		Expect(connErr.Peer).To(Equal("Comp.In"))
		Expect(requestor.Peer()).To(BeIdenticalTo(responder))
		Expect(other.IsConnected()).To(BeFalse())
	})

	It("should refuse to connect to a bound peer", func() {
		other := NewPort(comp, "Comp.Other", PortKindGeneric, Requestor)
		Expect(other.Connect(responder)).To(Succeed())

		err := requestor.Connect(responder)

		var connErr *AlreadyConnectedError
		Expect(errors.As(err, &connErr)).To(BeTrue())
		Expect(connErr.Port).To(Equal("Comp.In"))
		Expect(requestor.IsConnected()).To(BeFalse())
	})

	It("should refuse to connect two ports of the same direction", func() {
		other := NewPort(comp, "Comp.Other", PortKindGeneric, Requestor)

		err := requestor.Connect(other)

		var dirErr *DirectionMismatchError
		Expect(errors.As(err, &dirErr)).To(BeTrue())
		Expect(requestor.IsConnected()).To(BeFalse())
		Expect(other.IsConnected()).To(BeFalse())
	})

	It("should panic when connecting to nil", func() {
		Expect(func() { _ = requestor.Connect(nil) }).To(Panic())
	})

	It("should describe kinds", func() {
		Expect(PortKindInstFetch.String()).To(Equal("instruction-fetch"))
		Expect(PortKindDataAccess.String()).To(Equal("data-access"))
	})
})
