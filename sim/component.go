package sim

import (
	"fmt"
	"os"
)

// A Component is an element of the described system that owns ports.
type Component interface {
	Named

	GetPortByName(name string) *Port
	Ports() []*Port
}

// ComponentBase provides the name and port bookkeeping that components share.
type ComponentBase struct {
	name      string
	ports     map[string]*Port
	portOrder []string
}

// NewComponentBase creates a new ComponentBase
func NewComponentBase(name string) *ComponentBase {
	NameMustBeValid(name)

	return &ComponentBase{
		name:  name,
		ports: make(map[string]*Port),
	}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}

// AddPort registers a port under a short name, such as "CPUSide".
func (c *ComponentBase) AddPort(name string, port *Port) {
	if _, found := c.ports[name]; found {
		panic("port " + name + " already exists on " + c.name)
	}

	c.ports[name] = port
	c.portOrder = append(c.portOrder, name)
}

// GetPortByName returns the port by the short name of the port.
func (c *ComponentBase) GetPortByName(name string) *Port {
	port, found := c.ports[name]
	if !found {
		errMsg := fmt.Sprintf(
			"Port %s is not available on component %s.\n", name, c.name)
		errMsg += "Available ports include:\n"
		for _, n := range c.portOrder {
			errMsg += fmt.Sprintf("\t%s\n", n)
		}
		fmt.Fprint(os.Stderr, errMsg)

		panic("port not found")
	}

	return port
}

// Ports returns all the ports in the order they were added.
func (c *ComponentBase) Ports() []*Port {
	list := make([]*Port, 0, len(c.portOrder))
	for _, n := range c.portOrder {
		list = append(list, c.ports[n])
	}

	return list
}
