// Package monitoring serves a read-only HTTP view of an assembled memory
// system.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/sarchlab/memsys/dvfs"
	"github.com/sarchlab/memsys/monitoring/web"
	"github.com/sarchlab/memsys/sim"
	"github.com/sarchlab/memsys/system"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// DVFSStatus is the part of a DVFS controller that the monitor reports.
type DVFSStatus interface {
	State() dvfs.State
	History() []dvfs.OperatingPoint
}

// Monitor turns an assembled system into a server that allows external
// inspection.
type Monitor struct {
	lock       sync.Mutex
	system     *system.System
	components []sim.Component
	dvfs       DVFSStatus
	portNumber int

	profileDuration time.Duration

	listener net.Listener
	server   *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor. Port numbers not larger
// than 1000 select a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber <= 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is reserved, using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterSystem registers the system and all of its components.
func (m *Monitor) RegisterSystem(s *system.System) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.system = s
	m.components = s.Components()
}

// RegisterDVFS registers the controller whose state is reported.
func (m *Monitor) RegisterDVFS(d DVFSStatus) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.dvfs = d
}

// Handler returns the router that serves the monitoring API and the web page.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/description", m.description)
	r.HandleFunc("/api/connections", m.listConnections)
	r.HandleFunc("/api/validate", m.validate)
	r.HandleFunc("/api/dvfs", m.dvfsStatus)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving in the background and returns the URL it
// listens on.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", actualPort, err)
	}

	m.listener = listener
	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring memory system with %s\n", url)

	go func() {
		err := m.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			log.Panic(err)
		}
	}()

	return url, nil
}

// Close stops the server.
func (m *Monitor) Close() error {
	if m.server == nil {
		return nil
	}

	return m.server.Close()
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	req := fieldReq{}
	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, "malformed field request", http.StatusBadRequest)
		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) description(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.systemOr404(w) {
		return
	}

	writeJSON(w, m.system.Describe())
}

func (m *Monitor) listConnections(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.systemOr404(w) {
		return
	}

	writeJSON(w, m.system.Links())
}

type validateRsp struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func (m *Monitor) validate(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.systemOr404(w) {
		return
	}

	rsp := validateRsp{Valid: true}
	if err := m.system.Validate(); err != nil {
		rsp.Valid = false
		rsp.Error = err.Error()
	}

	writeJSON(w, rsp)
}

type operatingPointRsp struct {
	Seq     int    `json:"seq"`
	Freq    string `json:"freq"`
	Voltage string `json:"voltage"`
}

type dvfsRsp struct {
	State   string              `json:"state"`
	History []operatingPointRsp `json:"history"`
}

func (m *Monitor) dvfsStatus(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.dvfs == nil {
		http.Error(w, "DVFS controller not registered", http.StatusNotFound)
		return
	}

	rsp := dvfsRsp{
		State:   m.dvfs.State().String(),
		History: []operatingPointRsp{},
	}

	for _, p := range m.dvfs.History() {
		rsp.History = append(rsp.History, operatingPointRsp{
			Seq:     p.Seq,
			Freq:    p.Freq.String(),
			Voltage: p.Voltage.String(),
		})
	}

	writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func (m *Monitor) systemOr404(w http.ResponseWriter) bool {
	if m.system == nil {
		http.Error(w, "System not registered", http.StatusNotFound)
		return false
	}

	return true
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) sim.Component {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	http.Error(w, "Component not found", http.StatusNotFound)

	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
