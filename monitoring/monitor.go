// Package monitoring turns a running translation into a small HTTP server so
// that its statistics and internal state can be inspected while it runs.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/addresstranslator"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
	"github.com/sarchlab/vmsim/sim"
	"github.com/sarchlab/vmsim/tracing"
)

// A Translator is a component whose mapping state can be shown by the
// monitor.
type Translator interface {
	sim.Named
	PolicyName() string
	NumFrames() int
	TLBEntries() []tlb.Entry
	PageTableEntries() []vm.PageEntry
}

// A StatsSource provides a thread-safe snapshot of the running statistics.
type StatsSource interface {
	Stats() addresstranslator.Stats
	TopFaultingPages(n int) []tracing.PageCount
}

var (
	_ Translator  = (*addresstranslator.Comp)(nil)
	_ StatsSource = (*tracing.StatsTracer)(nil)
)

// Monitor can turn a translation run into a server and allows external
// monitoring of the run.
type Monitor struct {
	portNumber int

	// lock serializes the run loop against the handlers that read
	// translator state.
	lock        sync.RWMutex
	translators []Translator
	stats       StatsSource

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1024 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterTranslator registers a translator to be monitored.
func (m *Monitor) RegisterTranslator(t Translator) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.translators = append(m.translators, t)
}

// RegisterStats sets where the statistics endpoint reads from.
func (m *Monitor) RegisterStats(s StatsSource) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.stats = s
}

// Guard runs fn while no handler is reading translator state. The run loop
// wraps every translation in Guard when the monitor is enabled.
func (m *Monitor) Guard(fn func()) {
	m.lock.Lock()
	defer m.lock.Unlock()

	fn()
}

// CreateProgressBar creates a new progress bar. A total of 0 means the total
// is not known.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the progress list.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the router that serves the monitoring API.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/stats", m.listStats)
	r.HandleFunc("/api/tlb", m.listTLBs)
	r.HandleFunc("/api/pagetable", m.listPageTables)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server and returns its base URL.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring translation with %s\n", url)

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "monitoring server stopped: %v\n", err)
		}
	}()

	return url, nil
}

// StopServer closes the server started by StartServer.
func (m *Monitor) StopServer() error {
	if m.server == nil {
		return nil
	}

	return m.server.Close()
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	names := make([]string, 0, len(m.translators))
	for _, t := range m.translators {
		names = append(names, t.Name())
	}
	m.lock.RUnlock()

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.lock.RLock()
	defer m.lock.RUnlock()

	component := m.findTranslator(name)
	if component == nil {
		http.Error(w, "Component not found", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	buf := bytes.NewBuffer(nil)
	if err := serializer.Serialize(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

type statsRsp struct {
	addresstranslator.Stats
	FaultRate        float64             `json:"fault_rate"`
	TLBHitRate       float64             `json:"tlb_hit_rate"`
	TopFaultingPages []tracing.PageCount `json:"top_faulting_pages"`
}

func (m *Monitor) listStats(w http.ResponseWriter, r *http.Request) {
	n := 10
	if s := r.URL.Query().Get("top"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			http.Error(w, "invalid top: "+s, http.StatusBadRequest)
			return
		}

		n = v
	}

	m.lock.RLock()
	source := m.stats
	m.lock.RUnlock()

	if source == nil {
		http.Error(w, "no statistics registered", http.StatusNotFound)
		return
	}

	stats := source.Stats()
	writeJSON(w, statsRsp{
		Stats:            stats,
		FaultRate:        stats.FaultRate(),
		TLBHitRate:       stats.TLBHitRate(),
		TopFaultingPages: source.TopFaultingPages(n),
	})
}

type tlbEntryRsp struct {
	Page  uint64 `json:"page"`
	Frame uint64 `json:"frame"`
}

func (m *Monitor) listTLBs(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	rsp := make(map[string][]tlbEntryRsp, len(m.translators))
	for _, t := range m.translators {
		entries := make([]tlbEntryRsp, 0)
		for _, e := range t.TLBEntries() {
			entries = append(entries, tlbEntryRsp{Page: e.Page, Frame: e.Frame})
		}

		rsp[t.Name()] = entries
	}
	m.lock.RUnlock()

	writeJSON(w, rsp)
}

type pageTableRsp struct {
	Policy    string         `json:"policy"`
	NumFrames int            `json:"num_frames"`
	Entries   []pageEntryRsp `json:"entries"`
}

type pageEntryRsp struct {
	Page  uint64 `json:"page"`
	Frame uint64 `json:"frame"`
}

func (m *Monitor) listPageTables(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	rsp := make(map[string]pageTableRsp, len(m.translators))
	for _, t := range m.translators {
		entries := make([]pageEntryRsp, 0)
		for _, e := range t.PageTableEntries() {
			entries = append(entries, pageEntryRsp{Page: e.Page, Frame: e.Frame})
		}

		rsp[t.Name()] = pageTableRsp{
			Policy:    t.PolicyName(),
			NumFrames: t.NumFrames(),
			Entries:   entries,
		}
	}
	m.lock.RUnlock()

	writeJSON(w, rsp)
}

func (m *Monitor) findTranslator(name string) Translator {
	for _, t := range m.translators {
		if t.Name() == name {
			return t
		}
	}

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressBarRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
