package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hackgods/clinic-calendar/internal/appointment"
	"github.com/hackgods/clinic-calendar/internal/fake"
	"github.com/hackgods/clinic-calendar/internal/reference"
)

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	Days         int
	BookingRatio float64
	EditRatio    float64
	DeleteRatio  float64
	ReadRatio    float64
}

// createdPool tracks ids the simulator booked so edits and deletes have targets.
type createdPool struct {
	mu  sync.Mutex
	ids []string
}

func (p *createdPool) add(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
}

func (p *createdPool) random(rng *rand.Rand) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ids) == 0 {
		return "", false
	}
	return p.ids[rng.Intn(len(p.ids))], true
}

func (p *createdPool) take(rng *rand.Rand) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ids) == 0 {
		return "", false
	}
	i := rng.Intn(len(p.ids))
	id := p.ids[i]
	p.ids[i] = p.ids[len(p.ids)-1]
	p.ids = p.ids[:len(p.ids)-1]
	return id, true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Rejected  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, status int, err error) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case err != nil:
		atomic.AddInt64(&om.Error, 1)
	case status >= 200 && status < 300:
		atomic.AddInt64(&om.Success, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&om.Conflict, 1)
	case status == http.StatusUnprocessableEntity:
		atomic.AddInt64(&om.Rejected, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, p50, p95, max time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	p50 = latencies[len(latencies)*50/100]
	p95 = latencies[len(latencies)*95/100]
	max = latencies[len(latencies)-1]
	return avg, p50, p95, max
}

type Metrics struct {
	Booking OperationMetrics
	Edit    OperationMetrics
	Delete  OperationMetrics
	Read    OperationMetrics
}

type Simulator struct {
	config  SimConfig
	catalog reference.Catalog
	created createdPool
	client  *http.Client
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d booking=%.2f edit=%.2f delete=%.2f read=%.2f",
		cfg.Duration, cfg.Workers, cfg.BookingRatio, cfg.EditRatio, cfg.DeleteRatio, cfg.ReadRatio)

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	catalog, err := sim.fetchCatalog(ctx)
	cancel()
	if err != nil {
		log.Fatalf("load reference data: %v", err)
	}
	if len(catalog.Patients) == 0 || len(catalog.Doctors) == 0 {
		log.Fatal("reference data has no patients or doctors")
	}
	sim.catalog = catalog
	log.Printf("loaded: %d patients, %d doctors", len(catalog.Patients), len(catalog.Doctors))

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		Days:         getInt("SIM_DAYS", 5),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.5),
		EditRatio:    getFloat("SIM_EDIT_RATIO", 0.15),
		DeleteRatio:  getFloat("SIM_DELETE_RATIO", 0.05),
		ReadRatio:    getFloat("SIM_READ_RATIO", 0.3),
	}

	total := cfg.BookingRatio + cfg.EditRatio + cfg.DeleteRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.EditRatio /= total
		cfg.DeleteRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.Days <= 0 {
		return fmt.Errorf("SIM_DAYS must be > 0")
	}
	return nil
}

func (s *Simulator) fetchCatalog(ctx context.Context) (reference.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIBaseURL+"/reference", nil)
	if err != nil {
		return reference.Catalog{}, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return reference.Catalog{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return reference.Catalog{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var c reference.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return reference.Catalog{}, err
	}
	return c, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	seed := time.Now().UnixNano() + int64(workerID)
	rng := rand.New(rand.NewSource(seed))
	gen, err := fake.New(uint64(seed), s.catalog)
	if err != nil {
		log.Printf("worker %d: %v", workerID, err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		r := rng.Float64()
		switch {
		case r < s.config.BookingRatio:
			s.doBooking(ctx, rng, gen)
		case r < s.config.BookingRatio+s.config.EditRatio:
			s.doEdit(ctx, rng, gen)
		case r < s.config.BookingRatio+s.config.EditRatio+s.config.DeleteRatio:
			s.doDelete(ctx, rng)
		default:
			s.doRead(ctx, rng)
		}
	}
}

func (s *Simulator) randomDay(rng *rand.Rand) time.Time {
	return time.Now().AddDate(0, 0, 1+rng.Intn(s.config.Days))
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand, gen *fake.Generator) {
	status, body, latency, err := s.send(ctx, http.MethodPost, "/appointments", gen.Candidate(s.randomDay(rng)))
	if err == nil && status == http.StatusCreated {
		var created struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(body, &created) == nil && created.ID != "" {
			s.created.add(created.ID)
		}
	}
	s.metrics.Booking.Record(latency, status, err)
}

func (s *Simulator) doEdit(ctx context.Context, rng *rand.Rand, gen *fake.Generator) {
	id, ok := s.created.random(rng)
	if !ok {
		return
	}
	status, _, latency, err := s.send(ctx, http.MethodPut, "/appointments/"+id, gen.Candidate(s.randomDay(rng)))
	s.metrics.Edit.Record(latency, status, err)
}

func (s *Simulator) doDelete(ctx context.Context, rng *rand.Rand) {
	id, ok := s.created.take(rng)
	if !ok {
		return
	}
	status, _, latency, err := s.send(ctx, http.MethodDelete, "/appointments/"+id, nil)
	s.metrics.Delete.Record(latency, status, err)
}

func (s *Simulator) doRead(ctx context.Context, rng *rand.Rand) {
	var path string
	switch rng.Intn(3) {
	case 0:
		doctor := s.catalog.Doctors[rng.Intn(len(s.catalog.Doctors))]
		path = "/appointments?doctorId=" + doctor.ID
	case 1:
		path = "/appointments?date=" + s.randomDay(rng).Format(time.DateOnly)
	default:
		day := s.randomDay(rng)
		path = fmt.Sprintf("/calendar/%d/%d", day.Year(), int(day.Month()))
	}
	status, _, latency, err := s.send(ctx, http.MethodGet, path, nil)
	s.metrics.Read.Record(latency, status, err)
}

func (s *Simulator) send(ctx context.Context, method, path string, a any) (int, []byte, time.Duration, error) {
	var body *bytes.Reader
	if a != nil {
		if c, ok := a.(appointment.Appointment); ok {
			a = map[string]any{
				"patientId": c.PatientID,
				"doctorId":  c.DoctorID,
				"date":      c.Date.Format(time.RFC3339),
				"time":      c.Time,
				"duration":  c.Duration,
				"type":      c.Type,
				"notes":     c.Notes,
			}
		}
		data, err := json.Marshal(a)
		if err != nil {
			return 0, nil, 0, err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, body)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return 0, nil, latency, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.Bytes(), latency, nil
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Edit", &s.metrics.Edit)
	printOperationReport("Delete", &s.metrics.Delete)
	printOperationReport("Read", &s.metrics.Read)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	pct := func(n int64) float64 { return float64(n) / float64(total) * 100 }

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	rejected := atomic.LoadInt64(&om.Rejected)
	failed := atomic.LoadInt64(&om.Error)

	avg, p50, p95, max := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, pct(success))
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, pct(conflict))
	}
	if rejected > 0 {
		fmt.Printf("  Rejected: %d (%.1f%%)\n", rejected, pct(rejected))
	}
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, pct(failed))
	}
	fmt.Printf("  Latency: avg=%s p50=%s p95=%s max=%s\n",
		avg.Round(time.Microsecond), p50.Round(time.Microsecond),
		p95.Round(time.Microsecond), max.Round(time.Microsecond))
	fmt.Println()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
