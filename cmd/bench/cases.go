// README: Bench test cases; booking lifecycle, seat contention, DB, Redis, and perf checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "SKIP", Note: "dsn not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "dsn not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "SKIP", Note: "dsn not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					if !exists {
						return Result{Status: "FAIL", Note: "missing table: " + t}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "API: server reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				resp, err := r.httpc.Get(r.cfg.BaseURL + "/health")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				_ = resp.Body.Close()
				return Result{Status: "PASS", Latency: time.Since(start), Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			},
		},
		{
			Name: "Booking: full lifecycle request->completed",
			Run:  lifecycleCase,
		},
		{
			Name: "Booking: cancel charges a fee and frees seats",
			Run:  cancelCase,
		},
		{
			Name: "Concurrency: seat contention never overbooks",
			Run:  contentionCase,
		},
		{
			Name: "Redis: route suggestions seeded",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				n, err := r.redis.SCard(ctx, "routes:names").Result()
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if n == 0 {
					return Result{Status: "FAIL", Note: "routes:names empty"}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("names=%d", n)}
			},
		},
		{
			Name: "Perf: route suggest throughput",
			Run:  suggestPerfCase,
		},
	}
}

// mintToken signs a short-lived HMAC token the way the API expects.
func (r *Runner) mintToken(userID, name, role string) string {
	claims := jwt.MapClaims{
		"sub":  userID,
		"name": name,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := tok.SignedString([]byte(r.cfg.JWTSecret))
	return signed
}

func (r *Runner) do(ctx context.Context, method, path, token string, body any) (int, map[string]any, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out, nil
}

func lifecycleCase(ctx context.Context, r *Runner) Result {
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	driver := r.mintToken("bench-driver-"+suffix, "Bench Driver", "driver")
	passenger := r.mintToken("bench-passenger-"+suffix, "Bench Passenger", "passenger")

	start := time.Now()
	code, body, err := r.do(ctx, http.MethodPost, "/api/vehicles", driver, map[string]any{
		"name":                 "Bench Quantum",
		"origin":               "Soweto",
		"destination":          "Sandton",
		"departure_times":      []string{"07:00"},
		"total_seats":          4,
		"price_per_seat_cents": 15000,
	})
	if err != nil || code != http.StatusCreated {
		return Result{Status: "FAIL", Note: fmt.Sprintf("register vehicle: code=%d err=%v", code, err)}
	}
	vehicleID, _ := body["id"].(string)

	code, body, err = r.do(ctx, http.MethodPost, "/api/bookings", passenger, map[string]any{
		"vehicle_id":     vehicleID,
		"departure_time": "07:00",
		"seats":          1,
		"pickup_type":    "rank",
	})
	if err != nil || code != http.StatusCreated {
		return Result{Status: "FAIL", Note: fmt.Sprintf("create booking: code=%d err=%v", code, err)}
	}
	bookingID, _ := body["id"].(string)

	steps := []struct {
		path, token string
		payload     any
		want        int
	}{
		{"/api/bookings/" + bookingID + "/accept", driver, nil, http.StatusOK},
		{"/api/payments", passenger, map[string]any{
			"booking_id":  bookingID,
			"method":      "card",
			"card_number": "4111111111111111",
			"expiry":      "12/39",
			"cvv":         "123",
		}, http.StatusCreated},
		{"/api/bookings/" + bookingID + "/status", driver, map[string]any{"status": "on_way"}, http.StatusOK},
		{"/api/bookings/" + bookingID + "/status", driver, map[string]any{"status": "arriving"}, http.StatusOK},
		{"/api/bookings/" + bookingID + "/status", driver, map[string]any{"status": "arrived"}, http.StatusOK},
		{"/api/bookings/" + bookingID + "/status", driver, map[string]any{"status": "in_progress"}, http.StatusOK},
		{"/api/bookings/" + bookingID + "/status", driver, map[string]any{"status": "completed"}, http.StatusOK},
	}
	for _, s := range steps {
		code, _, err := r.do(ctx, http.MethodPost, s.path, s.token, s.payload)
		if err != nil || code != s.want {
			return Result{Status: "FAIL", Note: fmt.Sprintf("%s: code=%d err=%v", s.path, code, err)}
		}
	}

	if r.db != nil {
		var events int
		if err := r.db.QueryRow(ctx,
			"SELECT COUNT(*) FROM booking_state_events WHERE booking_id=$1", bookingID,
		).Scan(&events); err == nil && events == 0 {
			return Result{Status: "FAIL", Note: "no journal rows for booking"}
		}
	}

	return Result{Status: "PASS", Latency: time.Since(start)}
}

func cancelCase(ctx context.Context, r *Runner) Result {
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	driver := r.mintToken("bench-driver-"+suffix, "Bench Driver", "driver")
	passenger := r.mintToken("bench-passenger-"+suffix, "Bench Passenger", "passenger")

	code, body, err := r.do(ctx, http.MethodPost, "/api/vehicles", driver, map[string]any{
		"name":                 "Bench Cancel",
		"origin":               "Pretoria",
		"destination":          "Midrand",
		"departure_times":      []string{"08:00"},
		"total_seats":          2,
		"price_per_seat_cents": 15000,
	})
	if err != nil || code != http.StatusCreated {
		return Result{Status: "FAIL", Note: fmt.Sprintf("register vehicle: code=%d err=%v", code, err)}
	}
	vehicleID, _ := body["id"].(string)

	code, body, err = r.do(ctx, http.MethodPost, "/api/bookings", passenger, map[string]any{
		"vehicle_id":     vehicleID,
		"departure_time": "08:00",
		"seats":          1,
		"pickup_type":    "rank",
	})
	if err != nil || code != http.StatusCreated {
		return Result{Status: "FAIL", Note: fmt.Sprintf("create booking: code=%d err=%v", code, err)}
	}
	bookingID, _ := body["id"].(string)

	code, body, err = r.do(ctx, http.MethodPost, "/api/bookings/"+bookingID+"/cancel", passenger, nil)
	if err != nil || code != http.StatusOK {
		return Result{Status: "FAIL", Note: fmt.Sprintf("cancel: code=%d err=%v", code, err)}
	}
	fee, ok := body["cancellation_fee_cents"].(float64)
	if !ok || int64(fee) != 1500 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("fee=%v want 1500", body["cancellation_fee_cents"])}
	}

	code, body, err = r.do(ctx, http.MethodGet, "/api/vehicles/"+vehicleID+"/availability?slot=08:00", passenger, nil)
	if err != nil || code != http.StatusOK {
		return Result{Status: "FAIL", Note: fmt.Sprintf("availability: code=%d err=%v", code, err)}
	}
	if avail, ok := body["available_seats"].(float64); !ok || int(avail) != 2 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("available=%v want 2", body["available_seats"])}
	}
	return Result{Status: "PASS"}
}

// contentionCase hammers one slot with more 1-seat requests than capacity
// and asserts exactly capacity of them succeed.
func contentionCase(ctx context.Context, r *Runner) Result {
	const capacity = 4
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	driver := r.mintToken("bench-driver-"+suffix, "Bench Driver", "driver")

	code, body, err := r.do(ctx, http.MethodPost, "/api/vehicles", driver, map[string]any{
		"name":                 "Bench Contention",
		"origin":               "Alexandra",
		"destination":          "Rosebank",
		"departure_times":      []string{"06:30"},
		"total_seats":          capacity,
		"price_per_seat_cents": 15000,
	})
	if err != nil || code != http.StatusCreated {
		return Result{Status: "FAIL", Note: fmt.Sprintf("register vehicle: code=%d err=%v", code, err)}
	}
	vehicleID, _ := body["id"].(string)

	var mu sync.Mutex
	created, rejected, other := 0, 0, 0
	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			passenger := r.mintToken(fmt.Sprintf("bench-p%d-%s", i, suffix), "Bench Passenger", "passenger")
			code, _, err := r.do(ctx, http.MethodPost, "/api/bookings", passenger, map[string]any{
				"vehicle_id":     vehicleID,
				"departure_time": "06:30",
				"seats":          1,
				"pickup_type":    "rank",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && code == http.StatusCreated:
				created++
			case err == nil && code == http.StatusConflict:
				rejected++
			default:
				other++
			}
		}(i)
	}
	wg.Wait()

	if created != capacity || other > 0 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("created=%d rejected=%d other=%d want created=%d", created, rejected, other, capacity)}
	}

	code, body, err = r.do(ctx, http.MethodGet, "/api/vehicles/"+vehicleID+"/availability?slot=06:30", driver, nil)
	if err != nil || code != http.StatusOK {
		return Result{Status: "FAIL", Note: fmt.Sprintf("availability: code=%d err=%v", code, err)}
	}
	if avail, ok := body["available_seats"].(float64); !ok || int(avail) != 0 {
		return Result{Status: "FAIL", Note: fmt.Sprintf("available=%v want 0", body["available_seats"])}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("created=%d rejected=%d", created, rejected)}
}

func suggestPerfCase(ctx context.Context, r *Runner) Result {
	token := r.mintToken("bench-perf", "Bench Perf", "passenger")
	end := time.Now().Add(r.cfg.Duration)
	var mu sync.Mutex
	var count, errCount int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				code, _, err := r.do(ctx, http.MethodGet, "/api/routes/suggest?q=jo", token, nil)
				mu.Lock()
				if err != nil || code != http.StatusOK {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	cleaned := strings.Join(filtered, "\n")
	parts := strings.Split(cleaned, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
