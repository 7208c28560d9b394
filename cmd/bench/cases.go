// README: Bench checks against a running API: connectivity, migrations, simulation endpoints, report cache and load.
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
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	dbErr error
	redis *redis.Client

	events string
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

type runResp struct {
	ID        string             `json:"id"`
	InputHash string             `json:"input_hash"`
	Cached    bool               `json:"cached"`
	Report    map[string]float64 `json:"report"`
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		r.db, r.dbErr = pgxpool.New(ctx, r.cfg.DSN)
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}
	if b, err := os.ReadFile(r.cfg.EventsPath); err == nil {
		r.events = string(b)
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
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
	base := r.cfg.BaseURL
	return []TestCase{
		{Name: "Env: Postgres connect", Run: pingDB},
		{Name: "Env: Redis connect", Run: pingRedis},
		{Name: "Migration: apply (optional)", Run: applyMigration},
		{Name: "Migration: tables exist", Run: tablesExist},
		{Name: "API: health", Run: expectStatus(http.MethodGet, base+"/health", nil, http.StatusOK)},
		{Name: "API: reject empty events", Run: expectStatus(http.MethodPost, base+"/api/simulations",
			map[string]string{"events": ""}, http.StatusBadRequest)},
		{Name: "API: reject malformed events", Run: expectStatus(http.MethodPost, base+"/api/simulations",
			map[string]string{"events": "0 Teleport Amaze 1,1 1"}, http.StatusBadRequest)},
		{Name: "API: unknown simulation", Run: expectStatus(http.MethodGet, base+"/api/simulations/00000000-0000-0000-0000-000000000000", nil, http.StatusNotFound)},
		{Name: "API: list simulations", Run: expectStatus(http.MethodGet, base+"/api/simulations?limit=5", nil, http.StatusOK)},
		{Name: "Cache: repeated submission is served from cache", Run: cachedResubmit},
		{Name: "Perf: submit load", Run: submitLoad},
	}
}

func pingDB(ctx context.Context, r *Runner) Result {
	if r.dbErr != nil {
		return Result{Status: statusFail, Note: "connect db: " + r.dbErr.Error()}
	}
	if r.db == nil {
		return Result{Status: statusFail, Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	return Result{Status: statusPass}
}

func pingRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: statusFail, Note: "redis not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	return Result{Status: statusPass}
}

func applyMigration(ctx context.Context, r *Runner) Result {
	if !r.cfg.ApplyMigration {
		return Result{Status: statusSkip, Note: "apply-migration=false"}
	}
	if r.db == nil {
		return Result{Status: statusFail, Note: "db not configured"}
	}
	sql, err := os.ReadFile(r.cfg.MigrationPath)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	for _, stmt := range splitSQL(string(sql)) {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
	}
	return Result{Status: statusPass}
}

func tablesExist(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: statusFail, Note: "db not configured"}
	}
	tables, err := extractTables(r.cfg.MigrationPath)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	for _, t := range tables {
		var exists bool
		err := r.db.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, "public."+t).Scan(&exists)
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		if !exists {
			return Result{Status: statusFail, Note: "missing table " + t}
		}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("tables=%d", len(tables))}
}

func expectStatus(method, url string, body any, want int) func(context.Context, *Runner) Result {
	return func(ctx context.Context, r *Runner) Result {
		start := time.Now()
		code, _, err := r.do(ctx, method, url, body)
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		latency := time.Since(start)
		if code != want {
			return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", code, want)}
		}
		return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("status=%d", code)}
	}
}

func cachedResubmit(ctx context.Context, r *Runner) Result {
	if r.events == "" {
		return Result{Status: statusSkip, Note: "no events file"}
	}
	url := r.cfg.BaseURL + "/api/simulations"
	payload := map[string]string{"name": "bench", "events": r.events}

	var runs [2]runResp
	for i := range runs {
		code, body, err := r.do(ctx, http.MethodPost, url, payload)
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		if code != http.StatusCreated {
			return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", code)}
		}
		if err := json.Unmarshal(body, &runs[i]); err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
	}
	if !runs[1].Cached {
		return Result{Status: statusFail, Note: "second submission not cached"}
	}
	if r.redis != nil {
		n, err := r.redis.Exists(ctx, "ridesim:report:"+runs[1].InputHash).Result()
		if err != nil || n == 0 {
			return Result{Status: statusFail, Note: "report key missing in redis"}
		}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("rides_completed=%.0f", runs[1].Report["rides_completed"])}
}

func submitLoad(ctx context.Context, r *Runner) Result {
	if r.events == "" {
		return Result{Status: statusSkip, Note: "no events file"}
	}
	url := r.cfg.BaseURL + "/api/simulations"
	payload := map[string]string{"name": "load", "events": r.events}
	end := time.Now().Add(r.cfg.Duration)

	var count, errCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				code, _, err := r.do(ctx, http.MethodPost, url, payload)
				if err != nil || code != http.StatusCreated {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
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
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
