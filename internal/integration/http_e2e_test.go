//go:build integration || !unit

package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "partprice/internal/adapters/http_server"
	"partprice/internal/adapters/search"
	"partprice/internal/app"
	mysqlrepo "partprice/internal/storage/mysql"
)

// ---------- helpers ----------
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// fake search page with two priced snippets
func searchStub() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>
<a class="result__snippet">Shop A: 10,00€</a>
<a class="result__snippet">Shop B: 15,00€</a>
</body></html>`))
	}))
}

// ---------- the test ----------
func TestHTTP_EndToEnd_UploadThenLatest(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=partprice",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "partprice")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	stub := searchStub()
	defer stub.Close()

	repo := mysqlrepo.New(db)
	cmp := app.NewComparisonService(search.New(stub.URL, 2*time.Second))
	disp := app.NewDispatcher(app.NewEnrichmentService(cmp, repo), nil, 10*time.Second)

	srv := server.New(0)
	srv.MountHandlers(&server.Handlers{D: disp, Q: app.NewQueryService(repo)})
	api := httptest.NewServer(srv.Mux())
	defer api.Close()

	// Act: upload, then wait for the background task
	resp, err := http.Post(api.URL+"/v1/parts", "application/json",
		strings.NewReader(`{"manufacturer":"Acme","part_number":"X1"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("POST status: %d", resp.StatusCode)
	}
	disp.Wait()

	// Assert
	res, err := http.Get(api.URL + "/v1/comparisons/latest?manufacturer=Acme&part_number=X1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET status: %d", res.StatusCode)
	}
	var got struct {
		PartNumber  string `json:"part_number"`
		PricesFound []struct {
			Source string  `json:"source"`
			Price  float64 `json:"price"`
		} `json:"prices_found"`
		Difference *float64 `json:"difference"`
	}
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.PartNumber != "X1" || len(got.PricesFound) != 2 || got.PricesFound[0].Price != 10 {
		t.Fatalf("unexpected comparison: %+v", got)
	}
	// upload path carries no internal price, so no difference
	if got.Difference != nil {
		t.Fatalf("difference must be absent, got %v", *got.Difference)
	}

	var parts int
	if err := db.QueryRow("SELECT COUNT(*) FROM parts WHERE part_number = 'X1'").Scan(&parts); err != nil || parts != 1 {
		t.Fatalf("parts rows = %d (%v)", parts, err)
	}
}
