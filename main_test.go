package main

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/atlasgroupe/siteserv/assets"
	"github.com/atlasgroupe/siteserv/contact"
	"github.com/atlasgroupe/siteserv/content"
	"github.com/atlasgroupe/siteserv/gallery"
	"github.com/atlasgroupe/siteserv/imgopt"
)

func newTestDeps(t *testing.T) *Dependencies {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := content.InitializeSchema(db); err != nil {
		t.Fatalf("initialize schema: %v", err)
	}

	store := content.NewStore(db)
	dispatcher := contact.NewDispatcher(logMailer{}, store, 8)
	t.Cleanup(dispatcher.Shutdown)

	currentConfig.GalleryPageSize = 12
	currentConfig.RevealDelayMs = 0
	currentConfig.Image = imgopt.DefaultConfig()
	currentConfig.BaseURL = "https://test.example.com"

	return &Dependencies{
		DB:         db,
		Store:      store,
		Optimizer:  imgopt.New(currentConfig.Image),
		Thumbs:     assets.NewThumbnailer(assets.NewDiskSource(t.TempDir())),
		Dispatcher: dispatcher,
	}
}

func seedTestGallery(t *testing.T, deps *Dependencies, key string, images, videos int) {
	t.Helper()
	_, err := deps.DB.Exec(`INSERT INTO galleries (key, title_en, title_fr, title_ar, created_at)
		VALUES (?, 'Work', 'Réalisations', 'أعمال', ?)`, key, time.Now().Unix())
	if err != nil {
		t.Fatalf("insert gallery: %v", err)
	}
	pos := 0
	for i := 0; i < images; i++ {
		_, err := deps.DB.Exec(`INSERT INTO gallery_media (gallery_key, position, media_id, url, type)
			VALUES (?, ?, ?, ?, 'image')`, key, pos, "img"+string(rune('a'+i)), "/assets/i.jpg")
		if err != nil {
			t.Fatalf("insert media: %v", err)
		}
		pos++
	}
	for i := 0; i < videos; i++ {
		_, err := deps.DB.Exec(`INSERT INTO gallery_media (gallery_key, position, media_id, url, type)
			VALUES (?, ?, ?, ?, 'video')`, key, pos, "vid"+string(rune('a'+i)), "/assets/v.mp4")
		if err != nil {
			t.Fatalf("insert media: %v", err)
		}
		pos++
	}
}

// newMux registers routes the way main() does, against test dependencies.
func newMux(deps *Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", homeHandler(deps))
	mux.HandleFunc("/gallery/{key}", galleryHandler(deps))
	mux.HandleFunc("/api/gallery/{key}", galleryAPIHandler(deps))
	mux.HandleFunc("/projects", projectsHandler(deps))
	mux.HandleFunc("/project/{key}", projectDetailHandler(deps))
	mux.HandleFunc("/products", productsHandler(deps))
	mux.HandleFunc("/product/{key}", productDetailHandler(deps))
	mux.HandleFunc("/contact", contactHandler(deps))
	mux.HandleFunc("/assets/{path...}", assetsHandler(deps))
	mux.HandleFunc("/health", healthHandler(deps))
	return mux
}

// TestGalleryAPI verifies the JSON media list endpoint
func TestGalleryAPI(t *testing.T) {
	deps := newTestDeps(t)
	seedTestGallery(t, deps, "main", 3, 1)
	mux := newMux(deps)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/gallery/main", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var resp struct {
		Phase string `json:"phase"`
		Items []struct {
			URL     string `json:"url"`
			ID      string `json:"id"`
			Type    string `json:"type"`
			FullURL string `json:"fullUrl"`
		} `json:"items"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Phase != "loaded" {
		t.Errorf("phase = %q; want loaded", resp.Phase)
	}
	if resp.Count != 4 || len(resp.Items) != 4 {
		t.Errorf("count = %d, items = %d; want 4", resp.Count, len(resp.Items))
	}
	if resp.Items[0].Type != string(gallery.TypeImage) {
		t.Errorf("first item type = %q; want image", resp.Items[0].Type)
	}
	// Image URLs come back through the optimizer at both renditions.
	if resp.Items[0].URL != "/assets/i.jpg?w=400" {
		t.Errorf("tile url = %q; want /assets/i.jpg?w=400", resp.Items[0].URL)
	}
	if resp.Items[0].FullURL != "/assets/i.jpg?w=1600" {
		t.Errorf("full url = %q; want /assets/i.jpg?w=1600", resp.Items[0].FullURL)
	}
	// Videos stream as stored.
	last := resp.Items[3]
	if last.Type != string(gallery.TypeVideo) || last.URL != "/assets/v.mp4" {
		t.Errorf("video item = %+v; want raw /assets/v.mp4", last)
	}
}

// TestGalleryAPIRewritesStorageURLs verifies the JSON list carries
// delivery-host URLs for storage-hosted images, not raw origin URLs
func TestGalleryAPIRewritesStorageURLs(t *testing.T) {
	deps := newTestDeps(t)
	_, err := deps.DB.Exec(`INSERT INTO galleries (key, title_en, title_fr, title_ar, created_at)
		VALUES ('main', 'Work', 'Réalisations', 'أعمال', ?)`, time.Now().Unix())
	if err != nil {
		t.Fatalf("insert gallery: %v", err)
	}
	src := "https://firebasestorage.googleapis.com/v0/b/atlasgroupe.appspot.com/o/projects%2Fsite.jpg?alt=media"
	_, err = deps.DB.Exec(`INSERT INTO gallery_media (gallery_key, position, media_id, url, type)
		VALUES ('main', 0, 'm1', ?, 'image')`, src)
	if err != nil {
		t.Fatalf("insert media: %v", err)
	}
	mux := newMux(deps)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/gallery/main", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var resp struct {
		Items []struct {
			URL     string `json:"url"`
			FullURL string `json:"fullUrl"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("items = %d; want 1", len(resp.Items))
	}
	if !strings.Contains(resp.Items[0].URL, "ik.imagekit.io/atlasgroupe/") ||
		!strings.Contains(resp.Items[0].URL, "tr=w-400") {
		t.Errorf("tile url = %q; want delivery host at w-400", resp.Items[0].URL)
	}
	if !strings.Contains(resp.Items[0].FullURL, "tr=w-1600") {
		t.Errorf("full url = %q; want delivery host at w-1600", resp.Items[0].FullURL)
	}
	if strings.Contains(resp.Items[0].URL, "firebasestorage.googleapis.com") {
		t.Errorf("tile url = %q; raw storage origin leaked through", resp.Items[0].URL)
	}
}

// TestGalleryAPIMissing verifies 404 for an unknown collection
func TestGalleryAPIMissing(t *testing.T) {
	deps := newTestDeps(t)
	mux := newMux(deps)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/gallery/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}

// TestGalleryPage verifies the server-rendered first reveal
func TestGalleryPage(t *testing.T) {
	deps := newTestDeps(t)
	seedTestGallery(t, deps, "main", 20, 0)
	mux := newMux(deps)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/gallery/main", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	body := rec.Body.String()
	// First page only: 12 items of 20.
	if got := strings.Count(body, `class="gallery-item"`); got != 12 {
		t.Errorf("rendered items = %d; want 12", got)
	}
	if !strings.Contains(body, `id="gallery-more"`) {
		t.Error("load-more control missing with items remaining")
	}
}

// TestContactJSON verifies the JSON submission path
func TestContactJSON(t *testing.T) {
	deps := newTestDeps(t)
	mux := newMux(deps)

	t.Run("Valid submission", func(t *testing.T) {
		payload := `{"firstName":"Nadia","lastName":"Bennani","email":"nadia@example.com","phoneNumber":"0612345678","message":"Devis"}`
		req := httptest.NewRequest("POST", "/contact", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", rec.Code)
		}
		var result contact.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("decoding result: %v", err)
		}
		if !result.Success {
			t.Errorf("success = false, error = %q", result.Error)
		}
	})

	t.Run("Invalid email rejected", func(t *testing.T) {
		payload := `{"firstName":"Nadia","lastName":"Bennani","email":"not-an-email","phoneNumber":"0612345678","message":"Devis"}`
		req := httptest.NewRequest("POST", "/contact", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d; want 400", rec.Code)
		}
	})
}

// TestContactForm verifies the HTML form submission path
func TestContactForm(t *testing.T) {
	deps := newTestDeps(t)
	mux := newMux(deps)

	form := url.Values{
		"firstName": {"Nadia"},
		"lastName":  {"Bennani"},
		"email":     {"nadia@example.com"},
		"phone":     {"0612345678"},
		"message":   {"Devis pour rénovation"},
	}
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "notice success") {
		t.Error("success notice missing from response")
	}
}

// TestLanguageSelection verifies ?lang= drives direction and cookie
func TestLanguageSelection(t *testing.T) {
	deps := newTestDeps(t)
	mux := newMux(deps)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/?lang=ar", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `dir="rtl"`) {
		t.Error("Arabic page not rendered right-to-left")
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "site_lang" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != "ar" {
		t.Errorf("site_lang cookie = %v; want ar", cookie)
	}
}

// TestProjectNotFound verifies 404 for unknown documents
func TestProjectNotFound(t *testing.T) {
	deps := newTestDeps(t)
	mux := newMux(deps)

	for _, path := range []string{"/project/none", "/product/none"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d; want 404", path, rec.Code)
		}
	}
}

// TestHealth verifies the health endpoint
func TestHealth(t *testing.T) {
	deps := newTestDeps(t)
	mux := newMux(deps)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var status map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if status["status"] != "ok" {
		t.Errorf("status = %q; want ok", status["status"])
	}
}
