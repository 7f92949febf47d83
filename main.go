package main

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/browser"
	_ "modernc.org/sqlite"

	"github.com/atlasgroupe/siteserv/appconfig"
	"github.com/atlasgroupe/siteserv/assets"
	"github.com/atlasgroupe/siteserv/contact"
	"github.com/atlasgroupe/siteserv/content"
	"github.com/atlasgroupe/siteserv/gallery"
	"github.com/atlasgroupe/siteserv/i18n"
	"github.com/atlasgroupe/siteserv/imgopt"
	"github.com/atlasgroupe/siteserv/renderer"
)

// -----------------------------------------------------------------------------
// Embed static assets under static/; ** must recurse all sub-paths.
// -----------------------------------------------------------------------------

//go:embed static/**
var embeddedStatic embed.FS

// staticFS is the embedded filesystem rooted at static/.
var staticFS fs.FS

// -----------------------------------------------------------------------------
// http server so we can shut it down cleanly.
// -----------------------------------------------------------------------------
var srv *http.Server

// Keep a copy of the currently loaded config in memory
var currentConfig appconfig.Config

// -----------------------------------------------------------------------------
// Dependencies struct to hold shared dependencies
// -----------------------------------------------------------------------------
type Dependencies struct {
	DB         *sql.DB
	Store      *content.Store
	Optimizer  *imgopt.Optimizer
	Thumbs     *assets.Thumbnailer
	Dispatcher *contact.Dispatcher
}

func init() {
	var err error
	staticFS, err = fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic("siteserv: fs.Sub failed: " + err.Error())
	}
}

// -----------------------------------------------------------------------------
// Database initialization
// -----------------------------------------------------------------------------

func initDB() (*sql.DB, error) {
	// Load config (creates default config if doesn't exist)
	cfg, _, err := appconfig.Load()
	if err != nil {
		return nil, err
	}
	currentConfig = cfg
	dbPath := cfg.DBPath
	log.Printf("Using database path from config: %s", dbPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	// Initialize schema if tables don't exist
	if err := content.InitializeSchema(db); err != nil {
		log.Printf("warning: failed to initialize database schema: %v", err)
	}

	// Best-effort: ensure helpful indexes exist
	if err := content.EnsureIndexes(db); err != nil {
		log.Printf("warning: failed to ensure indexes: %v", err)
	}

	log.Printf("Connected to SQLite database at: %s", dbPath)
	return db, nil
}

// -----------------------------------------------------------------------------
// Page data shared by every template
// -----------------------------------------------------------------------------

type alternate struct{ Lang string }

type page struct {
	Lang        string
	Dir         string
	T           i18n.Translations
	Title       string
	Description string
	BaseURL     string
	Path        string
	OGImage     string
	Alternates  []alternate
	Year        int
}

// newPage resolves the request language and fills the fields every
// template needs. An explicit ?lang= choice is persisted in a cookie.
func newPage(w http.ResponseWriter, r *http.Request, title, description string) page {
	lang := i18n.FromRequest(r)
	if code := r.URL.Query().Get("lang"); i18n.Valid(code) {
		http.SetCookie(w, &http.Cookie{
			Name:   i18n.CookieName,
			Value:  code,
			Path:   "/",
			MaxAge: 365 * 24 * 3600,
		})
	}
	t := lang.T()
	if title == "" {
		title = t.SiteTitle
	} else {
		title = title + " | " + t.SiteTitle
	}
	if description == "" {
		description = t.SiteDescription
	}
	alts := make([]alternate, 0, len(i18n.Supported))
	for _, l := range i18n.Supported {
		alts = append(alts, alternate{Lang: string(l)})
	}
	return page{
		Lang:        string(lang),
		Dir:         lang.Dir(),
		T:           t,
		Title:       title,
		Description: description,
		BaseURL:     currentConfig.BaseURL,
		Path:        r.URL.Path,
		Alternates:  alts,
		Year:        time.Now().Year(),
	}
}

func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.Templates().ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// -----------------------------------------------------------------------------
// Page handlers
// -----------------------------------------------------------------------------

type homePage struct {
	page
	Projects []content.Project
}

func homeHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		projects, err := deps.Store.ListProjects(r.Context())
		if err != nil {
			log.Printf("listing projects for home: %v", err)
		}
		if len(projects) > 3 {
			projects = projects[:3]
		}
		data := homePage{page: newPage(w, r, "", ""), Projects: projects}
		render(w, "home", data)
	}
}

type galleryPage struct {
	page
	GalleryTitle string
	Items        []gallery.DisplayItem
	HasMore      bool
	GalleryState map[string]any
}

func galleryOptions() gallery.Options {
	return gallery.Options{
		PageSize:    currentConfig.GalleryPageSize,
		RevealDelay: time.Duration(currentConfig.RevealDelayMs) * time.Millisecond,
	}
}

func galleryHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")

		// One fetch covers both the title and the media list.
		g := gallery.New(deps.Store, key, galleryOptions())
		title := ""
		if doc, err := deps.Store.GetGallery(r.Context(), key); err != nil {
			log.Printf("loading gallery %q: %v", key, err)
		} else {
			title = doc.Title.Pick(string(i18n.FromRequest(r)))
			g.LoadItems(doc.Media)
		}

		p := newPage(w, r, title, "")
		if title == "" {
			title = p.T.GalleryTitle
		}
		data := galleryPage{
			page:         p,
			GalleryTitle: title,
			Items:        g.Visible(),
			HasMore:      g.HasMore(),
			GalleryState: map[string]any{
				"collection":    key,
				"pageSize":      currentConfig.GalleryPageSize,
				"revealDelayMs": currentConfig.RevealDelayMs,
			},
		}
		render(w, "gallery", data)
	}
}

// Rendered widths for the interactive gallery: grid tiles and the
// full-screen modal rendition.
const (
	galleryTileWidth  = 400
	galleryModalWidth = 1600
)

// galleryAPIItem is a media item with its URLs already resolved through
// the optimizer: URL at tile width for the grid, FullURL at modal width.
type galleryAPIItem struct {
	gallery.MediaItem
	FullURL string `json:"fullUrl"`
}

type galleryAPIResponse struct {
	Phase gallery.Phase    `json:"phase"`
	Items []galleryAPIItem `json:"items"`
	Count int              `json:"count"`
}

func galleryAPIHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Use GET", http.StatusMethodNotAllowed)
			return
		}
		key := r.PathValue("key")

		g := gallery.New(deps.Store, key, galleryOptions())
		if err := g.Load(r.Context()); err != nil {
			if errors.Is(err, content.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		filtered := g.Filtered()
		items := make([]galleryAPIItem, 0, len(filtered))
		for _, it := range filtered {
			ai := galleryAPIItem{MediaItem: it, FullURL: it.URL}
			if it.Type == gallery.TypeImage {
				ai.URL = deps.Optimizer.Optimize(it.URL, galleryTileWidth, 0)
				ai.FullURL = deps.Optimizer.Optimize(it.URL, galleryModalWidth, 0)
			}
			items = append(items, ai)
		}
		resp := galleryAPIResponse{
			Phase: g.Phase(),
			Items: items,
			Count: len(items),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

type projectsPage struct {
	page
	Projects []content.Project
}

func projectsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := deps.Store.ListProjects(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		p := newPage(w, r, "", "")
		p.Title = p.T.ProjectsTitle + " | " + p.T.SiteTitle
		data := projectsPage{page: p, Projects: projects}
		render(w, "projects", data)
	}
}

type projectPage struct {
	page
	Project *content.Project
}

func projectDetailHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		project, err := deps.Store.GetProject(r.Context(), key)
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		lang := i18n.FromRequest(r)
		p := newPage(w, r, project.Name.Pick(string(lang)), project.Description.Pick(string(lang)))
		p.OGImage = project.CoverURL
		data := projectPage{page: p, Project: project}
		render(w, "project", data)
	}
}

type productsPage struct {
	page
	Products []content.Product
}

func productsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := deps.Store.ListProducts(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		p := newPage(w, r, "", "")
		p.Title = p.T.ProductsTitle + " | " + p.T.SiteTitle
		data := productsPage{page: p, Products: products}
		render(w, "products", data)
	}
}

type productPage struct {
	page
	Product *content.Product
}

func productDetailHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		product, err := deps.Store.GetProduct(r.Context(), key)
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		lang := i18n.FromRequest(r)
		p := newPage(w, r, product.Name.Pick(string(lang)), product.Description.Pick(string(lang)))
		p.OGImage = product.ImageURL
		data := productPage{page: p, Product: product}
		render(w, "product", data)
	}
}

// -----------------------------------------------------------------------------
// Contact form
// -----------------------------------------------------------------------------

type contactPage struct {
	page
	Form      contact.Message
	Result    *contact.Result
	FormError string
}

func contactHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			p := newPage(w, r, "", "")
			p.Title = p.T.ContactTitle + " | " + p.T.SiteTitle
			render(w, "contact", contactPage{page: p})

		case http.MethodPost:
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				contactJSON(deps, w, r)
				return
			}
			contactForm(deps, w, r)

		default:
			http.Error(w, "Use GET or POST", http.StatusMethodNotAllowed)
		}
	}
}

func submitMessage(deps *Dependencies, m contact.Message) contact.Result {
	m = contact.NewMessage(m)
	if err := m.Validate(); err != nil {
		return contact.Result{Success: false, Error: err.Error()}
	}
	if deps.Dispatcher == nil || !deps.Dispatcher.Enqueue(m) {
		return contact.Result{Success: false, Error: "message relay unavailable"}
	}
	return contact.Result{Success: true}
}

func contactJSON(deps *Dependencies, w http.ResponseWriter, r *http.Request) {
	var m contact.Message
	if err := readJSONBody(r, &m); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	result := submitMessage(deps, m)
	w.Header().Set("Content-Type", "application/json")
	if !result.Success {
		w.WriteHeader(http.StatusBadRequest)
	}
	_ = json.NewEncoder(w).Encode(result)
}

func contactForm(deps *Dependencies, w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	m := contact.Message{
		FirstName:   r.PostFormValue("firstName"),
		LastName:    r.PostFormValue("lastName"),
		CompanyName: r.PostFormValue("company"),
		Email:       r.PostFormValue("email"),
		PhoneNumber: r.PostFormValue("phone"),
		Message:     r.PostFormValue("message"),
	}
	result := submitMessage(deps, m)

	p := newPage(w, r, "", "")
	p.Title = p.T.ContactTitle + " | " + p.T.SiteTitle
	data := contactPage{page: p, Result: &result}
	if !result.Success {
		data.Form = m
		data.FormError = p.T.ContactError
		if result.Error != "" {
			data.FormError = result.Error
		}
	}
	render(w, "contact", data)
}

// -----------------------------------------------------------------------------
// Asset delivery
// -----------------------------------------------------------------------------

func assetsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Use GET", http.StatusMethodNotAllowed)
			return
		}
		key := r.PathValue("path")

		width := 0
		if s := r.URL.Query().Get("w"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				width = n
			}
		}

		cacheControl := fmt.Sprintf("public, max-age=%d", currentConfig.Image.CacheSeconds)

		if width > 0 && assets.IsImagePath(key) {
			data, contentType, err := deps.Thumbs.Render(r.Context(), key, width)
			if err != nil {
				if errors.Is(err, assets.ErrNotFound) {
					http.NotFound(w, r)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", contentType)
			w.Header().Set("Cache-Control", cacheControl)
			_, _ = w.Write(data)
			return
		}

		rc, err := deps.Thumbs.Source().Open(r.Context(), key)
		if err != nil {
			if errors.Is(err, assets.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer rc.Close()
		w.Header().Set("Cache-Control", cacheControl)
		if _, err := io.Copy(w, rc); err != nil {
			log.Printf("streaming asset %q: %v", key, err)
		}
	}
}

// -----------------------------------------------------------------------------
// Health
// -----------------------------------------------------------------------------

func healthHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if err := deps.DB.Ping(); err != nil {
			status["status"] = "degraded"
			status["db"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}

func readJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// logMailer is the delivery fallback when no SMTP relay is configured:
// submissions are still archived, delivery is a log line.
type logMailer struct{}

func (logMailer) Send(_ context.Context, m contact.Message) error {
	log.Printf("SMTP not configured; contact message %s from %s <%s> held in archive",
		m.ID, m.FullName(), m.Email)
	return nil
}

// -----------------------------------------------------------------------------
// main
// -----------------------------------------------------------------------------

func main() {
	openBrowser := flag.Bool("open", false, "open the site in the default browser after startup")
	flag.Parse()

	// ––– initialize database –––
	db, err := initDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	store := content.NewStore(db)

	// ––– image optimizer –––
	optimizer := imgopt.New(currentConfig.Image)
	renderer.Optimize = optimizer.Optimize

	// ––– asset source –––
	var source assets.Source
	if currentConfig.S3.Bucket != "" {
		s3src, err := assets.NewS3Source(context.Background(),
			currentConfig.S3.Bucket,
			currentConfig.S3.Region,
			currentConfig.S3.AccessKeyID,
			currentConfig.S3.SecretAccessKey)
		if err != nil {
			log.Fatalf("Failed to initialize S3 asset source: %v", err)
		}
		source = s3src
		log.Printf("Serving assets from S3 bucket %q", currentConfig.S3.Bucket)
	} else {
		if err := os.MkdirAll(currentConfig.AssetsDir, 0755); err != nil {
			log.Fatalf("Failed to create assets directory: %v", err)
		}
		source = assets.NewDiskSource(currentConfig.AssetsDir)
		log.Printf("Serving assets from %s", currentConfig.AssetsDir)
	}
	thumbs := assets.NewThumbnailer(source)

	// ––– contact dispatcher –––
	var mailer contact.Mailer = logMailer{}
	if currentConfig.SMTP.Host != "" {
		mailer = contact.NewSMTPMailer(currentConfig.SMTP)
		log.Printf("Contact relay via %s:%d", currentConfig.SMTP.Host, currentConfig.SMTP.Port)
	} else {
		log.Println("SMTP not configured; contact messages will only be archived")
	}
	dispatcher := contact.NewDispatcher(mailer, store, 0)

	deps := &Dependencies{
		DB:         db,
		Store:      store,
		Optimizer:  optimizer,
		Thumbs:     thumbs,
		Dispatcher: dispatcher,
	}

	// ––– routes –––
	mux := http.NewServeMux()
	mux.HandleFunc("/", renderer.ApplyMiddlewares(homeHandler(deps)))
	mux.HandleFunc("/gallery/{key}", renderer.ApplyMiddlewares(galleryHandler(deps)))
	mux.HandleFunc("/api/gallery/{key}", renderer.ApplyMiddlewares(galleryAPIHandler(deps)))
	mux.HandleFunc("/projects", renderer.ApplyMiddlewares(projectsHandler(deps)))
	mux.HandleFunc("/project/{key}", renderer.ApplyMiddlewares(projectDetailHandler(deps)))
	mux.HandleFunc("/products", renderer.ApplyMiddlewares(productsHandler(deps)))
	mux.HandleFunc("/product/{key}", renderer.ApplyMiddlewares(productDetailHandler(deps)))
	mux.HandleFunc("/contact", renderer.ApplyMiddlewares(contactHandler(deps)))
	mux.HandleFunc("/assets/{path...}", renderer.ApplyMiddlewares(assetsHandler(deps)))
	mux.HandleFunc("/health", healthHandler(deps))

	// Serve embedded static files
	mux.Handle("/static/",
		http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	srv = &http.Server{
		Addr:    currentConfig.ListenAddr,
		Handler: mux,
	}

	// start HTTP server in background
	go func() {
		log.Printf("Listening on %s", currentConfig.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("siteserv: %v", err)
		}
	}()

	if *openBrowser {
		addr := currentConfig.ListenAddr
		if strings.HasPrefix(addr, ":") {
			addr = "localhost" + addr
		}
		_ = browser.OpenURL("http://" + addr + "/")
	}

	// block until interrupted
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down site server...")

	// Stop accepting contact submissions and deliver anything still queued
	log.Println("Shutting down contact dispatcher...")
	dispatcher.Shutdown()

	// Shutdown HTTP server
	log.Println("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server shutdown complete")
	}

	log.Println("Site server shutdown complete")
}
