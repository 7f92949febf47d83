// seed.go populates a site database with sample content for local
// development: a main gallery, a handful of projects, and the product
// catalog skeleton.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/atlasgroupe/siteserv/appconfig"
	"github.com/atlasgroupe/siteserv/content"
)

func main() {
	var (
		dbPath string
		wipe   bool
	)

	flag.StringVar(&dbPath, "db", "", "Path to the site SQLite DB (default: config dbPath)")
	flag.BoolVar(&wipe, "wipe", false, "Delete existing content rows before seeding")
	flag.Parse()

	if dbPath == "" {
		dbPath = appconfig.DefaultDBPath()
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=foreign_keys=ON", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if err := content.InitializeSchema(db); err != nil {
		log.Fatalf("initialize schema: %v", err)
	}

	if wipe {
		for _, table := range []string{"gallery_media", "galleries", "products", "projects"} {
			if _, err := db.Exec("DELETE FROM " + table); err != nil {
				log.Fatalf("wipe %s: %v", table, err)
			}
		}
		log.Println("Existing content rows removed")
	}

	now := time.Now().Unix()

	if err := seedGalleries(db, now); err != nil {
		log.Fatalf("seed galleries: %v", err)
	}
	if err := seedProjects(db, now); err != nil {
		log.Fatalf("seed projects: %v", err)
	}
	if err := seedProducts(db, now); err != nil {
		log.Fatalf("seed products: %v", err)
	}

	fmt.Fprintf(os.Stdout, "Seeded sample content into %s\n", dbPath)
}

func seedGalleries(db *sql.DB, now int64) error {
	galleries := []struct {
		key                       string
		titleEN, titleFR, titleAR string
	}{
		{"main", "Our Work", "Nos réalisations", "أعمالنا"},
		{"riad-zitoune", "Riad Zitoune Renovation", "Rénovation Riad Zitoune", "ترميم رياض الزيتون"},
	}
	for _, g := range galleries {
		_, err := db.Exec(`INSERT OR IGNORE INTO galleries (key, title_en, title_fr, title_ar, created_at)
			VALUES (?, ?, ?, ?, ?)`, g.key, g.titleEN, g.titleFR, g.titleAR, now)
		if err != nil {
			return err
		}
	}

	media := []struct {
		galleryKey string
		position   int
		id, url    string
		typ        string
	}{
		{"main", 0, "site-facade", "/assets/gallery/facade.jpg", "image"},
		{"main", 1, "site-interior", "/assets/gallery/interior.jpg", "image"},
		{"main", 2, "site-walkthrough", "/assets/gallery/walkthrough.mp4", "video"},
		{"main", 3, "site-roofwork", "/assets/gallery/roofwork.jpg", "image"},
		{"riad-zitoune", 0, "riad-patio", "/assets/gallery/riad-patio.jpg", "image"},
		{"riad-zitoune", 1, "riad-zellige", "/assets/gallery/riad-zellige.jpg", "image"},
	}
	for _, m := range media {
		_, err := db.Exec(`INSERT OR IGNORE INTO gallery_media (gallery_key, position, media_id, url, type)
			VALUES (?, ?, ?, ?, ?)`, m.galleryKey, m.position, m.id, m.url, m.typ)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedProjects(db *sql.DB, now int64) error {
	projects := []struct {
		key, location          string
		year                   int
		coverURL, galleryKey   string
		nameEN, nameFR, nameAR string
		descEN, descFR, descAR string
	}{
		{
			key: "riad-zitoune", location: "Marrakech", year: 2023,
			coverURL: "/assets/gallery/riad-patio.jpg", galleryKey: "riad-zitoune",
			nameEN: "Riad Zitoune Renovation", nameFR: "Rénovation Riad Zitoune", nameAR: "ترميم رياض الزيتون",
			descEN: "Full structural renovation of a traditional riad, preserving the original zellige and cedar woodwork.",
			descFR: "Rénovation structurelle complète d'un riad traditionnel, en préservant le zellige et les boiseries de cèdre d'origine.",
			descAR: "ترميم هيكلي كامل لرياض تقليدي مع الحفاظ على الزليج وخشب الأرز الأصلي.",
		},
		{
			key: "atlas-offices", location: "Casablanca", year: 2024,
			coverURL: "/assets/gallery/facade.jpg", galleryKey: "main",
			nameEN: "Atlas Business Center", nameFR: "Centre d'affaires Atlas", nameAR: "مركز أطلس للأعمال",
			descEN: "Design and construction of a six-floor office building with a ventilated stone facade.",
			descFR: "Conception et construction d'un immeuble de bureaux de six étages avec façade en pierre ventilée.",
			descAR: "تصميم وبناء مبنى مكاتب من ستة طوابق بواجهة حجرية مهوّاة.",
		},
	}
	for _, p := range projects {
		_, err := db.Exec(`INSERT OR IGNORE INTO projects
			(key, location, year, cover_url, gallery_key,
			 name_en, name_fr, name_ar, desc_en, desc_fr, desc_ar, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.key, p.location, p.year, p.coverURL, p.galleryKey,
			p.nameEN, p.nameFR, p.nameAR, p.descEN, p.descFR, p.descAR, now)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedProducts(db *sql.DB, now int64) error {
	products := []struct {
		key, category, imageURL string
		nameEN, nameFR, nameAR  string
		descEN, descFR, descAR  string
	}{
		{
			key: "zellige-tiles", category: "finishes", imageURL: "/assets/products/zellige.jpg",
			nameEN: "Handmade Zellige Tiles", nameFR: "Zellige artisanal", nameAR: "زليج يدوي الصنع",
			descEN: "Traditional glazed terracotta tiles, cut and laid by master craftsmen.",
			descFR: "Carreaux de terre cuite émaillée traditionnels, taillés et posés par des maîtres artisans.",
			descAR: "بلاط طيني مزجج تقليدي، يقطعه ويركبه معلمون حرفيون.",
		},
		{
			key: "tadelakt-plaster", category: "finishes", imageURL: "/assets/products/tadelakt.jpg",
			nameEN: "Tadelakt Plaster", nameFR: "Enduit tadelakt", nameAR: "تدلاكت",
			descEN: "Waterproof lime plaster finish for bathrooms and hammams.",
			descFR: "Enduit à la chaux imperméable pour salles de bain et hammams.",
			descAR: "طلاء جيري مقاوم للماء للحمامات التقليدية والعصرية.",
		},
		{
			key: "cedar-joinery", category: "woodwork", imageURL: "/assets/products/cedar.jpg",
			nameEN: "Cedar Joinery", nameFR: "Menuiserie en cèdre", nameAR: "نجارة خشب الأرز",
			descEN: "Doors, ceilings, and moucharabieh screens in Middle Atlas cedar.",
			descFR: "Portes, plafonds et moucharabiehs en cèdre du Moyen Atlas.",
			descAR: "أبواب وأسقف ومشربيات من خشب أرز الأطلس المتوسط.",
		},
	}
	for _, p := range products {
		_, err := db.Exec(`INSERT OR IGNORE INTO products
			(key, category, image_url, name_en, name_fr, name_ar,
			 desc_en, desc_fr, desc_ar, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.key, p.category, p.imageURL, p.nameEN, p.nameFR, p.nameAR,
			p.descEN, p.descFR, p.descAR, now)
		if err != nil {
			return err
		}
	}
	return nil
}
