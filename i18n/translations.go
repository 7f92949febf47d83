package i18n

// Translations holds every translated UI string for one language.
type Translations struct {
	// Site metadata
	SiteTitle       string
	SiteDescription string

	// Navigation
	NavHome     string
	NavProjects string
	NavProducts string
	NavGallery  string
	NavContact  string

	// Home page
	HeroTitle   string
	HeroTagline string
	HeroCTA     string
	AboutTitle  string
	AboutBody   string

	// Gallery
	GalleryTitle string
	FilterAll    string
	FilterImages string
	FilterVideos string
	LoadMore     string
	GalleryEmpty string
	GalleryError string
	RetryButton  string

	// Projects / products
	ProjectsTitle string
	ProductsTitle string
	ProjectYear   string
	ViewProject   string

	// Contact form
	ContactTitle    string
	FirstNameLabel  string
	LastNameLabel   string
	CompanyLabel    string
	EmailLabel      string
	PhoneLabel      string
	MessageLabel    string
	SendButton      string
	ContactSuccess  string
	ContactError    string
	ContactRequired string

	// Footer
	FooterRights string
}

var translations = map[Lang]Translations{
	FR: {
		SiteTitle:       "Atlas Groupe — Conseil & Construction",
		SiteDescription: "Atlas Groupe accompagne vos projets de construction et d'aménagement, de l'étude à la livraison.",

		NavHome:     "Accueil",
		NavProjects: "Réalisations",
		NavProducts: "Produits",
		NavGallery:  "Galerie",
		NavContact:  "Contact",

		HeroTitle:   "Bâtir avec exigence",
		HeroTagline: "Conseil, études et réalisation de projets de construction depuis plus de vingt ans.",
		HeroCTA:     "Découvrir nos réalisations",
		AboutTitle:  "Notre savoir-faire",
		AboutBody:   "Des études techniques à la livraison, nos équipes pilotent chaque étape de vos projets résidentiels, tertiaires et industriels.",

		GalleryTitle: "Galerie",
		FilterAll:    "Tout",
		FilterImages: "Photos",
		FilterVideos: "Vidéos",
		LoadMore:     "Afficher plus",
		GalleryEmpty: "Aucun média dans cette galerie pour le moment.",
		GalleryError: "Impossible de charger la galerie.",
		RetryButton:  "Réessayer",

		ProjectsTitle: "Nos réalisations",
		ProductsTitle: "Nos produits",
		ProjectYear:   "Année",
		ViewProject:   "Voir le projet",

		ContactTitle:    "Contactez-nous",
		FirstNameLabel:  "Prénom",
		LastNameLabel:   "Nom",
		CompanyLabel:    "Société (optionnel)",
		EmailLabel:      "Email",
		PhoneLabel:      "Téléphone",
		MessageLabel:    "Message",
		SendButton:      "Envoyer",
		ContactSuccess:  "Merci, votre message a bien été envoyé.",
		ContactError:    "L'envoi a échoué. Merci de réessayer.",
		ContactRequired: "Merci de remplir tous les champs obligatoires.",

		FooterRights: "Tous droits réservés.",
	},
	EN: {
		SiteTitle:       "Atlas Groupe — Consulting & Construction",
		SiteDescription: "Atlas Groupe supports your construction and development projects from study to delivery.",

		NavHome:     "Home",
		NavProjects: "Projects",
		NavProducts: "Products",
		NavGallery:  "Gallery",
		NavContact:  "Contact",

		HeroTitle:   "Building with rigor",
		HeroTagline: "Consulting, engineering and delivery of construction projects for over twenty years.",
		HeroCTA:     "See our projects",
		AboutTitle:  "What we do",
		AboutBody:   "From technical studies to handover, our teams manage every stage of your residential, commercial and industrial projects.",

		GalleryTitle: "Gallery",
		FilterAll:    "All",
		FilterImages: "Photos",
		FilterVideos: "Videos",
		LoadMore:     "Load more",
		GalleryEmpty: "No media in this gallery yet.",
		GalleryError: "The gallery could not be loaded.",
		RetryButton:  "Retry",

		ProjectsTitle: "Our projects",
		ProductsTitle: "Our products",
		ProjectYear:   "Year",
		ViewProject:   "View project",

		ContactTitle:    "Get in touch",
		FirstNameLabel:  "First name",
		LastNameLabel:   "Last name",
		CompanyLabel:    "Company (optional)",
		EmailLabel:      "Email",
		PhoneLabel:      "Phone",
		MessageLabel:    "Message",
		SendButton:      "Send",
		ContactSuccess:  "Thank you, your message has been sent.",
		ContactError:    "Sending failed. Please try again.",
		ContactRequired: "Please fill in all required fields.",

		FooterRights: "All rights reserved.",
	},
	AR: {
		SiteTitle:       "مجموعة أطلس — استشارات وبناء",
		SiteDescription: "ترافق مجموعة أطلس مشاريعكم في البناء والتهيئة من الدراسة إلى التسليم.",

		NavHome:     "الرئيسية",
		NavProjects: "إنجازاتنا",
		NavProducts: "منتجاتنا",
		NavGallery:  "المعرض",
		NavContact:  "اتصل بنا",

		HeroTitle:   "نبني بإتقان",
		HeroTagline: "استشارات ودراسات وإنجاز مشاريع البناء منذ أكثر من عشرين سنة.",
		HeroCTA:     "اكتشف إنجازاتنا",
		AboutTitle:  "خبرتنا",
		AboutBody:   "من الدراسات التقنية إلى التسليم، تشرف فرقنا على كل مراحل مشاريعكم السكنية والتجارية والصناعية.",

		GalleryTitle: "المعرض",
		FilterAll:    "الكل",
		FilterImages: "صور",
		FilterVideos: "فيديوهات",
		LoadMore:     "عرض المزيد",
		GalleryEmpty: "لا توجد وسائط في هذا المعرض حاليا.",
		GalleryError: "تعذر تحميل المعرض.",
		RetryButton:  "إعادة المحاولة",

		ProjectsTitle: "إنجازاتنا",
		ProductsTitle: "منتجاتنا",
		ProjectYear:   "السنة",
		ViewProject:   "عرض المشروع",

		ContactTitle:    "اتصل بنا",
		FirstNameLabel:  "الاسم الشخصي",
		LastNameLabel:   "الاسم العائلي",
		CompanyLabel:    "الشركة (اختياري)",
		EmailLabel:      "البريد الإلكتروني",
		PhoneLabel:      "الهاتف",
		MessageLabel:    "الرسالة",
		SendButton:      "إرسال",
		ContactSuccess:  "شكرا، تم إرسال رسالتكم بنجاح.",
		ContactError:    "فشل الإرسال. المرجو إعادة المحاولة.",
		ContactRequired: "المرجو ملء جميع الخانات الإلزامية.",

		FooterRights: "جميع الحقوق محفوظة.",
	},
}
