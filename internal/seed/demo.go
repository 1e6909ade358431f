package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bizsite/internal/licensekey"
	"bizsite/internal/models"
	"bizsite/internal/repository"
	"bizsite/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every demo user.
const DemoPassword = "password123"

// Options sizes the demo data set.
type Options struct {
	Users    int
	Products int
	Services int
	Projects int
	Posts    int
	Contacts int
	Licenses int
	// RandSeed makes the generated content reproducible when non-zero.
	RandSeed int64
}

// DefaultOptions is a small but complete demo site.
var DefaultOptions = Options{Users: 10, Products: 6, Services: 4, Projects: 5, Posts: 12, Contacts: 15, Licenses: 20}

// Seeder generates demo content with gofakeit.
type Seeder struct {
	db   *gorm.DB
	fake *gofakeit.Faker
	keys *licensekey.Generator
	now  time.Time
}

func NewSeeder(db *gorm.DB, randSeed int64) *Seeder {
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	return &Seeder{
		db:   db,
		fake: gofakeit.New(randSeed),
		keys: licensekey.NewGenerator(repository.NewLicenseRepository(db).KeyExists),
		now:  time.Now().UTC(),
	}
}

// ClearDemo removes content, licenses, contacts and every non-admin user.
// Settings, categories and admins survive.
func (s *Seeder) ClearDemo() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []any{&models.Contact{}, &models.License{}, &models.BlogPost{}, &models.Project{}, &models.Service{}, &models.Product{}} {
			if err := all.Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return tx.Where("role <> ?", models.RoleAdmin).Delete(&models.User{}).Error
	})
}

// Result counts the rows a Demo run created.
type Result struct {
	Users    int
	Products int
	Services int
	Projects int
	Posts    int
	Contacts int
	Licenses int
}

// Demo fills the database with generated content. Baseline should run first
// so categories exist.
func (s *Seeder) Demo(ctx context.Context, opts Options) (*Result, error) {
	var cats []models.Category
	if err := s.db.WithContext(ctx).Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	byKind := map[models.CategoryKind][]uint{}
	for _, c := range cats {
		byKind[c.Kind] = append(byKind[c.Kind], c.ID)
	}

	res := &Result{}
	users, err := s.users(ctx, opts.Users)
	if err != nil {
		return nil, err
	}
	res.Users = len(users)

	products := make([]models.Product, 0, opts.Products)
	for i := 0; i < opts.Products; i++ {
		name := s.fake.ProductName()
		p := models.Product{
			Name:        name,
			Slug:        s.slug(name),
			Summary:     s.fake.Sentence(12),
			Description: s.paragraphs(3),
			PriceCents:  int64(s.fake.Number(5, 300)) * 100,
			Currency:    "USD",
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/600", s.fake.UUID()),
			DownloadURL: fmt.Sprintf("https://downloads.example.com/%s.zip", s.fake.UUID()),
			Version:     s.fake.AppVersion(),
			Features:    s.sentences(4),
			CategoryID:  s.pick(byKind[models.CategoryProduct]),
			Status:      s.status(),
			IsFeatured:  i%3 == 0,
		}
		products = append(products, p)
	}
	if len(products) > 0 {
		if err := s.db.WithContext(ctx).Create(&products).Error; err != nil {
			return nil, fmt.Errorf("seed products: %w", err)
		}
	}
	res.Products = len(products)

	for i := 0; i < opts.Services; i++ {
		title := s.fake.RandomString([]string{"Custom", "Managed", "Cloud", "Web", "Security", "Data"}) + " " +
			s.fake.RandomString([]string{"Development", "Consulting", "Support", "Audits", "Hosting"})
		svc := models.Service{
			Title:          title,
			Slug:           s.slug(title),
			Summary:        s.fake.Sentence(10),
			Description:    s.paragraphs(2),
			Icon:           s.fake.RandomString([]string{"code", "cloud", "shield", "chart", "wrench"}),
			PriceFromCents: int64(s.fake.Number(5, 50)) * 10000,
			Features:       s.sentences(3),
			SortOrder:      i,
			Status:         models.StatusPublished,
			IsFeatured:     i == 0,
		}
		if err := s.db.WithContext(ctx).Create(&svc).Error; err != nil {
			return nil, fmt.Errorf("seed services: %w", err)
		}
		res.Services++
	}

	for i := 0; i < opts.Projects; i++ {
		client := s.fake.Company()
		completed := s.fake.DateRange(s.now.AddDate(-3, 0, 0), s.now).UTC()
		title := client + " " + s.fake.RandomString([]string{"Portal", "Storefront", "Dashboard", "Mobile App", "Rebuild"})
		p := models.Project{
			Title:        title,
			Slug:         s.slug(title),
			Summary:      s.fake.Sentence(14),
			Description:  s.paragraphs(3),
			ClientName:   client,
			ProjectURL:   "https://" + s.fake.DomainName(),
			ImageURL:     fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", s.fake.UUID()),
			Technologies: []string{s.fake.ProgrammingLanguage(), s.fake.ProgrammingLanguage()},
			CategoryID:   s.pick(byKind[models.CategoryProject]),
			CompletedAt:  &completed,
			Status:       s.status(),
		}
		if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
			return nil, fmt.Errorf("seed projects: %w", err)
		}
		res.Projects++
	}

	var authors []uint
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Pluck("id", &authors).Error; err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	for i := 0; i < opts.Posts; i++ {
		title := strings.TrimSuffix(s.fake.Sentence(6), ".")
		post := models.BlogPost{
			Title:      title,
			Slug:       s.slug(title),
			Excerpt:    s.fake.Sentence(20),
			Content:    "<p>" + strings.Join(s.sentences(3), "</p><p>") + "</p>",
			CoverImage: fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", s.fake.UUID()),
			AuthorID:   s.pick(authors),
			CategoryID: s.pick(byKind[models.CategoryBlog]),
			Tags:       []string{s.fake.Word(), s.fake.Word()},
			Status:     s.status(),
			ViewCount:  int64(s.fake.Number(0, 5000)),
		}
		if post.Status == models.StatusPublished {
			at := s.fake.DateRange(s.now.AddDate(-1, 0, 0), s.now).UTC()
			post.PublishedAt = &at
		}
		if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
			return nil, fmt.Errorf("seed posts: %w", err)
		}
		res.Posts++
	}

	contacts := make([]models.Contact, 0, opts.Contacts)
	for i := 0; i < opts.Contacts; i++ {
		contacts = append(contacts, models.Contact{
			Name:      s.fake.Name(),
			Email:     strings.ToLower(s.fake.Email()),
			Phone:     s.fake.Phone(),
			Company:   s.fake.Company(),
			Subject:   strings.TrimSuffix(s.fake.Sentence(5), "."),
			Message:   s.paragraphs(1),
			Status:    models.ContactStatus(s.fake.RandomString([]string{"new", "new", "read", "replied", "archived"})),
			IPAddress: s.fake.IPv4Address(),
			UserAgent: s.fake.UserAgent(),
		})
	}
	if len(contacts) > 0 {
		if err := s.db.WithContext(ctx).Create(&contacts).Error; err != nil {
			return nil, fmt.Errorf("seed contacts: %w", err)
		}
	}
	res.Contacts = len(contacts)

	if len(products) > 0 {
		n, err := s.licenses(ctx, opts.Licenses, products, users)
		if err != nil {
			return nil, err
		}
		res.Licenses = n
	}

	slog.Info("demo data seeded",
		"users", res.Users, "products", res.Products, "services", res.Services,
		"projects", res.Projects, "posts", res.Posts, "contacts", res.Contacts, "licenses", res.Licenses)
	return res, nil
}

func (s *Seeder) users(ctx context.Context, n int) ([]models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first, last := s.fake.FirstName(), s.fake.LastName()
		username := strings.ToLower(fmt.Sprintf("%s%s%d", first, last[:1], i))
		users = append(users, models.User{
			Username:     &username,
			Email:        username + "@demo.example.com",
			FullName:     first + " " + last,
			Phone:        s.fake.Phone(),
			Provider:     models.ProviderLocal,
			Role:         models.RoleUser,
			IsActive:     i%7 != 6,
			PasswordHash: string(hash),
			LocalAuth:    true,
		})
	}
	if err := s.db.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

func (s *Seeder) licenses(ctx context.Context, n int, products []models.Product, users []models.User) (int, error) {
	for i := 0; i < n; i++ {
		key, err := s.keys.Generate(ctx)
		if err != nil {
			return i, fmt.Errorf("generate license key: %w", err)
		}
		p := products[s.fake.Number(0, len(products)-1)]
		pid := p.ID
		l := models.License{
			Key:            key,
			ProductID:      &pid,
			ProductName:    p.Name,
			Status:         models.LicenseUnused,
			MaxActivations: s.fake.Number(1, 5),
		}
		if len(users) > 0 && i%4 != 0 {
			uid := users[s.fake.Number(0, len(users)-1)].ID
			l.UserID = &uid
			l.Status = models.LicenseActive
		}
		switch i % 10 {
		case 8:
			exp := s.now.AddDate(0, -1, 0)
			l.ExpiresAt = &exp
		case 9:
			l.Status = models.LicenseRevoked
		default:
			exp := s.now.AddDate(1, 0, 0)
			l.ExpiresAt = &exp
		}
		if l.Status == models.LicenseActive && s.fake.Bool() {
			at := s.now.AddDate(0, 0, -s.fake.Number(1, 60))
			l.ActivatedAt = &at
			l.ActivationCount = 1
			l.Domain = s.fake.DomainName()
		}
		if err := s.db.WithContext(ctx).Create(&l).Error; err != nil {
			return i, fmt.Errorf("seed licenses: %w", err)
		}
	}
	return n, nil
}

func (s *Seeder) slug(title string) string {
	base := validation.Slugify(title)
	if base == "" {
		base = "item"
	}
	if len(base) > validation.MaxSlugLength-6 {
		base = strings.TrimRight(base[:validation.MaxSlugLength-6], "-")
	}
	return base + "-" + strings.ToLower(s.fake.LetterN(5))
}

func (s *Seeder) status() models.ContentStatus {
	if s.fake.Number(1, 5) == 1 {
		return models.StatusDraft
	}
	return models.StatusPublished
}

func (s *Seeder) pick(ids []uint) *uint {
	if len(ids) == 0 {
		return nil
	}
	id := ids[s.fake.Number(0, len(ids)-1)]
	return &id
}

func (s *Seeder) paragraphs(n int) string {
	return s.fake.Paragraph(n, 4, 12, "\n\n")
}

func (s *Seeder) sentences(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s.fake.Sentence(8)
	}
	return out
}
