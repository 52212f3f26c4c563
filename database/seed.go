package database

import (
	"fmt"
	"log"
	"time"

	"github.com/intradesk/helpdesk-api/model"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions. Each seed is idempotent: it is skipped
// when its table already has rows, so a fresh deployment answers out of the
// box without clobbering admin-managed content later.
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedFAQEntries(); err != nil {
		return fmt.Errorf("failed to seed FAQ entries: %w", err)
	}

	if err := s.SeedContacts(); err != nil {
		return fmt.Errorf("failed to seed contacts: %w", err)
	}

	if err := s.SeedNewsItems(); err != nil {
		return fmt.Errorf("failed to seed news items: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedFAQEntries creates the starter FAQ set
func (s *Seeder) SeedFAQEntries() error {
	var count int64
	if err := s.db.Model(&model.FAQEntry{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  FAQ entries already exist, skipping...")
		return nil
	}

	entries := []model.FAQEntry{
		{
			Question: "How do I reset my password?",
			Answer:   "Call the IT helpdesk at extension 100 or use the self-service portal at portal.internal/reset.",
			Category: "it",
			Keywords: pq.StringArray{"password", "reset", "login", "account"},
			IsActive: true,
			Rank:     1,
		},
		{
			Question: "How do I request annual leave?",
			Answer:   "Submit a leave request in the HR portal at least two weeks in advance. Your manager approves it from their dashboard.",
			Category: "hr",
			Keywords: pq.StringArray{"leave", "vacation", "holiday", "absence"},
			IsActive: true,
			Rank:     2,
		},
		{
			Question: "What are the canteen opening hours?",
			Answer:   "The canteen is open Monday to Friday, 07:30 to 15:00. Hot lunch is served from 11:30 to 13:30.",
			Category: "facilities",
			Keywords: pq.StringArray{"canteen", "lunch", "food", "hours"},
			IsActive: true,
			Rank:     3,
		},
		{
			Question: "Where do I find my payslip?",
			Answer:   "Payslips are published in the HR portal under Documents on the last working day of each month.",
			Category: "hr",
			Keywords: pq.StringArray{"payslip", "salary", "pay", "wage"},
			IsActive: true,
			Rank:     4,
		},
	}

	if err := s.db.Create(&entries).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d FAQ entries", len(entries))
	return nil
}

// SeedContacts creates the starter directory entries
func (s *Seeder) SeedContacts() error {
	var count int64
	if err := s.db.Model(&model.Contact{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Contacts already exist, skipping...")
		return nil
	}

	contacts := []model.Contact{
		{Name: "IT Helpdesk", Position: "Service Desk", Department: "IT", Phone: "+1 555 0100", Extension: "100", Email: "it@internal", IsActive: true},
		{Name: "HR Front Desk", Position: "Reception", Department: "Human Resources", Phone: "+1 555 0200", Extension: "200", Email: "hr@internal", IsActive: true},
		{Name: "Facilities Desk", Position: "Reception", Department: "Facilities", Phone: "+1 555 0300", Extension: "300", Email: "facilities@internal", IsActive: true},
		{Name: "Occupational Health Clinic", Position: "Clinic Reception", Department: "Health", Phone: "+1 555 0400", Extension: "400", Email: "clinic@internal", IsActive: true},
	}

	if err := s.db.Create(&contacts).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d contacts", len(contacts))
	return nil
}

// SeedNewsItems creates a starter announcement
func (s *Seeder) SeedNewsItems() error {
	var count int64
	if err := s.db.Model(&model.NewsItem{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  News items already exist, skipping...")
		return nil
	}

	now := time.Now()
	items := []model.NewsItem{
		{
			Title:       "Helpdesk assistant is live",
			Summary:     "You can now ask the assistant about IT, HR and facilities questions directly from the intranet.",
			Body:        "The internal helpdesk assistant answers common questions and points you to the right department. Feedback goes to the intranet team.",
			Tags:        []byte(`["intranet","assistant"]`),
			IsPublished: true,
			PublishedAt: &now,
		},
	}

	if err := s.db.Create(&items).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d news items", len(items))
	return nil
}
