// Package seed populates the database with demo users, posts, comments and
// projects for local development.
package seed

import (
	"fmt"
	"log"
	"math/rand"

	"gestufas/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password assigned to every seeded account.
const DemoPassword = "password123"

var postTitles = []string{
	"Getting the greenhouse sensors online",
	"Notes from my first month of pair programming",
	"A pragmatic approach to database migrations",
	"What I learned rewriting our legacy router",
	"Session stores: files, databases, or Redis?",
	"Validating forms without losing your mind",
	"Why our team adopted structured logging",
	"Pagination patterns that scale",
	"The case for boring technology",
	"Shipping a side project in a weekend",
}

var projectTitles = []string{
	"Greenhouse Monitor",
	"Community Forum",
	"Recipe Box",
	"Habit Tracker",
	"Weather Station",
	"Budget Planner",
	"Reading List",
	"Garden Journal",
}

// Seeder inserts demo data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder returns a seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes every row in dependency order.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.Comment{}, &models.Post{}, &models.Project{}, &models.User{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	log.Println("database cleared")
	return nil
}

// Run creates numUsers accounts, each with a handful of posts, projects and
// comments on other users' posts.
func (s *Seeder) Run(numUsers, numPosts int) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			Password: string(hashed),
		}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("creating user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users (password %q)", len(users), DemoPassword)

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[rand.Intn(len(users))]
		post := &models.Post{
			Title:   fmt.Sprintf("%s #%d", postTitles[rand.Intn(len(postTitles))], i+1),
			Content: gofakeit.Paragraph(2, 4, 12, " "),
			Tags:    gofakeit.HackerAbbreviation() + "," + gofakeit.BuzzWord(),
			UserID:  author.ID,
		}
		if err := s.db.Create(post).Error; err != nil {
			return fmt.Errorf("creating post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	log.Printf("created %d posts", len(posts))

	commentCount := 0
	for _, post := range posts {
		for i := 0; i < rand.Intn(4); i++ {
			comment := &models.Comment{
				Content: gofakeit.Sentence(12),
				UserID:  users[rand.Intn(len(users))].ID,
				PostID:  post.ID,
			}
			if err := s.db.Create(comment).Error; err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
			commentCount++
		}
	}
	log.Printf("created %d comments", commentCount)

	statuses := []models.ProjectStatus{
		models.ProjectStatusActive,
		models.ProjectStatusCompleted,
		models.ProjectStatusOnHold,
	}
	projectCount := 0
	for _, user := range users {
		for i := 0; i < 1+rand.Intn(2); i++ {
			project := &models.Project{
				Title:         fmt.Sprintf("%s (%s)", projectTitles[rand.Intn(len(projectTitles))], user.Username),
				Description:   gofakeit.Paragraph(1, 3, 10, " "),
				Technologies:  gofakeit.ProgrammingLanguage() + ", " + gofakeit.ProgrammingLanguage(),
				RepositoryURL: "https://github.com/" + user.Username + "/" + gofakeit.Word(),
				LiveURL:       "https://" + gofakeit.DomainName(),
				Status:        statuses[rand.Intn(len(statuses))],
				UserID:        user.ID,
			}
			if err := s.db.Create(project).Error; err != nil {
				return fmt.Errorf("creating project: %w", err)
			}
			projectCount++
		}
	}
	log.Printf("created %d projects", projectCount)

	return nil
}
