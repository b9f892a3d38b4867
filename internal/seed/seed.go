// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gardencircle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var (
	gardenTopics = []string{
		"tomatoes", "dahlias", "compost", "raised beds", "roses", "pumpkins",
		"herb spirals", "seed starting", "mulching", "pollinators", "peppers",
		"fruit trees", "succulents", "houseplants", "garlic", "cover crops",
	}

	postTemplates = []string{
		"My %s are finally coming in! Anyone else growing them this year?",
		"Quick tip for %s: water in the morning and mulch heavily.",
		"Disaster in the %s patch today. Slugs got to everything overnight.",
		"Harvested the first of the %s this weekend. So worth the wait.",
		"Does anyone have advice on %s? First season trying them.",
		"Photo dump from the allotment. The %s are the stars this week.",
	}

	commentTemplates = []string{
		"Beautiful! What variety is that?",
		"Try neem oil, it worked for me last season.",
		"We had the same problem until we switched to drip irrigation.",
		"Jealous! Mine are weeks behind yours.",
		"Thanks for sharing, saving this for next spring.",
		"Coffee grounds around the base keeps the slugs away.",
	}
)

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := createEngagement(db, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Println("✓ likes, comments, and follows created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	// Children first so foreign keys do not block the deletes.
	tables := []string{"likes", "comments", "follows", "chat_messages", "posts"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	// Keep user ID 1 so the development root admin survives reseeding.
	return db.Exec("DELETE FROM users WHERE id > 1").Error
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:    gofakeit.Email(),
			Password: string(hashedPassword),
			Bio:      fmt.Sprintf("Growing %s in zone %d.", pick(gardenTopics), gofakeit.Number(3, 9)),
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		authorID := author.ID
		post := models.Post{
			AuthorID:   &authorID,
			AuthorName: author.Username,
			Content:    fmt.Sprintf(pick(postTemplates), pick(gardenTopics)),
			CreatedAt:  spreadTime(90),
		}
		if gofakeit.Bool() {
			post.ImagePath = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
		}
		posts = append(posts, post)
	}
	if err := db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func createEngagement(db *gorm.DB, users []models.User, posts []models.Post) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}

	var likes []models.Like
	var comments []models.Comment
	for _, post := range posts {
		for _, user := range users {
			if rand.Intn(100) < 30 {
				likes = append(likes, models.Like{UserID: user.ID, PostID: post.ID})
			}
			if rand.Intn(100) < 10 {
				authorID := user.ID
				comments = append(comments, models.Comment{
					PostID:     post.ID,
					AuthorID:   &authorID,
					AuthorName: user.Username,
					Content:    pick(commentTemplates),
					CreatedAt:  post.CreatedAt.Add(time.Duration(rand.Intn(48)) * time.Hour),
				})
			}
		}
	}
	if len(likes) > 0 {
		if err := db.Create(&likes).Error; err != nil {
			return err
		}
	}
	if len(comments) > 0 {
		if err := db.Create(&comments).Error; err != nil {
			return err
		}
	}

	var follows []models.Follow
	for _, follower := range users {
		for _, followed := range users {
			if follower.ID == followed.ID {
				continue
			}
			if rand.Intn(100) < 15 {
				follows = append(follows, models.Follow{
					FollowerID: follower.ID,
					FollowedID: followed.ID,
				})
			}
		}
	}
	if len(follows) > 0 {
		if err := db.Create(&follows).Error; err != nil {
			return err
		}
	}
	return nil
}

func pick(list []string) string {
	return list[rand.Intn(len(list))]
}

// spreadTime returns a timestamp up to maxDays in the past so seeded
// content does not all share one created_at.
func spreadTime(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(rand.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(rand.Intn(60)) * time.Minute)
}
