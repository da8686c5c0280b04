package seed

import (
	"fmt"
	"log"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumProfiles int
	NumRoots    int
	// MaxDays controls how far back created_at timestamps are spread.
	MaxDays     int
	ShouldClean bool
}

// Seed populates the database with test data: a profile mesh with follow
// edges, content trees with comments and reposts, and engagement rows whose
// like counters match the likes table.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d profiles and %d roots...", opts.NumProfiles, opts.NumRoots)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	profiles, err := createProfiles(f, opts.NumProfiles)
	if err != nil {
		return fmt.Errorf("failed to create profiles: %w", err)
	}
	log.Printf("%d profiles created", len(profiles))

	if err := createFollowMesh(f, profiles); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}

	roots, err := createTrees(f, profiles, opts.NumRoots)
	if err != nil {
		return fmt.Errorf("failed to create content trees: %w", err)
	}
	log.Printf("%d content trees created", len(roots))

	if err := createEngagement(f, profiles, roots); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE likes, bookmarks, content_nodes, follows, profiles RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createProfiles(f *Factory, count int) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0, count)
	for i := 0; i < count; i++ {
		p, err := f.CreateProfile()
		if err != nil {
			log.Printf("Failed to create profile: %v", err)
			continue
		}
		profiles = append(profiles, p)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d profiles...", i)
		}
	}
	return profiles, nil
}

// createFollowMesh gives every profile a handful of followings so the
// following feed and privacy visibility have realistic data to work with.
func createFollowMesh(f *Factory, profiles []*models.Profile) error {
	if len(profiles) < 2 {
		return nil
	}
	for _, p := range profiles {
		count := f.rng.Intn(5) + 1
		for j := 0; j < count; j++ {
			target := profiles[f.rng.Intn(len(profiles))]
			if target.ID == p.ID {
				continue
			}
			if err := f.CreateFollow(p, target); err != nil {
				// duplicate edges hit the unique index, skip them
				continue
			}
		}
	}
	return nil
}

func createTrees(f *Factory, profiles []*models.Profile, count int) ([]*models.ContentNode, error) {
	roots := make([]*models.ContentNode, 0, count)
	for i := 0; i < count; i++ {
		author := profiles[f.rng.Intn(len(profiles))]

		root, err := f.CreateNode(author, nil, false, func(n *models.ContentNode) {
			n.IsPrivate = f.rng.Float32() < 0.15
			if f.rng.Float32() < 0.3 {
				n.ImageRefs = []string{fmt.Sprintf("seed-%d.jpg", f.rng.Intn(10000))}
			}
		})
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)

		// comment threads up to two levels deep
		for c := 0; c < f.rng.Intn(4); c++ {
			commenter := profiles[f.rng.Intn(len(profiles))]
			comment, err := f.CreateNode(commenter, root, true)
			if err != nil {
				return nil, err
			}
			for r := 0; r < f.rng.Intn(2); r++ {
				replier := profiles[f.rng.Intn(len(profiles))]
				if _, err := f.CreateNode(replier, comment, true); err != nil {
					return nil, err
				}
			}
		}

		// the occasional repost, sometimes without text
		if f.rng.Float32() < 0.25 {
			reposter := profiles[f.rng.Intn(len(profiles))]
			if _, err := f.CreateNode(reposter, root, false, func(n *models.ContentNode) {
				if f.rng.Float32() < 0.5 {
					n.Text = ""
				}
			}); err != nil {
				return nil, err
			}
		}

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d content trees...", i)
		}
	}
	return roots, nil
}

func createEngagement(f *Factory, profiles []*models.Profile, roots []*models.ContentNode) error {
	for _, root := range roots {
		likers := f.rng.Intn(6)
		seen := map[string]bool{}
		for j := 0; j < likers; j++ {
			p := profiles[f.rng.Intn(len(profiles))]
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			if err := f.CreateLike(p, root); err != nil {
				return err
			}
			if f.rng.Float32() < 0.3 {
				if err := f.CreateBookmark(p, root); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
