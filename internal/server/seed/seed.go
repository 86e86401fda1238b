// Package seed provisions the demo account from a YAML fixture so anonymous
// visitors have something to browse.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vblinov/linkhub/internal/common"
	"github.com/vblinov/linkhub/internal/logging"
	"github.com/vblinov/linkhub/internal/server/models"
	"github.com/vblinov/linkhub/internal/server/services"
)

// Fixture is the YAML schema of a demo seed file.
type Fixture struct {
	Categories []CategoryFixture `yaml:"categories"`
	Bookmarks  []BookmarkFixture `yaml:"bookmarks"`
}

type CategoryFixture struct {
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
}

type BookmarkFixture struct {
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Tags        string `yaml:"tags"`
	Category    string `yaml:"category"`
	Pinned      bool   `yaml:"pinned"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	fixture := &Fixture{}
	if err := yaml.Unmarshal(data, fixture); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return fixture, nil
}

// Run creates the demo account and its fixture data through the regular
// services. It is a no-op when the account already exists, so restarting the
// server never duplicates data.
func Run(ctx context.Context, path, username, password string,
	userSvc *services.UserService, categorySvc *services.CategoryService,
	bookmarkSvc *services.BookmarkService, log logging.Logger) error {

	if _, err := userSvc.GetByUsername(ctx, username); err == nil {
		log.Debug(ctx, "demo account already provisioned", "username", username)
		return nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check demo account: %w", err)
	}

	fixture, err := Load(path)
	if err != nil {
		return err
	}

	user, _, err := userSvc.Register(ctx, username, password)
	if err != nil {
		return fmt.Errorf("failed to create demo account: %w", err)
	}

	categoryIDs := make(map[string]int64, len(fixture.Categories))
	for _, c := range fixture.Categories {
		created, err := categorySvc.Create(ctx, user.ID, c.Name, c.Icon, c.Color)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
		categoryIDs[c.Name] = created.ID
	}

	for _, b := range fixture.Bookmarks {
		bookmark := &models.Bookmark{
			Title:       b.Title,
			URL:         b.URL,
			Description: b.Description,
			Icon:        b.Icon,
			Tags:        b.Tags,
		}
		if id, ok := categoryIDs[b.Category]; ok {
			bookmark.CategoryID = &id
		}
		created, err := bookmarkSvc.Create(ctx, user.ID, bookmark)
		if err != nil {
			return fmt.Errorf("failed to seed bookmark %q: %w", b.Title, err)
		}
		if b.Pinned {
			if _, err := bookmarkSvc.TogglePin(ctx, user.ID, created.ID); err != nil {
				return fmt.Errorf("failed to pin seeded bookmark %q: %w", b.Title, err)
			}
		}
	}

	log.Info(ctx, "demo account seeded",
		"username", username,
		"categories", len(fixture.Categories),
		"bookmarks", len(fixture.Bookmarks))
	return nil
}
