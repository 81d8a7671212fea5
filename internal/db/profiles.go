package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/text/cases"

	"github.com/jonathan/profile-extractor/internal/types"
)

// Profile is a stored normalized profile.
type Profile struct {
	ID        uuid.UUID                `json:"id"`
	JobID     *string                  `json:"job_id,omitempty"`
	Domain    types.Domain             `json:"domain"`
	Name      string                   `json:"name"`
	Enhanced  bool                     `json:"enhanced"`
	Content   *types.NormalizedProfile `json:"content"`
	CreatedAt time.Time                `json:"created_at"`
}

// Tag is a vocabulary entry attached to stored resources.
type Tag struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// NormalizeName case-folds name and reduces every run of characters other
// than letters, digits, '+', '#' and '.' to a single space. "C++", "C#" and
// "C" stay distinct; "Machine  Learning" and "machine-learning" share a tag.
func NormalizeName(name string) string {
	folded := cases.Fold().String(name)
	var b strings.Builder
	pendingSpace := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '+' || r == '#' || r == '.' {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return strings.TrimRight(b.String(), ".")
}

// ProfileName is the display name stored alongside a profile.
func ProfileName(p *types.NormalizedProfile) string {
	switch {
	case p.Resume != nil:
		return p.Resume.PersonalInfo.FullName
	case p.Organization != nil:
		return p.Organization.Name
	default:
		return ""
	}
}

// ProfileStore persists normalized profiles and their tag vocabulary.
type ProfileStore struct {
	db *DB
}

// NewProfileStore returns a store using db's pool.
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Save stores profile for jobID and attaches its tags in one transaction.
// An empty jobID stores the profile without a job reference.
func (s *ProfileStore) Save(ctx context.Context, jobID string, profile *types.NormalizedProfile) error {
	if profile == nil {
		return &PersistenceError{Operation: "save", Message: "profile is nil"}
	}
	content, err := json.Marshal(profile)
	if err != nil {
		return &PersistenceError{Operation: "save", Message: "failed to marshal profile", Cause: err}
	}

	var job *string
	if jobID != "" {
		job = &jobID
	}

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return &PersistenceError{Operation: "save", Message: "failed to begin transaction", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO profiles (job_id, domain, name, enhanced, content)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (job_id) DO UPDATE SET domain = $2, name = $3, enhanced = $4, content = $5
		 RETURNING id`,
		job, string(profile.Domain), ProfileName(profile), profile.Enhanced, content,
	).Scan(&id)
	if err != nil {
		return &PersistenceError{Operation: "save", Message: "failed to insert profile", Cause: err}
	}

	for _, tag := range profile.Tags() {
		if NormalizeName(tag.Name) == "" {
			continue
		}
		if err := attachTag(ctx, tx, id, tag.Name, tag.Category); err != nil {
			return &PersistenceError{Operation: "save", Message: "failed to attach tag " + tag.Name, Cause: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &PersistenceError{Operation: "save", Message: "failed to commit", Cause: err}
	}
	return nil
}

// AttachTag links the tag (tagName, category) to resourceID, creating the tag
// on first use. Tags are shared by normalized name within a category.
func (s *ProfileStore) AttachTag(ctx context.Context, resourceID uuid.UUID, tagName, category string) error {
	if err := attachTag(ctx, s.db.pool, resourceID, tagName, category); err != nil {
		return &PersistenceError{Operation: "attach tag", Message: tagName, Cause: err}
	}
	return nil
}

func attachTag(ctx context.Context, q querier, resourceID uuid.UUID, tagName, category string) error {
	normalized := NormalizeName(tagName)
	if normalized == "" {
		return fmt.Errorf("tag name %q has no letters or digits", tagName)
	}

	var tagID uuid.UUID
	err := q.QueryRow(ctx,
		`INSERT INTO tags (name, name_normalized, category)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (category, name_normalized) DO UPDATE SET category = EXCLUDED.category
		 RETURNING id`,
		strings.TrimSpace(tagName), normalized, category,
	).Scan(&tagID)
	if err != nil {
		return fmt.Errorf("failed to upsert tag: %w", err)
	}

	_, err = q.Exec(ctx,
		`INSERT INTO resource_tags (resource_id, tag_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		resourceID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to link tag: %w", err)
	}
	return nil
}

// GetByJob returns the profile stored for jobID, or nil when there is none.
func (s *ProfileStore) GetByJob(ctx context.Context, jobID string) (*Profile, error) {
	var p Profile
	var content []byte
	var domain string
	err := s.db.pool.QueryRow(ctx,
		`SELECT id, job_id, domain, name, enhanced, content, created_at
		 FROM profiles WHERE job_id = $1`,
		jobID,
	).Scan(&p.ID, &p.JobID, &domain, &p.Name, &p.Enhanced, &content, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.Domain = types.Domain(domain)
	if err := json.Unmarshal(content, &p.Content); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

// ListTags returns the tags attached to resourceID ordered by category and name.
func (s *ProfileStore) ListTags(ctx context.Context, resourceID uuid.UUID) ([]Tag, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT t.id, t.name, t.category
		 FROM tags t JOIN resource_tags rt ON rt.tag_id = t.id
		 WHERE rt.resource_id = $1
		 ORDER BY t.category, t.name`,
		resourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Category); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
