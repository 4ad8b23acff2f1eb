package plant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verdant-io/planttracker/internal/blob"
)

// Sentinel errors surfaced by the lifecycle engine. The API layer maps these
// to HTTP statuses with errors.Is.
var (
	ErrNotFound     = errors.New("plant not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// Store is the record persistence contract the engine depends on.
// FindByID returns ErrNotFound when there is no plant with that id.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Plant, error)
	FindByOwner(ctx context.Context, owner string) ([]Plant, error)
	FindPublic(ctx context.Context) ([]Plant, error)

	// Create assigns the id and persists a new record.
	Create(ctx context.Context, p *Plant) (*Plant, error)

	// Save overwrites the full record for an existing id.
	Save(ctx context.Context, p *Plant) (*Plant, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

// BlobStore is the photo storage contract. Satisfied by *blob.S3Store.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Info, error)
	Delete(ctx context.Context, bucket, key string) (bool, error)
	Resolve(raw string) (bucket, key string)
	Bucket() string
}

// Service is the plant lifecycle engine. It is stateless: every operation is
// a single load-validate-mutate-persist unit of work against the store, with
// no coordination between concurrent requests for the same plant (last writer
// wins).
type Service struct {
	store  Store
	blobs  BlobStore // nil disables photo upload and cleanup
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires a lifecycle engine. blobs may be nil when no object store
// is configured.
func NewService(store Store, blobs BlobStore, logger *slog.Logger) *Service {
	return &Service{store: store, blobs: blobs, logger: logger, now: time.Now}
}

// ListByOwner returns every plant owned by the named user, overdue flags
// recomputed. The owner is the filter; no further authorization applies.
func (s *Service) ListByOwner(ctx context.Context, owner string) ([]Plant, error) {
	plants, err := s.store.FindByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list plants by owner: %w", err)
	}
	now := s.now()
	for i := range plants {
		plants[i].Normalize()
		plants[i].refreshOverdue(now)
	}
	return plants, nil
}

// ListPublic returns every publicly visible plant.
func (s *Service) ListPublic(ctx context.Context) ([]Plant, error) {
	plants, err := s.store.FindPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public plants: %w", err)
	}
	now := s.now()
	for i := range plants {
		plants[i].Normalize()
		plants[i].refreshOverdue(now)
	}
	return plants, nil
}

// Get returns a single plant. The owner may always read it; anyone else,
// including an anonymous caller, only when the plant is public. An absent
// identity is never implicit ownership.
func (s *Service) Get(ctx context.Context, id uuid.UUID, caller Caller) (*Plant, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Is(p.Owner) && !p.Public {
		return nil, fmt.Errorf("plant is private: %w", ErrForbidden)
	}
	p.refreshOverdue(s.now())
	return p, nil
}

// Create registers a new plant. The payload must carry the owner; id, logs
// and the overdue flag are engine-controlled.
func (s *Service) Create(ctx context.Context, p Plant) (*Plant, error) {
	if strings.TrimSpace(p.Owner) == "" {
		return nil, fmt.Errorf("plant must have an owner: %w", ErrInvalidInput)
	}
	p.ID = uuid.Nil
	p.Normalize()
	p.refreshOverdue(s.now())
	created, err := s.store.Create(ctx, &p)
	if err != nil {
		return nil, fmt.Errorf("create plant: %w", err)
	}
	return created, nil
}

// Update overwrites the mutable fields of an existing plant from the payload.
// Ownership and the logs collection are never taken from the payload.
func (s *Service) Update(ctx context.Context, id uuid.UUID, payload Plant, caller Caller) (*Plant, error) {
	p, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	p.Name = payload.Name
	p.Species = payload.Species
	p.LastWatered = payload.LastWatered
	p.WateringFrequencyDays = payload.WateringFrequencyDays
	p.SoilType = payload.SoilType
	p.Fertilizer = payload.Fertilizer
	p.SunExposure = payload.SunExposure
	p.IdealTemperature = payload.IdealTemperature
	p.Notes = payload.Notes
	p.Public = payload.Public

	return s.persist(ctx, p)
}

// Delete removes the plant record. Photo blobs referenced by its logs are not
// cleaned up here; only per-log deletion does that.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, caller Caller) error {
	p, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete plant: %w", err)
	}
	return nil
}

// AddLog appends a journal entry. The note is required; the timestamp is
// always stamped by the engine.
func (s *Service) AddLog(ctx context.Context, id uuid.UUID, entry Log, caller Caller) (*Plant, error) {
	if strings.TrimSpace(entry.Note) == "" {
		return nil, fmt.Errorf("log must have a note: %w", ErrInvalidInput)
	}
	p, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	entry.Timestamp = s.now()
	if entry.Comments == nil {
		entry.Comments = []Comment{}
	}
	p.Logs = append(p.Logs, entry)
	return s.persist(ctx, p)
}

// AddComment appends a comment to the log at logIndex.
func (s *Service) AddComment(ctx context.Context, id uuid.UUID, logIndex int, c Comment, caller Caller) (*Plant, error) {
	if strings.TrimSpace(c.Text) == "" {
		return nil, fmt.Errorf("comment must have text: %w", ErrInvalidInput)
	}
	p, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if logIndex < 0 || logIndex >= len(p.Logs) {
		return nil, fmt.Errorf("log index %d out of range: %w", logIndex, ErrNotFound)
	}
	c.Timestamp = s.now()
	p.Logs[logIndex].Comments = append(p.Logs[logIndex].Comments, c)
	return s.persist(ctx, p)
}

// DeleteLog removes the log at logIndex; subsequent indices shift down by
// one. After the record mutation is persisted, any photo the log referenced
// is deleted from blob storage on a best-effort basis: a failure there is
// logged and swallowed, never undoing the record change.
func (s *Service) DeleteLog(ctx context.Context, id uuid.UUID, logIndex int, caller Caller) (*Plant, error) {
	p, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if logIndex < 0 || logIndex >= len(p.Logs) {
		return nil, fmt.Errorf("log index %d out of range: %w", logIndex, ErrNotFound)
	}

	photoURL := p.Logs[logIndex].PhotoURL
	p.Logs = append(p.Logs[:logIndex], p.Logs[logIndex+1:]...)

	saved, err := s.persist(ctx, p)
	if err != nil {
		return nil, err
	}

	if photoURL != "" {
		s.deletePhoto(ctx, photoURL)
	}
	return saved, nil
}

// Water records a watering today and refreshes the overdue flag.
func (s *Service) Water(ctx context.Context, id uuid.UUID, caller Caller) (*Plant, error) {
	p, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	today := DateOf(s.now())
	p.LastWatered = &today
	return s.persist(ctx, p)
}

// AttachPhoto uploads a plant photo and returns its URL. The key embeds the
// plant id and upload time so it is unique and traceable.
func (s *Service) AttachPhoto(ctx context.Context, id uuid.UUID, filename, contentType string, r io.Reader, caller Caller) (string, error) {
	return s.uploadPhoto(ctx, id, filename, contentType, r, caller, false)
}

// AttachLogPhoto uploads a photo destined for a log entry. The returned URL
// is what the client passes back as the log's photoUrl.
func (s *Service) AttachLogPhoto(ctx context.Context, id uuid.UUID, filename, contentType string, r io.Reader, caller Caller) (string, error) {
	return s.uploadPhoto(ctx, id, filename, contentType, r, caller, true)
}

func (s *Service) uploadPhoto(ctx context.Context, id uuid.UUID, filename, contentType string, r io.Reader, caller Caller, forLog bool) (string, error) {
	if s.blobs == nil {
		return "", fmt.Errorf("photo storage is not configured: %w", ErrInvalidInput)
	}
	if filename == "" {
		return "", fmt.Errorf("file name required: %w", ErrInvalidInput)
	}
	if _, err := s.loadOwned(ctx, id, caller); err != nil {
		return "", err
	}

	prefix := fmt.Sprintf("plants/%s/", id)
	if forLog {
		prefix += "logs/"
	}
	key := fmt.Sprintf("%s%d-%s", prefix, s.now().UnixMilli(), filename)

	info, err := s.blobs.Put(ctx, key, r, blob.PutOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return info.URL, nil
}

// load fetches a plant and normalizes its collections.
func (s *Service) load(ctx context.Context, id uuid.UUID) (*Plant, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load plant %s: %w", id, err)
	}
	p.Normalize()
	return p, nil
}

// loadOwned fetches a plant and authorizes the caller against the record's
// current owner, not anything client-supplied.
func (s *Service) loadOwned(ctx context.Context, id uuid.UUID, caller Caller) (*Plant, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Is(p.Owner) {
		return nil, fmt.Errorf("caller is not the owner: %w", ErrForbidden)
	}
	return p, nil
}

// persist recomputes derived state and saves. Single point of durability for
// each mutating operation.
func (s *Service) persist(ctx context.Context, p *Plant) (*Plant, error) {
	p.Normalize()
	p.refreshOverdue(s.now())
	saved, err := s.store.Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("save plant %s: %w", p.ID, err)
	}
	saved.Normalize()
	return saved, nil
}

// deletePhoto is the best-effort cleanup step after a log deletion has been
// persisted. Resolution is delegated to the blob store so URLs issued under
// a custom endpoint map back correctly. A URL we cannot resolve to a bucket
// falls back to the configured default bucket; one we cannot resolve to a
// key is skipped entirely.
func (s *Service) deletePhoto(ctx context.Context, photoURL string) {
	if s.blobs == nil {
		return
	}
	bucket, key := s.blobs.Resolve(photoURL)
	if key == "" {
		s.logger.Warn("no object key in photo url, skipping blob cleanup", "url", photoURL)
		return
	}
	if bucket == "" {
		bucket = s.blobs.Bucket()
	}
	if _, err := s.blobs.Delete(ctx, bucket, key); err != nil {
		s.logger.Warn("failed to delete photo blob", "bucket", bucket, "key", key, "error", err)
	}
}
