package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/link"
	"image-tier-api/internal/domain/tier"
	domain "image-tier-api/internal/domain/user_image"
	"image-tier-api/internal/infrastructure/mq"
	"image-tier-api/internal/infrastructure/s3"
)

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  func(key string) error
	removed []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBlobStore) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		if err := f.putErr(key); err != nil {
			return "", err
		}
	}
	f.objects[key] = data
	f.types[key] = contentType
	return key, nil
}

func (f *fakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, "", s3.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), f.types[key], nil
}

func (f *fakeBlobStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeBlobStore) GetPublicURL(key string) string {
	return s3.PublicURL("http://localhost:8080", key)
}

func (f *fakeBlobStore) GetBucket() string { return "user-images" }

func (f *fakeBlobStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakeAccountRepo struct {
	accounts map[account.UUID]*account.Account
	nextID   account.ID
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[account.UUID]*account.Account{}}
}

func (f *fakeAccountRepo) add(t *tier.Tier) *account.Account {
	f.nextID++
	a := &account.Account{ID: f.nextID, UUID: uuid.New(), Tier: t, CreatedAt: time.Now()}
	f.accounts[a.UUID] = a
	return a
}

func (f *fakeAccountRepo) FetchAccount(_ context.Context, id account.UUID) (*account.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountRepo) CreateAccount(_ context.Context, tierID *tier.ID) (*account.Account, error) {
	var t *tier.Tier
	if tierID != nil {
		t = &tier.Tier{ID: *tierID}
	}
	return f.add(t), nil
}

// fakeImageRepo keeps rows in memory and records any derivative row that
// would reference a blob not yet written.
type fakeImageRepo struct {
	mu            sync.Mutex
	blobs         *fakeBlobStore
	nextID        domain.ID
	images        map[uuid.UUID]*domain.UploadedImage
	rejectHeights map[int]bool
	publishErr    error
	danglingRefs  []string
	// onCreate runs once the original row is committed.
	onCreate func()
}

func newFakeImageRepo(blobs *fakeBlobStore) *fakeImageRepo {
	return &fakeImageRepo{blobs: blobs, images: map[uuid.UUID]*domain.UploadedImage{}, rejectHeights: map[int]bool{}}
}

func cloneImage(ui *domain.UploadedImage) *domain.UploadedImage {
	cp := *ui
	cp.Derivatives = append(domain.Derivatives{}, ui.Derivatives...)
	return &cp
}

func (f *fakeImageRepo) CreateUploadedImage(_ context.Context, ownerID account.ID, req *domain.UploadedImage) (*domain.UploadedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.blobs.has(req.OriginalKey) {
		f.danglingRefs = append(f.danglingRefs, req.OriginalKey)
	}
	f.nextID++
	ui := cloneImage(req)
	ui.ID = f.nextID
	ui.UUID = uuid.New()
	ui.OwnerID = ownerID
	ui.Status = domain.StatusProcessing
	ui.CreatedAt = time.Now()
	f.images[ui.UUID] = ui
	if f.onCreate != nil {
		f.onCreate()
	}
	return cloneImage(ui), nil
}

func (f *fakeImageRepo) PublishDerivatives(_ context.Context, imageID domain.ID, want int, ds domain.Derivatives) (stored, rejected domain.Derivatives, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return nil, ds, f.publishErr
	}
	for _, d := range ds {
		if f.rejectHeights[d.Height] {
			rejected = append(rejected, d)
			continue
		}
		if !f.blobs.has(d.BlobKey) {
			f.danglingRefs = append(f.danglingRefs, d.BlobKey)
		}
		stored = append(stored, d)
	}
	for _, ui := range f.images {
		if ui.ID == imageID {
			ui.Derivatives = append(domain.Derivatives{}, stored...)
			ui.Status = domain.StatusFor(want, len(stored))
		}
	}
	return stored, rejected, nil
}

func (f *fakeImageRepo) FetchOwnedImages(_ context.Context, ownerID account.ID) (domain.UploadedImages, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out domain.UploadedImages
	for _, ui := range f.images {
		if ui.OwnerID == ownerID {
			out = append(out, cloneImage(ui))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeImageRepo) FetchOwnedImage(_ context.Context, ownerID account.ID, imageUUID uuid.UUID) (*domain.UploadedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ui, ok := f.images[imageUUID]
	if !ok || ui.OwnerID != ownerID {
		return nil, nil
	}
	return cloneImage(ui), nil
}

func (f *fakeImageRepo) DeleteOwnedImage(_ context.Context, ownerID account.ID, imageUUID uuid.UUID) (*domain.UploadedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ui, ok := f.images[imageUUID]
	if !ok || ui.OwnerID != ownerID {
		return nil, nil
	}
	delete(f.images, imageUUID)
	return ui, nil
}

func (f *fakeImageRepo) rows() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.images)
}

type fakeRabbitMQ struct {
	ch chan mq.Event
}

func newFakeRabbitMQ(size int) *fakeRabbitMQ { return &fakeRabbitMQ{ch: make(chan mq.Event, size)} }

func (f *fakeRabbitMQ) Connect(context.Context, string) error { return nil }
func (f *fakeRabbitMQ) Init() error                           { return nil }
func (f *fakeRabbitMQ) PublisherWorker(context.Context)       {}
func (f *fakeRabbitMQ) GetInputChan() chan mq.Event           { return f.ch }
func (f *fakeRabbitMQ) GetConn() *amqp091.Connection          { return nil }

type fakeLinkStore struct {
	links map[string]string
	ttls  map[string]time.Duration
	err   error
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{links: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeLinkStore) Save(_ context.Context, token, blobKey string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.links[token]; ok {
		return link.ErrTokenTaken
	}
	f.links[token] = blobKey
	f.ttls[token] = ttl
	return nil
}

func (f *fakeLinkStore) Resolve(_ context.Context, token string) (string, error) {
	key, ok := f.links[token]
	if !ok {
		return "", link.ErrLinkNotFound
	}
	return key, nil
}

type fakeTierRepo struct {
	tiers map[string]*tier.Tier
	saved []tier.Tier
}

func (f *fakeTierRepo) FetchTierByName(_ context.Context, name string) (*tier.Tier, error) {
	t, ok := f.tiers[name]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (f *fakeTierRepo) SaveTier(_ context.Context, t tier.Tier) (*tier.Tier, error) {
	f.saved = append(f.saved, t)
	t.ID = tier.ID(len(f.saved))
	return &t, nil
}

func newTestCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counters"}, []string{"result"})
}

func newTestDuration() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_seconds"}, []string{"outcome"})
}

// pngBytes draws a w×h gradient, semi-transparent when alpha is set.
func pngBytes(t *testing.T, w, h int, alpha bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	a := uint8(255)
	if alpha {
		a = 128
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: a})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var errBoom = errors.New("boom")
