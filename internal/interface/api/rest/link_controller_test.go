package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"image-tier-api/internal/application/ports"
	"image-tier-api/internal/domain/account"
	"image-tier-api/internal/domain/link"
	domain "image-tier-api/internal/domain/user_image"
	jwtSvc "image-tier-api/internal/infrastructure/jwt"
	"image-tier-api/internal/infrastructure/s3"
)

type FakeLinkService struct {
	CreateExpiringLinkFunc func(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID, expiresIn *int) (*link.ExpiringLink, error)
	ResolveLinkFunc        func(ctx context.Context, token string) (string, error)
}

func (f *FakeLinkService) CreateExpiringLink(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID, expiresIn *int) (*link.ExpiringLink, error) {
	if f.CreateExpiringLinkFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateExpiringLinkFunc(ctx, accountUUID, imageUUID, expiresIn)
}
func (f *FakeLinkService) ResolveLink(ctx context.Context, token string) (string, error) {
	if f.ResolveLinkFunc == nil {
		return "", errors.New("not used")
	}
	return f.ResolveLinkFunc(ctx, token)
}

type FakeBlobStore struct {
	Objects map[string][]byte
	Types   map[string]string
	GetErr  error
}

func (f *FakeBlobStore) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	f.Objects[key] = data
	f.Types[key] = contentType
	return key, nil
}
func (f *FakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	if f.GetErr != nil {
		return nil, "", f.GetErr
	}
	data, ok := f.Objects[key]
	if !ok {
		return nil, "", s3.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), f.Types[key], nil
}
func (f *FakeBlobStore) Remove(_ context.Context, key string) error {
	delete(f.Objects, key)
	return nil
}
func (f *FakeBlobStore) GetPublicURL(key string) string { return s3.PublicURL("http://localhost:8080", key) }
func (f *FakeBlobStore) GetBucket() string              { return "test" }

func newFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{Objects: map[string][]byte{}, Types: map[string]string{}}
}

func setupRouterLC(t *testing.T, ls ports.LinkService, blobs ports.BlobStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	logger := zap.NewNop()
	media := NewMediaController(r, blobs, logger)
	NewLinkController(r, ls, media, logger, jwtSvc.New(testSecret))

	return r
}

func TestLinkController_CreateExpiringLinkHandler(t *testing.T) {
	caller := uuid.New()
	imageID := uuid.New()
	expiresAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       any
		mockLS     func() ports.LinkService
		wantStatus int
		wantErr    string
	}{
		{
			name: "201 default expiration",
			body: nil,
			mockLS: func() ports.LinkService {
				return &FakeLinkService{
					CreateExpiringLinkFunc: func(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID, expiresIn *int) (*link.ExpiringLink, error) {
						if expiresIn != nil || imageUUID != imageID || accountUUID != caller {
							return nil, errors.New("unexpected args")
						}
						return &link.ExpiringLink{Token: "tok", URL: "http://localhost:8080/links/tok", ExpiresAt: expiresAt}, nil
					},
				}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "201 explicit expiration",
			body: map[string]int{"expires_in": 600},
			mockLS: func() ports.LinkService {
				return &FakeLinkService{
					CreateExpiringLinkFunc: func(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID, expiresIn *int) (*link.ExpiringLink, error) {
						if expiresIn == nil || *expiresIn != 600 {
							return nil, errors.New("unexpected expiresIn")
						}
						return &link.ExpiringLink{Token: "tok", URL: "http://localhost:8080/links/tok", ExpiresAt: expiresAt}, nil
					},
				}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "400 invalid json",
			body:       "{",
			mockLS:     func() ports.LinkService { return &FakeLinkService{} },
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid json",
		},
		{
			name:       "400 expiration out of range",
			body:       map[string]int{"expires_in": 299},
			mockLS:     func() ports.LinkService { return &FakeLinkService{} },
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid request body",
		},
		{
			name: "400 tier default out of range",
			body: nil,
			mockLS: func() ports.LinkService {
				return &FakeLinkService{
					CreateExpiringLinkFunc: func(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID, expiresIn *int) (*link.ExpiringLink, error) {
						return nil, fmt.Errorf("%w: out of range", link.ErrInvalidExpiration)
					},
				}
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid expiration: out of range",
		},
		{
			name: "403 tier without expiring links",
			body: nil,
			mockLS: func() ports.LinkService {
				return &FakeLinkService{
					CreateExpiringLinkFunc: func(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID, expiresIn *int) (*link.ExpiringLink, error) {
						return nil, link.ErrExpiringLinksNotAllowed
					},
				}
			},
			wantStatus: http.StatusForbidden,
			wantErr:    "expiring links are not available on this tier",
		},
		{
			name: "404 not owned",
			body: nil,
			mockLS: func() ports.LinkService {
				return &FakeLinkService{
					CreateExpiringLinkFunc: func(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID, expiresIn *int) (*link.ExpiringLink, error) {
						return nil, domain.ErrImageNotFound
					},
				}
			},
			wantStatus: http.StatusNotFound,
			wantErr:    "image not found",
		},
		{
			name: "500 link store down",
			body: nil,
			mockLS: func() ports.LinkService {
				return &FakeLinkService{
					CreateExpiringLinkFunc: func(ctx context.Context, accountUUID account.UUID, imageUUID uuid.UUID, expiresIn *int) (*link.ExpiringLink, error) {
						return nil, domain.ErrStorageFailure
					},
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantErr:    "failed to create link",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouterLC(t, tt.mockLS(), newFakeBlobStore())
			path := RouteUserImages + imageID.String() + "/expiring-links/"
			rr := doReq(t, r, http.MethodPost, path, tt.body, bearer(t, testSecret, caller.String()))
			require.Equal(t, tt.wantStatus, rr.Code)

			body := decodeBody(t, rr)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body["error"])
				return
			}
			assert.Equal(t, "http://localhost:8080/links/tok", body["url"])
			assert.Equal(t, "tok", body["token"])
			assert.Equal(t, "2026-05-01T12:00:00Z", body["expires_at"])
		})
	}
}

func TestLinkController_GetLinkHandler(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.Objects["originals/a.png"] = []byte("png-bytes")
	blobs.Types["originals/a.png"] = "image/png"

	ls := &FakeLinkService{
		ResolveLinkFunc: func(ctx context.Context, token string) (string, error) {
			switch token {
			case "live":
				return "originals/a.png", nil
			case "orphan":
				return "originals/gone.png", nil
			default:
				return "", link.ErrLinkNotFound
			}
		},
	}
	r := setupRouterLC(t, ls, blobs)

	rr := doReq(t, r, http.MethodGet, "/links/live", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rr.Body.String())

	rr = doReq(t, r, http.MethodGet, "/links/expired", nil, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "link not found or expired", decodeBody(t, rr)["error"])

	rr = doReq(t, r, http.MethodGet, "/links/orphan", nil, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMediaController_GetMediaHandler(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.Objects["dynamic/x/266x200.jpg"] = []byte("jpeg-bytes")
	blobs.Types["dynamic/x/266x200.jpg"] = "image/jpeg"

	r := setupRouterLC(t, &FakeLinkService{}, blobs)

	rr := doReq(t, r, http.MethodGet, "/media/dynamic/x/266x200.jpg", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg-bytes", rr.Body.String())

	rr = doReq(t, r, http.MethodGet, "/media/dynamic/x/533x400.jpg", nil, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	blobs.GetErr = errors.New("s3 down")
	rr = doReq(t, r, http.MethodGet, "/media/dynamic/x/266x200.jpg", nil, nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "failed to read media", decodeBody(t, rr)["error"])
}
