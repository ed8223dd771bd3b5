package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/finchlabs/finch/internal/domain/entity"
	repo "github.com/finchlabs/finch/internal/domain/repository"
	"github.com/finchlabs/finch/pkg/helpers"
)

// Service owns the account lifecycle: registration with role assignment,
// credential resolution, token issuance, confirmation, and profile upkeep.
type Service struct {
	Repo         repo.UserRepository
	Roles        repo.RoleRepository
	JWT          *helpers.JWTManager
	GCS          *storage.Client
	GCSBucket    string
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	AdminEmail   string
}

func NewService(users repo.UserRepository, roles repo.RoleRepository, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, adminEmail string) *Service {
	return &Service{
		Repo:         users,
		Roles:        roles,
		JWT:          jwt,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		AdminEmail:   entity.NormalizeEmail(adminEmail),
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// AuthMethod records which credential form authenticated a request, so
// callers can refuse token-authenticated users certain operations (minting
// a fresh token requires re-presenting the password).
type AuthMethod string

const (
	AuthByPassword AuthMethod = "password"
	AuthByToken    AuthMethod = "token"
)

// Credential is the tagged union a transport layer resolves before calling
// ResolveCredential. There is no empty-password sniffing: the caller decides
// which form it carries.
type Credential interface{ isCredential() }

// PasswordCredential is an email/password pair.
type PasswordCredential struct {
	Email    string
	Password string
}

// TokenCredential is a previously issued access token.
type TokenCredential struct {
	Value string
}

func (PasswordCredential) isCredential() {}
func (TokenCredential) isCredential()    {}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register creates an account. The configured administrator email receives
// the Administrator role; everyone else gets the single default role. The
// reflexive self-follow edge is created in the same transaction as the user
// row, so the invariant holds from the first instant the account exists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := entity.NormalizeEmail(in.Email)

	if existing, err := s.Repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.Repo.GetByUsername(ctx, in.Username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}

	role, err := s.initialRole(ctx, email)
	if err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		ID:       uuid.NewString(),
		Email:    email,
		Username: in.Username,
		Password: hash,
		RoleID:   role.ID,
		Role:     role,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	_ = s.indexUser(ctx, u)
	return u, nil
}

// initialRole maps the admin email to the Administrator role and everyone
// else to the default role. Runs exactly once, at registration. A broken
// single-default invariant surfaces as ErrConfiguration.
func (s *Service) initialRole(ctx context.Context, email string) (*entity.Role, error) {
	if s.AdminEmail != "" && email == s.AdminEmail {
		return s.Roles.GetByName(ctx, entity.RoleNameAdministrator)
	}
	role, err := s.Roles.DefaultRole(ctx)
	if errors.Is(err, repo.ErrDefaultRole) {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return role, err
}

// Authenticate validates email/password and returns the user without issuing
// tokens. Every failure collapses into ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ResolveCredential authenticates either credential form and reports which
// method succeeded.
func (s *Service) ResolveCredential(ctx context.Context, cred Credential) (*entity.User, AuthMethod, error) {
	switch c := cred.(type) {
	case PasswordCredential:
		u, err := s.Authenticate(ctx, c.Email, c.Password)
		if err != nil {
			return nil, "", err
		}
		return u, AuthByPassword, nil
	case TokenCredential:
		claims, err := s.JWT.ParseAccessToken(c.Value)
		if err != nil {
			return nil, "", ErrInvalidCredentials
		}
		u, err := s.Repo.GetByID(ctx, claims.UserID)
		if err != nil || u == nil {
			return nil, "", ErrInvalidCredentials
		}
		return u, AuthByToken, nil
	default:
		return nil, "", ErrInvalidCredentials
	}
}

// IssueAPIToken mints a stateless access token with an explicit lifetime.
// The handler only calls this for password-authenticated requests, which
// keeps tokens from being chained off other tokens.
func (s *Service) IssueAPIToken(u *entity.User, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.JWT.AccessTTL
	}
	return s.JWT.GenerateWithTTL(u.ID, ttl)
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *Service) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := helpers.KeySession(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"username":   u.Username,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

type LoginResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Username: u.Username}, pair, nil
}

// Refresh rotates the session id and token pair after validating the refresh
// token against the current Redis session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, helpers.KeySession(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Confirm marks the account confirmed. Confirming twice is a no-op.
func (s *Service) Confirm(ctx context.Context, userID string) error {
	if err := s.Repo.SetConfirmed(ctx, userID); err != nil {
		return ErrNotFound
	}
	return nil
}

// Ping touches the user's last-seen timestamp. The auth middleware calls it
// once per authenticated request; internal calls never do.
func (s *Service) Ping(ctx context.Context, userID string) {
	if err := s.Repo.TouchLastSeen(ctx, userID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("last-seen ping failed")
	}
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Username  string
	AvatarURL string
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrNotFound
	}
	if in.Username != "" && in.Username != u.Username {
		if existing, err := s.Repo.GetByUsername(ctx, in.Username); err == nil && existing != nil {
			return nil, ErrUsernameTaken
		}
		u.Username = in.Username
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := helpers.KeySession(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"username":   u.Username,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	_ = s.indexUser(ctx, u)
	return u, nil
}

// UploadAvatar stores the image in GCS and points the profile at it.
func (s *Service) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return "", ErrNotFound
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	_ = s.indexUser(ctx, u)
	return url, nil
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a simple multi_match search on email and username.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "email"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
