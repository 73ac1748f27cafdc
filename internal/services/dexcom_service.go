package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"golang.org/x/oauth2"
)

// SourceDexcom marks readings pulled from the Dexcom API
const SourceDexcom = "dexcom"

// dexcomTimeLayout is the zone-less UTC format of the egvs query and of older payloads
const dexcomTimeLayout = "2006-01-02T15:04:05"

// DexcomService links Dexcom accounts and imports their CGM readings
type DexcomService struct {
	oauth    *oauth2.Config
	baseURL  string
	tokens   domain.DexcomTokenRepository
	readings domain.GlucoseRepository
	now      func() time.Time
}

func NewDexcomService(clientID, clientSecret, redirectURL, baseURL string, tokens domain.DexcomTokenRepository, readings domain.GlucoseRepository) *DexcomService {
	baseURL = strings.TrimRight(baseURL, "/")
	return &DexcomService{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"offline_access"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   baseURL + "/v2/oauth2/login",
				TokenURL:  baseURL + "/v2/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		baseURL:  baseURL,
		tokens:   tokens,
		readings: readings,
		now:      time.Now,
	}
}

// AuthURL is the Dexcom login page the user is sent to
func (s *DexcomService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and stores it
func (s *DexcomService) Exchange(ctx context.Context, userID uint, code string) error {
	if code == "" {
		return apperrors.NewValidationError("missing authorization code")
	}
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return apperrors.NewExternalAPIError(err, "Dexcom")
	}
	if err := s.tokens.Save(ctx, userID, tok); err != nil {
		return err
	}
	logger.WithContext(ctx).Info("Dexcom account linked", "user_id", userID)
	return nil
}

// Linked reports whether the user has a stored token
func (s *DexcomService) Linked(ctx context.Context, userID uint) (bool, error) {
	tok, err := s.tokens.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return tok != nil, nil
}

type egvRecord struct {
	SystemTime string  `json:"systemTime"`
	Value      float64 `json:"value"`
}

type egvResponse struct {
	Records []egvRecord `json:"records"`
	Egvs    []egvRecord `json:"egvs"`
}

// Sync imports the readings of the last window and returns how many were written.
// A refreshed token is saved back.
func (s *DexcomService) Sync(ctx context.Context, userID uint, window time.Duration) (int, error) {
	tok, err := s.tokens.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if tok == nil {
		return 0, apperrors.NewValidationError("Dexcom account is not linked")
	}

	src := s.oauth.TokenSource(ctx, tok)
	client := oauth2.NewClient(ctx, src)

	end := s.now().UTC()
	start := end.Add(-window)
	q := url.Values{}
	q.Set("startDate", start.Format(dexcomTimeLayout))
	q.Set("endDate", end.Format(dexcomTimeLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v3/users/self/egvs?"+q.Encode(), nil)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, apperrors.NewExternalAPIError(err, "Dexcom")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, apperrors.NewExternalAPIError(fmt.Errorf("status %d: %s", resp.StatusCode, body), "Dexcom")
	}

	var payload egvResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, apperrors.NewExternalAPIError(fmt.Errorf("decode egvs: %w", err), "Dexcom")
	}

	if fresh, err := src.Token(); err == nil && fresh.AccessToken != tok.AccessToken {
		if err := s.tokens.Save(ctx, userID, fresh); err != nil {
			logger.WithContext(ctx).Warn("Failed to save refreshed Dexcom token", "user_id", userID, "error", err)
		}
	}

	records := payload.Records
	if len(records) == 0 {
		records = payload.Egvs
	}
	readings := make([]domain.GlucoseReading, 0, len(records))
	for _, r := range records {
		t, err := parseDexcomTime(r.SystemTime)
		if err != nil || r.Value <= 0 {
			continue
		}
		readings = append(readings, domain.GlucoseReading{UserID: userID, Time: t, Value: r.Value, Source: SourceDexcom})
	}

	n, err := s.readings.Upsert(ctx, readings)
	if err != nil {
		return 0, err
	}
	logger.WithContext(ctx).Info("Dexcom readings synced", "user_id", userID, "received", len(records), "written", n)
	return n, nil
}

// SyncAll runs Sync for every linked account and returns the total written
func (s *DexcomService) SyncAll(ctx context.Context, window time.Duration) (int, error) {
	ids, err := s.tokens.ListUserIDs(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	var failed int
	for _, id := range ids {
		n, err := s.Sync(ctx, id, window)
		if err != nil {
			failed++
			logger.Error("Dexcom sync failed", "user_id", id, "error", err)
			continue
		}
		total += n
	}
	if failed > 0 {
		return total, fmt.Errorf("dexcom sync failed for %d of %d users", failed, len(ids))
	}
	return total, nil
}

func parseDexcomTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.ParseInLocation(dexcomTimeLayout, s, time.UTC)
}
