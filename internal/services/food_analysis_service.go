package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"github.com/vladimiradmaev/sweet-friend/internal/state"
)

// pendingAnalysisTTL is how long an analysis waits to prefill the food form
const pendingAnalysisTTL = 30 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
}

// ImageStore saves uploaded meal photos
type ImageStore interface {
	Save(ctx context.Context, userID uint, ext string, reader io.Reader) (string, int64, error)
	Delete(ctx context.Context, name string) error
}

// Upload is a meal photo as received from the client
type Upload struct {
	Filename string
	Body     io.Reader
}

// FoodAnalysisService turns meal photos into carb estimates
type FoodAnalysisService struct {
	ai      domain.AIProvider
	images  ImageStore
	state   state.Store
	maxSize int64
}

func NewFoodAnalysisService(ai domain.AIProvider, images ImageStore, store state.Store, maxSize int64) *FoodAnalysisService {
	return &FoodAnalysisService{
		ai:      ai,
		images:  images,
		state:   store,
		maxSize: maxSize,
	}
}

// AnalyzeImage checks and stores the photo, asks the model for the carbs and keeps
// the result as the user's pending analysis.
func (s *FoodAnalysisService) AnalyzeImage(ctx context.Context, userID uint, up Upload) (*domain.FoodAnalysis, error) {
	if up.Body == nil {
		return nil, apperrors.NewValidationError("no file uploaded")
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxSize+1))
	if err != nil {
		return nil, apperrors.NewValidationError("could not read the uploaded file")
	}
	if int64(len(data)) > s.maxSize {
		return nil, apperrors.NewValidationError("image must be at most " + humanSize(s.maxSize))
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("uploaded file is empty")
	}

	mimeType := http.DetectContentType(data)
	ext, ok := imageExtensions[mimeType]
	if !ok {
		return nil, apperrors.NewValidationError("uploaded file is not an image").WithContext("mime", mimeType)
	}

	path, _, err := s.images.Save(ctx, userID, ext, bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("failed to store image: %w", err))
	}

	log := logger.WithContext(ctx).With("user_id", userID, "image", path)
	log.Info("Analyzing meal image", "mime", mimeType, "size", len(data))

	analysis, err := s.ai.AnalyzeFoodImage(ctx, data, mimeType)
	if err != nil {
		log.Error("Failed to analyze food image", "error", err)
		if derr := s.images.Delete(ctx, path); derr != nil {
			log.Warn("Failed to remove unanalyzed image", "error", derr)
		}
		return nil, apperrors.NewExternalAPIError(err, "AI")
	}
	analysis.MealName = strings.TrimSpace(analysis.MealName)
	analysis.ImagePath = path

	if err := s.savePending(ctx, userID, analysis); err != nil {
		// the analysis is still useful to the caller
		log.Warn("Failed to keep pending analysis", "error", err)
	}
	return analysis, nil
}

// PendingAnalysis returns the last analysis that has not been logged yet
func (s *FoodAnalysisService) PendingAnalysis(ctx context.Context, userID uint) (*domain.FoodAnalysis, error) {
	raw, ok, err := s.state.GetTempData(ctx, userID, state.KeyPendingAnalysis)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, nil
	}
	var a domain.FoodAnalysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, nil
	}
	return &a, nil
}

// ClearPending forgets the pending analysis once the entry is logged
func (s *FoodAnalysisService) ClearPending(ctx context.Context, userID uint) error {
	return s.state.ClearTempData(ctx, userID, state.KeyPendingAnalysis)
}

func (s *FoodAnalysisService) savePending(ctx context.Context, userID uint, a *domain.FoodAnalysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.state.SetTempData(ctx, userID, state.KeyPendingAnalysis, string(data), pendingAnalysisTTL)
}

func humanSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MiB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}
