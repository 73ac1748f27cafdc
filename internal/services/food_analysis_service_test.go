package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/state"
	"github.com/vladimiradmaev/sweet-friend/internal/storage"
	"github.com/vladimiradmaev/sweet-friend/internal/testutil"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newFoodService(ai *testutil.FakeAI, maxSize int64) (*FoodAnalysisService, afero.Fs) {
	fs := afero.NewMemMapFs()
	return NewFoodAnalysisService(ai, storage.NewAferoStore(fs), state.NewManager(), maxSize), fs
}

func TestAnalyzeImage(t *testing.T) {
	ctx := context.Background()
	ai := &testutil.FakeAI{Analysis: &domain.FoodAnalysis{MealName: " Pancakes ", TotalCarbs: 48.5, Reason: "three pancakes"}}
	svc, fs := newFoodService(ai, 10<<20)

	a, err := svc.AnalyzeImage(ctx, 5, Upload{Filename: "lunch.png", Body: bytes.NewReader(pngHeader)})
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", a.MealName)
	assert.Equal(t, 48.5, a.TotalCarbs)
	assert.Equal(t, []string{"image/png"}, ai.ImageMimes)

	exists, err := afero.Exists(fs, a.ImagePath)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, strings.HasSuffix(a.ImagePath, ".png"))

	pending, err := svc.PendingAnalysis(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "Pancakes", pending.MealName)

	require.NoError(t, svc.ClearPending(ctx, 5))
	pending, err = svc.PendingAnalysis(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestAnalyzeImageRejects(t *testing.T) {
	ctx := context.Background()
	ai := &testutil.FakeAI{Analysis: &domain.FoodAnalysis{MealName: "x"}}
	svc, _ := newFoodService(ai, 32)

	cases := map[string]Upload{
		"not an image": {Body: strings.NewReader("just some text")},
		"too large":    {Body: bytes.NewReader(append(pngHeader, make([]byte, 64)...))},
		"empty":        {Body: bytes.NewReader(nil)},
		"missing":      {},
	}
	for name, up := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AnalyzeImage(ctx, 1, up)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "got %v", err)
		})
	}
	assert.Empty(t, ai.ImageMimes, "the model is never called for rejected uploads")
}

func TestAnalyzeImageAIFailure(t *testing.T) {
	svc, fs := newFoodService(&testutil.FakeAI{Err: errors.New("boom")}, 10<<20)
	_, err := svc.AnalyzeImage(context.Background(), 1, Upload{Body: bytes.NewReader(pngHeader)})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))

	files, err := afero.ReadDir(fs, "users/1")
	require.NoError(t, err)
	assert.Empty(t, files, "the image is removed when the model fails")
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "10 MiB", humanSize(10<<20))
	assert.Equal(t, "32 bytes", humanSize(32))
}
